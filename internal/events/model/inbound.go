/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/wso2/user-profile-service/internal/system/constants"
)

// InboundKind enumerates the inbound event variants this service understands.
type InboundKind int

const (
	KindUnrecognized InboundKind = iota
	KindUserRegistered
)

func (k InboundKind) String() string {
	switch k {
	case KindUserRegistered:
		return "user_registered"
	default:
		return "unrecognized"
	}
}

// InboundEvent is the closed set of decoded identity lifecycle events.
// The only implementations are UserRegistered and Unrecognized.
type InboundEvent interface {
	Kind() InboundKind
	inbound()
}

// UserRegistered is published by the identity service when an account is created.
type UserRegistered struct {
	UserID   string
	Username string
}

func (UserRegistered) Kind() InboundKind { return KindUserRegistered }
func (UserRegistered) inbound()          {}

// Unrecognized covers every event that is acknowledged without action.
type Unrecognized struct {
	Type   string
	Reason string
}

func (Unrecognized) Kind() InboundKind { return KindUnrecognized }
func (Unrecognized) inbound()          {}

type inboundEnvelope struct {
	Type      string          `json:"type"`
	EventType string          `json:"eventType"`
	UserID    json.RawMessage `json:"userId"`
	Username  string          `json:"username"`
	Data      json.RawMessage `json:"data"`
}

// DecodeInbound turns a raw message body into an InboundEvent. Only malformed JSON
// yields an error; well-formed events that cannot be acted on decode to Unrecognized.
func DecodeInbound(body []byte) (InboundEvent, error) {

	var envelope inboundEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, "malformed event payload")
	}

	eventType := envelope.Type
	if eventType == "" {
		eventType = envelope.EventType
	}

	if eventType != constants.UserRegisteredEvent {
		return Unrecognized{Type: eventType, Reason: "unsupported event type"}, nil
	}

	userID := decodeIdentifier(envelope.UserID)
	username := strings.TrimSpace(envelope.Username)
	if username == "" {
		username = nestedUsername(envelope.Data)
	}

	if userID == "" || username == "" {
		return Unrecognized{Type: eventType, Reason: "missing userId or username"}, nil
	}
	return UserRegistered{UserID: userID, Username: username}, nil
}

// decodeIdentifier accepts a JSON string or number. The identity service publishes numeric ids.
func decodeIdentifier(raw json.RawMessage) string {

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func nestedUsername(raw json.RawMessage) string {

	if len(raw) == 0 {
		return ""
	}
	var data struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return ""
	}
	return strings.TrimSpace(data.Username)
}
