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

package log

import (
	"time"

	"go.uber.org/zap"
)

// AuditEvent represents a structured audit log entry
type AuditEvent struct {
	RecordedAt    string      `json:"recordedAt"`
	InitiatorID   string      `json:"initiatorId"`
	InitiatorType string      `json:"initiatorType"`
	TargetID      string      `json:"targetId"`
	TargetType    string      `json:"targetType"`
	ActionID      string      `json:"actionId"`
	TraceID       string      `json:"traceId,omitempty"`
	Data          interface{} `json:"data,omitempty"`
}

// Audit logs an audit event with structured fields
func (l *Logger) Audit(event AuditEvent) {
	if event.RecordedAt == "" {
		event.RecordedAt = time.Now().UTC().Format(time.RFC3339)
	}

	l.internal.Info("AUDIT",
		zap.String("recordedAt", event.RecordedAt),
		zap.String("initiatorId", event.InitiatorID),
		zap.String("initiatorType", event.InitiatorType),
		zap.String("targetId", event.TargetID),
		zap.String("targetType", event.TargetType),
		zap.String("actionId", event.ActionID),
		zap.String("traceId", event.TraceID),
		zap.Any("data", event.Data),
	)
}

// Action IDs for audit logging
const (
	ActionCreateProfile      = "create-profile"
	ActionMaterializeProfile = "materialize-profile"
	ActionUpdateProfile      = "update-profile"
	ActionDeleteProfile      = "delete-profile"
)

// Initiator types for audit logging
const (
	InitiatorTypeUser   = "User"
	InitiatorTypeSystem = "System"
)

// Target types for audit logging
const (
	TargetTypeProfile = "Profile"
)
