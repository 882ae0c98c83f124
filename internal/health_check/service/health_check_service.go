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

package service

import (
	"context"
	"time"

	"github.com/wso2/user-profile-service/internal/system/log"
)

const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"

	defaultCheckTimeout = 2 * time.Second
)

// Pinger is a dependency that answers a round trip, such as the profile store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectionState reports whether a long lived connection is up, such as the broker.
type ConnectionState interface {
	IsConnected() bool
}

// Readiness is the outcome of a readiness check.
type Readiness struct {
	Ready   bool
	MongoDB string
	Broker  string
}

// HealthCheckServiceInterface defines the service interface.
type HealthCheckServiceInterface interface {
	CheckReadiness(ctx context.Context) Readiness
}

// HealthCheckService checks the store and the broker.
type HealthCheckService struct {
	store   Pinger
	broker  ConnectionState
	timeout time.Duration
}

// NewHealthCheckService returns a new instance.
func NewHealthCheckService(store Pinger, broker ConnectionState) *HealthCheckService {
	return &HealthCheckService{
		store:   store,
		broker:  broker,
		timeout: defaultCheckTimeout,
	}
}

// CheckReadiness fails closed: a dependency that cannot be checked counts as down.
func (h *HealthCheckService) CheckReadiness(ctx context.Context) Readiness {

	logger := log.GetLogger()
	readiness := Readiness{MongoDB: StatusDisconnected, Broker: StatusDisconnected}

	if h.store != nil {
		ctx, cancel := context.WithTimeout(ctx, h.timeout)
		err := h.store.Ping(ctx)
		cancel()
		if err == nil {
			readiness.MongoDB = StatusConnected
		} else {
			logger.Warn("Readiness check: database ping failed", log.Error(err))
		}
	}
	if h.broker != nil && h.broker.IsConnected() {
		readiness.Broker = StatusConnected
	} else {
		logger.Warn("Readiness check: broker is not connected")
	}

	readiness.Ready = readiness.MongoDB == StatusConnected && readiness.Broker == StatusConnected
	return readiness
}
