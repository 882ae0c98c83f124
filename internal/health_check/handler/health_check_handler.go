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

package handler

import (
	"net/http"

	"github.com/wso2/user-profile-service/internal/health_check/service"
	"github.com/wso2/user-profile-service/internal/system/config"
	"github.com/wso2/user-profile-service/internal/system/utils"
)

// HealthHandler implements health, liveness and readiness endpoints.
type HealthHandler struct {
	service service.HealthCheckServiceInterface
	info    config.ServiceConfig
}

// NewHealthHandler creates a new instance of HealthHandler.
func NewHealthHandler(healthService service.HealthCheckServiceInterface, info config.ServiceConfig) *HealthHandler {
	return &HealthHandler{
		service: healthService,
		info:    info,
	}
}

// HandleHealth responds to /health requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.info.Name,
		"version": h.info.Version,
	})
}

// HandleLiveness responds to /health/live requests.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "alive",
		"service": h.info.Name,
	})
}

// HandleReadiness responds to /health/ready requests.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	readiness := h.service.CheckReadiness(r.Context())

	status, code := "ready", http.StatusOK
	if !readiness.Ready {
		status, code = "not ready", http.StatusServiceUnavailable
	}
	utils.WriteJSON(w, code, map[string]string{
		"status":  status,
		"service": h.info.Name,
		"mongodb": readiness.MongoDB,
		"broker":  readiness.Broker,
	})
}
