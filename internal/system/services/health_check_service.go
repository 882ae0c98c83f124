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

package services

import (
	"github.com/go-chi/chi/v5"

	"github.com/wso2/user-profile-service/internal/health_check/handler"
	"github.com/wso2/user-profile-service/internal/health_check/service"
	"github.com/wso2/user-profile-service/internal/system/config"
)

// HealthService handles routing for health, liveness and readiness endpoints.
type HealthService struct {
	handler *handler.HealthHandler
}

// NewHealthService registers the health routes under healthPath.
func NewHealthService(router chi.Router, healthPath string, healthService service.HealthCheckServiceInterface,
	info config.ServiceConfig) *HealthService {

	instance := &HealthService{
		handler: handler.NewHealthHandler(healthService, info),
	}
	router.Get(healthPath, instance.handler.HandleHealth)
	router.Get(healthPath+"/live", instance.handler.HandleLiveness)
	router.Get(healthPath+"/ready", instance.handler.HandleReadiness)

	return instance
}
