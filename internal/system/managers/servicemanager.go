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

package managers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"

	healthService "github.com/wso2/user-profile-service/internal/health_check/service"
	profileService "github.com/wso2/user-profile-service/internal/profile/service"
	"github.com/wso2/user-profile-service/internal/system/config"
	"github.com/wso2/user-profile-service/internal/system/constants"
	"github.com/wso2/user-profile-service/internal/system/errors"
	"github.com/wso2/user-profile-service/internal/system/log"
	"github.com/wso2/user-profile-service/internal/system/metrics"
	"github.com/wso2/user-profile-service/internal/system/middleware"
	"github.com/wso2/user-profile-service/internal/system/security"
	"github.com/wso2/user-profile-service/internal/system/services"
	"github.com/wso2/user-profile-service/internal/system/utils"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
	Handler() http.Handler
}

// Dependencies are the wired components served over HTTP. Metrics and Gatherer may be nil.
type Dependencies struct {
	Profiles      profileService.ProfilesServiceInterface
	Health        healthService.HealthCheckServiceInterface
	Authenticator security.TokenAuthenticator
	Service       config.ServiceConfig
	Auth          config.AuthConfig
	Logger        *log.Logger
	Metrics       *metrics.Collector
	Gatherer      prometheus.Gatherer
}

type ServiceManager struct {
	router *chi.Mux
	deps   Dependencies
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(deps Dependencies) ServiceManagerInterface {

	if deps.Logger == nil {
		deps.Logger = log.GetLogger()
	}
	return &ServiceManager{
		router: chi.NewRouter(),
		deps:   deps,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	sm.router.Use(middleware.NewRecoveryMiddleware(sm.deps.Logger))
	sm.router.Use(middleware.TraceID)
	sm.router.Use(middleware.NewLoggingMiddleware(sm.deps.Logger, sm.deps.Metrics))
	sm.router.Use(cors.Handler(corsOptions(sm.deps.Auth.CORSAllowedOrigins)))

	sm.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.HandleError(w, r, errors.NewClientErrorWithDescription(errors.RESOURCE_NOT_FOUND,
			"No resource found for "+r.URL.Path, http.StatusNotFound))
	})
	sm.router.Get("/", sm.serviceInfo)

	services.NewHealthService(sm.router, constants.HealthApiPath, sm.deps.Health, sm.deps.Service)
	if sm.deps.Gatherer != nil {
		sm.router.Handle(constants.MetricsApiPath, metrics.Handler(sm.deps.Gatherer))
	}

	sm.router.Route(apiBasePath, func(r chi.Router) {
		services.NewProfileService(r, sm.deps.Profiles, security.RequireAuthentication(sm.deps.Authenticator))
	})
	return nil
}

func (sm *ServiceManager) Handler() http.Handler {
	return sm.router
}

func (sm *ServiceManager) serviceInfo(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"service":     sm.deps.Service.Name,
		"version":     sm.deps.Service.Version,
		"description": "User profile management service",
	})
}

// corsOptions never allows credentials: callers authenticate with a bearer header.
func corsOptions(allowedOrigins []string) cors.Options {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", constants.TraceIDHeader},
		ExposedHeaders:   []string{"Location", constants.TraceIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}
}
