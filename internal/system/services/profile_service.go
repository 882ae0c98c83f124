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
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wso2/user-profile-service/internal/profile/handler"
	"github.com/wso2/user-profile-service/internal/profile/service"
)

// ProfileService registers the profile API routes.
type ProfileService struct {
	profileHandler *handler.ProfileHandler
}

// NewProfileService registers the profile routes under router. Routes acting on the
// caller's own profile go through authenticate.
func NewProfileService(router chi.Router, profilesService service.ProfilesServiceInterface,
	authenticate func(http.Handler) http.Handler) *ProfileService {

	instance := &ProfileService{
		profileHandler: handler.NewProfileHandler(profilesService),
	}
	instance.RegisterRoutes(router, authenticate)

	return instance
}

func (s *ProfileService) RegisterRoutes(router chi.Router, authenticate func(http.Handler) http.Handler) {

	router.Route("/profiles", func(r chi.Router) {
		r.Get("/", s.profileHandler.GetAllProfiles)
		r.Get("/{userId}", s.profileHandler.GetProfile)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", s.profileHandler.CreateProfile)
			r.Get("/me", s.profileHandler.GetCurrentUserProfile)
			r.Put("/me", s.profileHandler.UpdateCurrentUserProfile)
			r.Delete("/me", s.profileHandler.DeleteCurrentUserProfile)
		})
	})
}
