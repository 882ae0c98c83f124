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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/wso2/user-profile-service/internal/profile/model"
	"github.com/wso2/user-profile-service/internal/profile/service"
	"github.com/wso2/user-profile-service/internal/system/authn"
	"github.com/wso2/user-profile-service/internal/system/constants"
	errors2 "github.com/wso2/user-profile-service/internal/system/errors"
	"github.com/wso2/user-profile-service/internal/system/pagination"
	"github.com/wso2/user-profile-service/internal/system/security"
	"github.com/wso2/user-profile-service/internal/system/utils"
)

const profileResource = "profile"

type ProfileHandler struct {
	service service.ProfilesServiceInterface
}

func NewProfileHandler(profilesService service.ProfilesServiceInterface) *ProfileHandler {

	return &ProfileHandler{
		service: profilesService,
	}
}

// CreateProfile creates the profile of the authenticated user. An empty body creates a
// profile with default attributes.
func (ph *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {

	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req model.ProfileCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, r, err)
		return
	}

	profile, err := ph.service.CreateProfile(r.Context(), principal.UserId, principal.Username, &req)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	w.Header().Set("Location", constants.ApiBasePath+"/"+constants.ProfileApiPath+"/"+url.PathEscape(profile.UserId))
	utils.WriteJSON(w, http.StatusCreated, profile)
}

// GetCurrentUserProfile handles retrieval of the authenticated user's profile.
func (ph *ProfileHandler) GetCurrentUserProfile(w http.ResponseWriter, r *http.Request) {

	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}
	ph.writeProfile(w, r, principal.UserId)
}

// GetProfile handles public profile retrieval by user id.
func (ph *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {

	ph.writeProfile(w, r, chi.URLParam(r, "userId"))
}

func (ph *ProfileHandler) writeProfile(w http.ResponseWriter, r *http.Request, userId string) {

	profile, err := ph.service.GetProfile(r.Context(), userId)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

// GetAllProfiles handles paginated profile listing.
func (ph *ProfileHandler) GetAllProfiles(w http.ResponseWriter, r *http.Request) {

	page, err := pagination.ParsePage(r)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}

	profiles, err := ph.service.GetAllProfiles(r.Context(), page.Skip, page.Limit)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profiles)
}

// UpdateCurrentUserProfile applies a partial update to the authenticated user's profile.
func (ph *ProfileHandler) UpdateCurrentUserProfile(w http.ResponseWriter, r *http.Request) {

	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	var patch model.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		badRequest(w, r, err)
		return
	}

	profile, err := ph.service.UpdateProfile(r.Context(), principal.UserId, &patch)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, profile)
}

// DeleteCurrentUserProfile deletes the authenticated user's profile.
func (ph *ProfileHandler) DeleteCurrentUserProfile(w http.ResponseWriter, r *http.Request) {

	principal, ok := principalOrUnauthorized(w, r)
	if !ok {
		return
	}

	removed, err := ph.service.DeleteProfile(r.Context(), principal.UserId)
	if err != nil {
		utils.HandleError(w, r, err)
		return
	}
	if !removed {
		utils.HandleError(w, r, errors2.NewClientError(errors2.PROFILE_NOT_FOUND, http.StatusNotFound))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func principalOrUnauthorized(w http.ResponseWriter, r *http.Request) (*authn.Principal, bool) {

	principal, ok := security.PrincipalFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		utils.HandleError(w, r, errors2.NewClientError(errors2.UN_AUTHORIZED, http.StatusUnauthorized))
		return nil, false
	}
	return principal, true
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {

	utils.HandleError(w, r, errors2.NewClientErrorWithDescription(errors2.BAD_REQUEST,
		utils.HandleDecodeError(err, profileResource), http.StatusBadRequest))
}
