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
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	eventModel "github.com/wso2/user-profile-service/internal/events/model"
	"github.com/wso2/user-profile-service/internal/profile/model"
	"github.com/wso2/user-profile-service/internal/profile/store"
	"github.com/wso2/user-profile-service/internal/system/config"
	"github.com/wso2/user-profile-service/internal/system/constants"
	traceCtx "github.com/wso2/user-profile-service/internal/system/context"
	errors2 "github.com/wso2/user-profile-service/internal/system/errors"
	"github.com/wso2/user-profile-service/internal/system/log"
	"github.com/wso2/user-profile-service/internal/system/metrics"
)

// EventPublisher delivers an encoded event on a subject.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload []byte) error
}

// ProfileCache is an optional read-through cache in front of the store. A fill only
// lands if no Invalidate happened since the Version it was read under.
type ProfileCache interface {
	Get(ctx context.Context, userId string) (*model.Profile, error)
	Version(ctx context.Context, userId string) (int64, error)
	SetIfVersion(ctx context.Context, profile *model.Profile, version int64) (bool, error)
	Invalidate(ctx context.Context, userId string) error
}

type ProfilesServiceInterface interface {
	CreateProfile(ctx context.Context, userId, username string, req *model.ProfileCreateRequest) (*model.Profile, error)
	MaterializeProfile(ctx context.Context, userId, username string) bool
	GetProfile(ctx context.Context, userId string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, userId string, patch *model.ProfileUpdateRequest) (*model.Profile, error)
	DeleteProfile(ctx context.Context, userId string) (bool, error)
	GetAllProfiles(ctx context.Context, skip, limit int) ([]model.Profile, error)
}

// Options carries the collaborators of a ProfilesService. Cache and Metrics may be nil.
type Options struct {
	Store     store.ProfileStore
	Publisher EventPublisher
	Cache     ProfileCache
	Policy    string
	Clock     func() time.Time
	Logger    *log.Logger
	Metrics   *metrics.Collector
}

// ProfilesService owns the profile lifecycle. It persists API mutations and identity
// events through the store and announces API mutations on the broker.
type ProfilesService struct {
	store     store.ProfileStore
	publisher EventPublisher
	cache     ProfileCache
	policy    string
	clock     func() time.Time
	logger    *log.Logger
	metrics   *metrics.Collector
}

// NewProfilesService creates a ProfilesService from opts.
func NewProfilesService(opts Options) *ProfilesService {

	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.GetLogger()
	}
	if opts.Policy == "" {
		opts.Policy = config.PublishPolicyBestEffort
	}
	return &ProfilesService{
		store:     opts.Store,
		publisher: opts.Publisher,
		cache:     opts.Cache,
		policy:    opts.Policy,
		clock:     opts.Clock,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
}

// CreateProfile creates the profile of an authenticated user and publishes profile.created.
func (s *ProfilesService) CreateProfile(ctx context.Context, userId, username string,
	req *model.ProfileCreateRequest) (*model.Profile, error) {

	if req == nil {
		req = &model.ProfileCreateRequest{}
	}
	profile, err := s.createProfile(ctx, userId, username, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Profile created successfully", log.String("userId", profile.UserId))
	s.audit(ctx, log.ActionCreateProfile, log.InitiatorTypeUser, profile.UserId, nil)

	event := s.newEvent(constants.ProfileCreatedEvent, profile.UserId, profile.Username, profile.CreatedAt,
		map[string]interface{}{
			constants.NicknameField:     profile.Nickname,
			constants.OrganizationField: profile.Organization,
			constants.CountryField:      profile.Country,
		})
	if err := s.publish(ctx, constants.ProfileCreatedSubject, event); err != nil {
		return nil, err
	}
	return profile, nil
}

// MaterializeProfile creates a bare profile for a user registered in the identity
// service. It never fails: an existing profile is skipped and other failures are
// logged. It reports whether a profile was created. No event is published.
func (s *ProfilesService) MaterializeProfile(ctx context.Context, userId, username string) bool {

	profile, err := s.createProfile(ctx, userId, username, nil)
	if err != nil {
		if errors2.HasCode(err, errors2.PROFILE_ALREADY_EXISTS) {
			s.logger.Info("Profile already exists, skipping materialization", log.String("userId", userId))
			return false
		}
		s.logger.Error("Failed to materialize profile", log.String("userId", userId), log.Error(err))
		return false
	}
	s.logger.Info("Profile materialized from identity event", log.String("userId", profile.UserId))
	s.audit(ctx, log.ActionMaterializeProfile, log.InitiatorTypeSystem, profile.UserId, nil)
	return true
}

func (s *ProfilesService) createProfile(ctx context.Context, userId, username string,
	req *model.ProfileCreateRequest) (*model.Profile, error) {

	userId = strings.TrimSpace(userId)
	username = strings.TrimSpace(username)
	if userId == "" || username == "" {
		return nil, errors2.NewClientErrorWithDescription(errors2.BAD_REQUEST,
			"Both user_id and username are required to create a profile.", http.StatusBadRequest)
	}

	existing, err := s.store.Get(ctx, userId)
	if err != nil {
		return nil, errors2.NewServerError(errors2.GET_PROFILE, err)
	}
	if existing != nil {
		return nil, errors2.NewClientError(errors2.PROFILE_ALREADY_EXISTS, http.StatusBadRequest)
	}

	profile := model.NewProfile(userId, username, req, s.now())
	created, err := s.store.Create(ctx, profile)
	if err != nil {
		return nil, errors2.NewServerError(errors2.ADD_PROFILE, err)
	}
	if !created {
		// Lost a race against a concurrent create for the same user.
		return nil, errors2.NewClientError(errors2.PROFILE_ALREADY_EXISTS, http.StatusBadRequest)
	}
	return &profile, nil
}

func (s *ProfilesService) GetProfile(ctx context.Context, userId string) (*model.Profile, error) {

	fill := false
	var version int64
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userId)
		switch {
		case err != nil:
			s.metrics.RecordCacheLookup(metrics.ResultError)
			s.logger.Warn("Profile cache lookup failed", log.String("userId", userId), log.Error(err))
		case cached != nil:
			s.metrics.RecordCacheLookup(metrics.ResultHit)
			return cached, nil
		default:
			s.metrics.RecordCacheLookup(metrics.ResultMiss)
			version, err = s.cache.Version(ctx, userId)
			fill = err == nil
		}
	}

	profile, err := s.store.Get(ctx, userId)
	if err != nil {
		return nil, errors2.NewServerError(errors2.GET_PROFILE, err)
	}
	if profile == nil {
		return nil, errors2.NewClientError(errors2.PROFILE_NOT_FOUND, http.StatusNotFound)
	}

	if fill {
		stored, err := s.cache.SetIfVersion(ctx, profile, version)
		if err != nil {
			s.logger.Warn("Failed to cache profile", log.String("userId", userId), log.Error(err))
		} else if !stored {
			s.logger.Debug("Skipped caching a profile changed during the read", log.String("userId", userId))
		}
	}
	return profile, nil
}

// UpdateProfile applies the fields present in patch, always advancing updated_at, and
// returns the record as stored afterwards.
func (s *ProfilesService) UpdateProfile(ctx context.Context, userId string,
	patch *model.ProfileUpdateRequest) (*model.Profile, error) {

	current, err := s.store.Get(ctx, userId)
	if err != nil {
		return nil, errors2.NewServerError(errors2.GET_PROFILE, err)
	}
	if current == nil {
		return nil, errors2.NewClientError(errors2.UPDATE_PROFILE_NOT_FOUND, http.StatusBadRequest)
	}

	updatedAt := s.nextUpdatedAt(current.UpdatedAt)
	changes := patch.Changes()
	matched, err := s.store.Update(ctx, userId, changes, updatedAt)
	if err != nil {
		return nil, errors2.NewServerError(errors2.UPDATE_PROFILE, err)
	}
	if !matched {
		return nil, errors2.NewClientError(errors2.PROFILE_NOT_FOUND, http.StatusNotFound)
	}
	s.evict(ctx, userId)
	s.logger.Info("Profile updated successfully", log.String("userId", userId),
		log.Any("fields", patch.SetFields()))
	s.audit(ctx, log.ActionUpdateProfile, log.InitiatorTypeUser, userId, patch.SetFields())

	data := make(map[string]interface{}, len(changes)+1)
	for field, value := range changes {
		data[field] = value
	}
	data[constants.UpdatedAtField] = updatedAt.Format(time.RFC3339Nano)
	event := s.newEvent(constants.ProfileUpdatedEvent, userId, current.Username, updatedAt, data)
	if err := s.publish(ctx, constants.ProfileUpdatedSubject, event); err != nil {
		return nil, err
	}

	updated, err := s.store.Get(ctx, userId)
	if err != nil {
		return nil, errors2.NewServerError(errors2.GET_PROFILE, err)
	}
	if updated == nil {
		return nil, errors2.NewClientError(errors2.PROFILE_NOT_FOUND, http.StatusNotFound)
	}
	return updated, nil
}

// DeleteProfile removes the profile of userId and reports whether one existed.
// profile.deleted is published only when a record was removed.
func (s *ProfilesService) DeleteProfile(ctx context.Context, userId string) (bool, error) {

	removed, err := s.store.Delete(ctx, userId)
	if err != nil {
		return false, errors2.NewServerError(errors2.DELETE_PROFILE, err)
	}
	s.evict(ctx, userId)
	if !removed {
		return false, nil
	}
	s.logger.Info("Profile deleted successfully", log.String("userId", userId))
	s.audit(ctx, log.ActionDeleteProfile, log.InitiatorTypeUser, userId, nil)

	event := s.newEvent(constants.ProfileDeletedEvent, userId, "", s.now(), nil)
	if err := s.publish(ctx, constants.ProfileDeletedSubject, event); err != nil {
		return true, err
	}
	return true, nil
}

// GetAllProfiles returns a page of profiles in store order. limit is capped at MaxListLimit.
func (s *ProfilesService) GetAllProfiles(ctx context.Context, skip, limit int) ([]model.Profile, error) {

	if skip < 0 || limit < 1 {
		return nil, errors2.NewClientErrorWithDescription(errors2.INVALID_PAGINATION,
			"skip must be zero or greater and limit must be at least 1.", http.StatusBadRequest)
	}
	if limit > constants.MaxListLimit {
		limit = constants.MaxListLimit
	}

	profiles, err := s.store.List(ctx, skip, limit)
	if err != nil {
		return nil, errors2.NewServerError(errors2.GET_PROFILE, err)
	}
	if profiles == nil {
		profiles = []model.Profile{}
	}
	return profiles, nil
}

// now is truncated to the millisecond precision of stored timestamps.
func (s *ProfilesService) now() time.Time {
	return s.clock().UTC().Truncate(time.Millisecond)
}

// nextUpdatedAt returns a timestamp strictly after previous even if the clock has not
// advanced.
func (s *ProfilesService) nextUpdatedAt(previous time.Time) time.Time {
	now := s.now()
	if !now.After(previous) {
		return previous.UTC().Add(time.Millisecond)
	}
	return now
}

func (s *ProfilesService) evict(ctx context.Context, userId string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userId); err != nil {
		s.logger.Warn("Failed to evict cached profile", log.String("userId", userId), log.Error(err))
	}
}

func (s *ProfilesService) newEvent(eventType, userId, username string, at time.Time,
	data map[string]interface{}) eventModel.ProfileEvent {

	return eventModel.ProfileEvent{
		Type:      eventType,
		EventType: eventType,
		EventID:   uuid.New().String(),
		UserID:    userId,
		Username:  username,
		Timestamp: at.UTC().Format(time.RFC3339Nano),
		Data:      data,
	}
}

// publish applies the publish policy: under best_effort a failure is logged and
// swallowed, under required it is returned as a server error.
func (s *ProfilesService) publish(ctx context.Context, subject string, event eventModel.ProfileEvent) error {

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to encode profile event", log.String("subject", subject), log.Error(err))
		return errors2.NewServerError(errors2.MARSHAL_JSON, err)
	}

	err = s.publisher.Publish(ctx, subject, payload)
	s.metrics.RecordPublish(subject, err)
	if err == nil {
		s.logger.Debug("Profile event published", log.String("subject", subject),
			log.String("eventId", event.EventID))
		return nil
	}

	if s.policy == config.PublishPolicyRequired {
		s.logger.Error("Failed to publish profile event", log.String("subject", subject),
			log.String("userId", event.UserID), log.Error(err))
		return errors2.NewServerError(errors2.PUBLISH_EVENT, err)
	}
	s.logger.Warn("Failed to publish profile event, continuing", log.String("subject", subject),
		log.String("userId", event.UserID), log.Error(err))
	return nil
}

func (s *ProfilesService) audit(ctx context.Context, action, initiatorType, userId string, data interface{}) {
	s.logger.Audit(log.AuditEvent{
		InitiatorID:   userId,
		InitiatorType: initiatorType,
		TargetID:      userId,
		TargetType:    log.TargetTypeProfile,
		ActionID:      action,
		TraceID:       traceCtx.GetTraceID(ctx),
		Data:          data,
	})
}
