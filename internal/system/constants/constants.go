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

package constants

import "time"

const ApiBasePath = "/api/v1"
const ProfileApiPath = "profiles"
const HealthApiPath = "/health"
const MetricsApiPath = "/metrics"

const DefaultConfigFile = "repository/conf/deployment.yaml"
const DefaultEnvGlob = "config/*.env"

type contextKey string

const TraceIDContextKey contextKey = "trace_id"
const PrincipalContextKey contextKey = "principal"

const TraceIDHeader = "X-Trace-Id"

// Pagination defaults for GET /profiles.
const (
	DefaultListSkip  = 0
	DefaultListLimit = 100
	MaxListLimit     = 100
)

// Subjects published by this service.
const (
	ProfileCreatedSubject = "profile.created"
	ProfileUpdatedSubject = "profile.updated"
	ProfileDeletedSubject = "profile.deleted"
)

// Event type names carried in the "type" field of event payloads.
const (
	ProfileCreatedEvent = "PROFILE_CREATED"
	ProfileUpdatedEvent = "PROFILE_UPDATED"
	ProfileDeletedEvent = "PROFILE_DELETED"
	UserRegisteredEvent = "USER_REGISTERED"
)

const (
	DefaultMongoTimeout       = 5 * time.Second
	DefaultReconnectWait      = 5 * time.Second
	DefaultPublishTimeout     = 2 * time.Second
	DefaultFetchWait          = 5 * time.Second
	DefaultCacheTTL           = 5 * time.Minute
	DefaultShutdownGrace      = 15 * time.Second
	DefaultEventHandleTimeout = 20 * time.Second
	DefaultProfileCollection  = "profiles"
	DefaultStreamName         = "MICROSERVICES_EVENTS"
	DefaultConsumerName       = "user-profile-service"
)

// Profile document field names.
const (
	UserIdField          = "user_id"
	UsernameField        = "username"
	NicknameField        = "nickname"
	PersonalPageUrlField = "personal_page_url"
	IsContactPublicField = "is_contact_public"
	MailingAddressField  = "mailing_address"
	BiographyField       = "biography"
	OrganizationField    = "organization"
	CountryField         = "country"
	SocialLinksField     = "social_links"
	CreatedAtField       = "created_at"
	UpdatedAtField       = "updated_at"
)
