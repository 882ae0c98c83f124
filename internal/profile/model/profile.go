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
	"time"
)

// SocialLinks holds the optional social network links of a profile.
type SocialLinks struct {
	Twitter   *string `json:"twitter" bson:"twitter,omitempty"`
	Linkedin  *string `json:"linkedin" bson:"linkedin,omitempty"`
	Github    *string `json:"github" bson:"github,omitempty"`
	Facebook  *string `json:"facebook" bson:"facebook,omitempty"`
	Instagram *string `json:"instagram" bson:"instagram,omitempty"`
	Website   *string `json:"website" bson:"website,omitempty"`
}

// Profile is the per-user record owned by this service, keyed by UserId.
type Profile struct {
	UserId          string      `json:"user_id" bson:"user_id"`
	Username        string      `json:"username" bson:"username"`
	Nickname        *string     `json:"nickname" bson:"nickname,omitempty"`
	PersonalPageUrl *string     `json:"personal_page_url" bson:"personal_page_url,omitempty"`
	IsContactPublic bool        `json:"is_contact_public" bson:"is_contact_public"`
	MailingAddress  *string     `json:"mailing_address" bson:"mailing_address,omitempty"`
	Biography       *string     `json:"biography" bson:"biography,omitempty"`
	Organization    *string     `json:"organization" bson:"organization,omitempty"`
	Country         *string     `json:"country" bson:"country,omitempty"`
	SocialLinks     SocialLinks `json:"social_links" bson:"social_links"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" bson:"updated_at"`
}

// ProfileCreateRequest is the body of POST /profiles. Identity comes from the caller's token.
type ProfileCreateRequest struct {
	Nickname        *string      `json:"nickname"`
	PersonalPageUrl *string      `json:"personal_page_url"`
	IsContactPublic bool         `json:"is_contact_public"`
	MailingAddress  *string      `json:"mailing_address"`
	Biography       *string      `json:"biography"`
	Organization    *string      `json:"organization"`
	Country         *string      `json:"country"`
	SocialLinks     *SocialLinks `json:"social_links"`
}

// NewProfile builds a fresh record with both timestamps set to now. A nil request
// yields a bare profile, as materialized from an identity event.
func NewProfile(userId, username string, req *ProfileCreateRequest, now time.Time) Profile {

	profile := Profile{
		UserId:    userId,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req == nil {
		return profile
	}
	profile.Nickname = req.Nickname
	profile.PersonalPageUrl = req.PersonalPageUrl
	profile.IsContactPublic = req.IsContactPublic
	profile.MailingAddress = req.MailingAddress
	profile.Biography = req.Biography
	profile.Organization = req.Organization
	profile.Country = req.Country
	if req.SocialLinks != nil {
		profile.SocialLinks = *req.SocialLinks
	}
	return profile
}
