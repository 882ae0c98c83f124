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
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/wso2/user-profile-service/internal/system/constants"
)

// updatableFields lists the patchable profile fields in document order.
var updatableFields = []string{
	constants.NicknameField,
	constants.PersonalPageUrlField,
	constants.IsContactPublicField,
	constants.MailingAddressField,
	constants.BiographyField,
	constants.OrganizationField,
	constants.CountryField,
	constants.SocialLinksField,
}

// ProfileUpdateRequest is a partial update of a profile. Only fields present in the
// decoded payload are applied. An explicit null clears an optional field.
type ProfileUpdateRequest struct {
	Nickname        *string
	PersonalPageUrl *string
	IsContactPublic bool
	MailingAddress  *string
	Biography       *string
	Organization    *string
	Country         *string
	SocialLinks     SocialLinks

	present map[string]bool
}

// UnmarshalJSON records which keys were present. Keys that are not patchable are ignored.
func (r *ProfileUpdateRequest) UnmarshalJSON(data []byte) error {

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode profile patch")
	}
	if raw == nil {
		return errors.New("profile patch must be a JSON object")
	}

	*r = ProfileUpdateRequest{present: make(map[string]bool)}
	for _, field := range updatableFields {
		value, ok := raw[field]
		if !ok {
			continue
		}
		if err := r.decodeField(field, value); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				typeErr.Field = field
			}
			return errors.Wrapf(err, "decode field %q", field)
		}
		r.present[field] = true
	}
	return nil
}

func (r *ProfileUpdateRequest) decodeField(field string, value json.RawMessage) error {

	switch field {
	case constants.NicknameField:
		return json.Unmarshal(value, &r.Nickname)
	case constants.PersonalPageUrlField:
		return json.Unmarshal(value, &r.PersonalPageUrl)
	case constants.IsContactPublicField:
		// null leaves the zero value: contact details become private.
		return json.Unmarshal(value, &r.IsContactPublic)
	case constants.MailingAddressField:
		return json.Unmarshal(value, &r.MailingAddress)
	case constants.BiographyField:
		return json.Unmarshal(value, &r.Biography)
	case constants.OrganizationField:
		return json.Unmarshal(value, &r.Organization)
	case constants.CountryField:
		return json.Unmarshal(value, &r.Country)
	case constants.SocialLinksField:
		return json.Unmarshal(value, &r.SocialLinks)
	}
	return nil
}

// IsSet reports whether field was present in the payload.
func (r *ProfileUpdateRequest) IsSet(field string) bool {
	return r != nil && r.present[field]
}

// SetFields returns the present fields in document order.
func (r *ProfileUpdateRequest) SetFields() []string {

	fields := make([]string, 0, len(updatableFields))
	for _, field := range updatableFields {
		if r.IsSet(field) {
			fields = append(fields, field)
		}
	}
	return fields
}

// Changes returns the present fields keyed by their document names. Cleared optional
// fields map to nil.
func (r *ProfileUpdateRequest) Changes() map[string]interface{} {

	changes := make(map[string]interface{})
	for _, field := range r.SetFields() {
		changes[field] = r.value(field)
	}
	return changes
}

func (r *ProfileUpdateRequest) value(field string) interface{} {

	switch field {
	case constants.NicknameField:
		return deref(r.Nickname)
	case constants.PersonalPageUrlField:
		return deref(r.PersonalPageUrl)
	case constants.IsContactPublicField:
		return r.IsContactPublic
	case constants.MailingAddressField:
		return deref(r.MailingAddress)
	case constants.BiographyField:
		return deref(r.Biography)
	case constants.OrganizationField:
		return deref(r.Organization)
	case constants.CountryField:
		return deref(r.Country)
	case constants.SocialLinksField:
		return r.SocialLinks
	}
	return nil
}

// Apply copies the present fields onto profile.
func (r *ProfileUpdateRequest) Apply(profile *Profile) {

	if r.IsSet(constants.NicknameField) {
		profile.Nickname = r.Nickname
	}
	if r.IsSet(constants.PersonalPageUrlField) {
		profile.PersonalPageUrl = r.PersonalPageUrl
	}
	if r.IsSet(constants.IsContactPublicField) {
		profile.IsContactPublic = r.IsContactPublic
	}
	if r.IsSet(constants.MailingAddressField) {
		profile.MailingAddress = r.MailingAddress
	}
	if r.IsSet(constants.BiographyField) {
		profile.Biography = r.Biography
	}
	if r.IsSet(constants.OrganizationField) {
		profile.Organization = r.Organization
	}
	if r.IsSet(constants.CountryField) {
		profile.Country = r.Country
	}
	if r.IsSet(constants.SocialLinksField) {
		profile.SocialLinks = r.SocialLinks
	}
}

func deref(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
