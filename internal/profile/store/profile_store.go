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

package store

import (
	"context"
	"time"

	"github.com/wso2/user-profile-service/internal/profile/model"
)

// ProfileStore persists profiles keyed by user id.
type ProfileStore interface {
	// Get returns nil without error when no profile exists for userId.
	Get(ctx context.Context, userId string) (*model.Profile, error)
	// Create inserts profile unless one already exists for its user id. It reports
	// whether a new record was written.
	Create(ctx context.Context, profile model.Profile) (bool, error)
	// Update sets the given fields and updated_at. It reports whether a record matched.
	Update(ctx context.Context, userId string, changes map[string]interface{}, updatedAt time.Time) (bool, error)
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, userId string) (bool, error)
	List(ctx context.Context, skip, limit int) ([]model.Profile, error)
}
