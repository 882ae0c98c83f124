//go:build integration

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

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/user-profile-service/internal/profile/model"
	"github.com/wso2/user-profile-service/internal/system/cache"
	"github.com/wso2/user-profile-service/internal/system/config"
)

func Test_ProfileCache(t *testing.T) {
	ctx := context.Background()

	client := cache.NewRedisClient(config.CacheConfig{Enabled: true, Addr: testRedis.Addr})
	defer client.Close()
	profiles := cache.NewProfileCache(client, time.Minute)
	require.NoError(t, profiles.Ping(ctx))

	t.Run("Miss_Returns_Nil", func(t *testing.T) {
		cached, err := profiles.Get(ctx, "absent")
		require.NoError(t, err)
		assert.Nil(t, cached)
	})

	t.Run("Set_Get_Invalidate", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Millisecond)
		profile := model.NewProfile("u1", "alice", &model.ProfileCreateRequest{Country: strPtr("LK")}, now)
		version, err := profiles.Version(ctx, "u1")
		require.NoError(t, err)
		stored, err := profiles.SetIfVersion(ctx, &profile, version)
		require.NoError(t, err)
		assert.True(t, stored)

		cached, err := profiles.Get(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.Equal(t, "alice", cached.Username)
		assert.Equal(t, "LK", *cached.Country)
		assert.True(t, now.Equal(cached.UpdatedAt))

		ttl, err := client.TTL(ctx, "profile:{u1}").Result()
		require.NoError(t, err)
		assert.Greater(t, ttl, time.Duration(0))

		require.NoError(t, profiles.Invalidate(ctx, "u1"))
		cached, err = profiles.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Nil(t, cached)
	})

	t.Run("Stale_Read_Is_Not_Written_Back", func(t *testing.T) {
		profile := model.NewProfile("u2", "bob", nil, time.Now().UTC())
		version, err := profiles.Version(ctx, "u2")
		require.NoError(t, err)

		require.NoError(t, profiles.Invalidate(ctx, "u2"))

		stored, err := profiles.SetIfVersion(ctx, &profile, version)
		require.NoError(t, err)
		assert.False(t, stored)
		cached, err := profiles.Get(ctx, "u2")
		require.NoError(t, err)
		assert.Nil(t, cached)

		current, err := profiles.Version(ctx, "u2")
		require.NoError(t, err)
		assert.Equal(t, version+1, current)
	})

	t.Run("Corrupt_Entry_Is_Dropped", func(t *testing.T) {
		require.NoError(t, client.Set(ctx, "profile:{broken}", "{not json", time.Minute).Err())

		cached, err := profiles.Get(ctx, "broken")
		require.NoError(t, err)
		assert.Nil(t, cached)

		exists, err := client.Exists(ctx, "profile:{broken}").Result()
		require.NoError(t, err)
		assert.Equal(t, int64(0), exists)
	})
}
