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

package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/wso2/user-profile-service/internal/profile/model"
	"github.com/wso2/user-profile-service/internal/system/config"
	"github.com/wso2/user-profile-service/internal/system/constants"
	"github.com/wso2/user-profile-service/internal/system/log"
)

const (
	profileNamespace = "profile"
	versionTTL       = 24 * time.Hour
)

// setIfVersion stores KEYS[1] only while the version counter KEYS[2] still equals ARGV[1].
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[2]) or '0'
if current ~= ARGV[1] then
  return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// ProfileCache is a Redis backed read-through cache of profiles keyed by user id.
type ProfileCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisClient builds the client described by cfg. The connection is established lazily.
func NewRedisClient(cfg config.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewProfileCache creates a cache over client. Entries expire after ttl.
func NewProfileCache(client redis.UniversalClient, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = constants.DefaultCacheTTL
	}
	return &ProfileCache{
		client: client,
		ttl:    ttl,
	}
}

// key and versionKey share a hash tag so both land in the same cluster slot.
func key(userId string) string {
	return profileNamespace + ":{" + userId + "}"
}

func versionKey(userId string) string {
	return key(userId) + ":version"
}

// Get returns nil without error on a miss.
func (c *ProfileCache) Get(ctx context.Context, userId string) (*model.Profile, error) {

	raw, err := c.client.Get(ctx, key(userId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read cached profile %s", userId)
	}

	var profile model.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		// A corrupt entry is dropped and treated as a miss.
		log.GetLogger().Warn("Discarding undecodable cache entry", log.String("key", key(userId)), log.Error(err))
		_ = c.client.Del(ctx, key(userId)).Err()
		return nil, nil
	}
	return &profile, nil
}

// Version returns the invalidation counter of userId. Read it before loading the
// profile from the store and pass it to SetIfVersion.
func (c *ProfileCache) Version(ctx context.Context, userId string) (int64, error) {

	version, err := c.client.Get(ctx, versionKey(userId)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "read cache version of %s", userId)
	}
	return version, nil
}

// SetIfVersion caches profile unless it was invalidated after version was read.
// It reports whether the entry was written.
func (c *ProfileCache) SetIfVersion(ctx context.Context, profile *model.Profile, version int64) (bool, error) {

	raw, err := json.Marshal(profile)
	if err != nil {
		return false, errors.Wrapf(err, "encode profile %s", profile.UserId)
	}
	stored, err := setIfVersion.Run(ctx, c.client,
		[]string{key(profile.UserId), versionKey(profile.UserId)},
		strconv.FormatInt(version, 10), raw, c.ttl.Milliseconds()).Int()
	if err != nil {
		return false, errors.Wrapf(err, "cache profile %s", profile.UserId)
	}
	return stored == 1, nil
}

// Invalidate drops the cached entry and bumps its version so that reads started
// before the invalidation cannot write their stale copy back.
func (c *ProfileCache) Invalidate(ctx context.Context, userId string) error {

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(userId))
		pipe.Expire(ctx, versionKey(userId), versionTTL)
		pipe.Del(ctx, key(userId))
		return nil
	})
	return errors.Wrapf(err, "evict profile %s", userId)
}

// Ping checks that Redis answers.
func (c *ProfileCache) Ping(ctx context.Context) error {
	return errors.Wrap(c.client.Ping(ctx).Err(), "ping redis")
}
