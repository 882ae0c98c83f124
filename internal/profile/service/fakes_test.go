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
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/wso2/user-profile-service/internal/profile/model"
)

// memoryStore is an in-memory ProfileStore preserving insertion order.
type memoryStore struct {
	mu       sync.Mutex
	profiles map[string]model.Profile
	order    []string

	err          error
	loseRace     bool
	deleteOnSet  bool
	getCalls     int
	updateFields []map[string]interface{}
}

func newMemoryStore() *memoryStore {
	return &memoryStore{profiles: make(map[string]model.Profile)}
}

func (m *memoryStore) Get(_ context.Context, userId string) (*model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.err != nil {
		return nil, m.err
	}
	profile, ok := m.profiles[userId]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

func (m *memoryStore) Create(_ context.Context, profile model.Profile) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if m.loseRace {
		return false, nil
	}
	if _, ok := m.profiles[profile.UserId]; ok {
		return false, nil
	}
	m.profiles[profile.UserId] = profile
	m.order = append(m.order, profile.UserId)
	return true, nil
}

func (m *memoryStore) Update(_ context.Context, userId string, changes map[string]interface{},
	updatedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	m.updateFields = append(m.updateFields, changes)
	current, ok := m.profiles[userId]
	if !ok {
		return false, nil
	}
	if m.deleteOnSet {
		m.removeLocked(userId)
		return true, nil
	}

	doc := map[string]interface{}{}
	raw, _ := json.Marshal(current)
	_ = json.Unmarshal(raw, &doc)
	for field, value := range changes {
		doc[field] = value
	}
	doc["updated_at"] = updatedAt
	raw, err := json.Marshal(doc)
	if err != nil {
		return false, errors.Wrap(err, "encode update")
	}
	var updated model.Profile
	if err := json.Unmarshal(raw, &updated); err != nil {
		return false, errors.Wrap(err, "decode update")
	}
	m.profiles[userId] = updated
	return true, nil
}

func (m *memoryStore) Delete(_ context.Context, userId string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.profiles[userId]; !ok {
		return false, nil
	}
	m.removeLocked(userId)
	return true, nil
}

func (m *memoryStore) removeLocked(userId string) {
	delete(m.profiles, userId)
	for i, id := range m.order {
		if id == userId {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *memoryStore) List(_ context.Context, skip, limit int) ([]model.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var page []model.Profile
	for i := skip; i < len(m.order) && len(page) < limit; i++ {
		page = append(page, m.profiles[m.order[i]])
	}
	return page, nil
}

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.profiles)
}

type publishedEvent struct {
	Subject string
	Payload map[string]interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, subject string, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return err
	}
	p.events = append(p.events, publishedEvent{Subject: subject, Payload: decoded})
	return nil
}

func (p *recordingPublisher) published() []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]publishedEvent(nil), p.events...)
}

type memoryCache struct {
	mu       sync.Mutex
	entries  map[string]model.Profile
	versions map[string]int64
	err      error
	evicted  []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		entries:  make(map[string]model.Profile),
		versions: make(map[string]int64),
	}
}

func (c *memoryCache) Get(_ context.Context, userId string) (*model.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	profile, ok := c.entries[userId]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

func (c *memoryCache) Version(_ context.Context, userId string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return 0, c.err
	}
	return c.versions[userId], nil
}

func (c *memoryCache) SetIfVersion(_ context.Context, profile *model.Profile, version int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	if c.versions[profile.UserId] != version {
		return false, nil
	}
	c.entries[profile.UserId] = *profile
	return true, nil
}

func (c *memoryCache) Invalidate(_ context.Context, userId string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.evicted = append(c.evicted, userId)
	c.versions[userId]++
	delete(c.entries, userId)
	return c.err
}

func (c *memoryCache) has(userId string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[userId]
	return ok
}

// heldStore takes its snapshot in the first Get and then waits for release before returning it,
// leaving room for writers to run against the underlying store.
type heldStore struct {
	*memoryStore
	once    sync.Once
	reading chan struct{}
	release chan struct{}
}

func newHeldStore(inner *memoryStore) *heldStore {
	return &heldStore{
		memoryStore: inner,
		reading:     make(chan struct{}),
		release:     make(chan struct{}),
	}
}

func (h *heldStore) Get(ctx context.Context, userId string) (*model.Profile, error) {
	profile, err := h.memoryStore.Get(ctx, userId)
	h.once.Do(func() {
		close(h.reading)
		<-h.release
	})
	return profile, err
}

// frozenClock returns the same instant until advanced.
type frozenClock struct {
	now time.Time
}

func (c *frozenClock) Now() time.Time {
	return c.now
}

func (c *frozenClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
