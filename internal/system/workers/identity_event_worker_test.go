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

package workers

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/user-profile-service/internal/events/broker"
	"github.com/wso2/user-profile-service/internal/system/log"
	"github.com/wso2/user-profile-service/internal/system/metrics"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type message struct {
	subject string
	data    string
}

// scriptedSubscriber feeds its messages to the handler, then blocks until cancelled.
type scriptedSubscriber struct {
	messages []message
	results  []error
	drained  chan struct{}
}

func (s *scriptedSubscriber) Subscribe(ctx context.Context, handler broker.MessageHandler) error {
	for _, msg := range s.messages {
		s.results = append(s.results, handler(ctx, msg.subject, []byte(msg.data)))
	}
	close(s.drained)
	<-ctx.Done()
	return nil
}

type recordingMaterializer struct {
	mu       sync.Mutex
	seen     map[string]string
	attempts int
}

func (m *recordingMaterializer) MaterializeProfile(_ context.Context, userId, username string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if _, ok := m.seen[userId]; ok {
		return false
	}
	m.seen[userId] = username
	return true
}

func newMaterializer() *recordingMaterializer {
	return &recordingMaterializer{seen: make(map[string]string)}
}

func TestIdentityEventWorker_ProcessesSubscription(t *testing.T) {
	registered := `{"type":"USER_REGISTERED","userId":42,"username":"bob"}`
	subscriber := &scriptedSubscriber{
		messages: []message{
			{subject: "user.registered", data: registered},
			{subject: "user.registered", data: registered},
			{subject: "user.deleted", data: `{"type":"USER_DELETED","userId":"42"}`},
			{subject: "user.registered", data: `{not json`},
			{subject: "profile.created", data: `{"type":"PROFILE_CREATED","userId":"7"}`},
		},
		drained: make(chan struct{}),
	}
	materializer := newMaterializer()
	reg := prometheus.NewRegistry()
	worker := NewIdentityEventWorker(subscriber, materializer, nil, metrics.NewCollector(reg))

	require.NoError(t, worker.Start(context.Background()))
	select {
	case <-subscriber.drained:
	case <-time.After(2 * time.Second):
		t.Fatal("subscription was not drained")
	}
	worker.Stop()

	assert.Equal(t, map[string]string{"42": "bob"}, materializer.seen)
	assert.Equal(t, 2, materializer.attempts)
	require.Len(t, subscriber.results, 5)
	assert.NoError(t, subscriber.results[0])
	assert.NoError(t, subscriber.results[1], "duplicates are acknowledged")
	assert.NoError(t, subscriber.results[2])
	assert.Error(t, subscriber.results[3], "malformed payloads are terminated")
	assert.NoError(t, subscriber.results[4], "own events are ignored")
}

func TestIdentityEventWorker_StartTwiceFails(t *testing.T) {
	subscriber := &scriptedSubscriber{drained: make(chan struct{})}
	worker := NewIdentityEventWorker(subscriber, newMaterializer(), nil, nil)

	require.NoError(t, worker.Start(context.Background()))
	defer worker.Stop()

	assert.Error(t, worker.Start(context.Background()))
}

func TestIdentityEventWorker_StopIsIdempotent(t *testing.T) {
	subscriber := &scriptedSubscriber{drained: make(chan struct{})}
	worker := NewIdentityEventWorker(subscriber, newMaterializer(), nil, nil)

	assert.NotPanics(t, worker.Stop)
	require.NoError(t, worker.Start(context.Background()))
	worker.Stop()
	assert.NotPanics(t, worker.Stop)
}

func TestIdentityEventWorker_StopsWhenParentCancelled(t *testing.T) {
	subscriber := &scriptedSubscriber{drained: make(chan struct{})}
	worker := NewIdentityEventWorker(subscriber, newMaterializer(), nil, nil)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, worker.Start(ctx))
	cancel()

	done := make(chan struct{})
	go func() {
		worker.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

// blockingMaterializer holds the first call until proceed is closed and records the
// state of the context it was given at that point.
type blockingMaterializer struct {
	entered  chan struct{}
	proceed  chan struct{}
	ctxErr   error
	deadline bool
}

func (m *blockingMaterializer) MaterializeProfile(ctx context.Context, _, _ string) bool {
	close(m.entered)
	<-m.proceed
	m.ctxErr = ctx.Err()
	_, m.deadline = ctx.Deadline()
	return m.ctxErr == nil
}

// cancellingSubscriber hands one message to the handler and exposes its own context.
type cancellingSubscriber struct {
	data   string
	ctx    chan context.Context
	result error
}

func (s *cancellingSubscriber) Subscribe(ctx context.Context, handler broker.MessageHandler) error {
	s.ctx <- ctx
	s.result = handler(ctx, "user.registered", []byte(s.data))
	<-ctx.Done()
	return nil
}

func TestIdentityEventWorker_StopLetsInFlightMessageFinish(t *testing.T) {
	subscriber := &cancellingSubscriber{
		data: `{"type":"USER_REGISTERED","userId":"u1","username":"alice"}`,
		ctx:  make(chan context.Context, 1),
	}
	materializer := &blockingMaterializer{entered: make(chan struct{}), proceed: make(chan struct{})}
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)
	worker := NewIdentityEventWorker(subscriber, materializer, nil, collector)

	require.NoError(t, worker.Start(context.Background()))
	subscriptionCtx := <-subscriber.ctx
	<-materializer.entered

	stopped := make(chan struct{})
	go func() {
		worker.Stop()
		close(stopped)
	}()
	require.Eventually(t, func() bool { return subscriptionCtx.Err() != nil }, 2*time.Second, 10*time.Millisecond)

	close(materializer.proceed)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}

	assert.NoError(t, materializer.ctxErr)
	assert.True(t, materializer.deadline)
	assert.NoError(t, subscriber.result)
}
