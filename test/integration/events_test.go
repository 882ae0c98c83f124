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
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/user-profile-service/internal/events/broker"
	eventModel "github.com/wso2/user-profile-service/internal/events/model"
	"github.com/wso2/user-profile-service/internal/profile/model"
	profileService "github.com/wso2/user-profile-service/internal/profile/service"
	"github.com/wso2/user-profile-service/internal/system/config"
	"github.com/wso2/user-profile-service/internal/system/constants"
	"github.com/wso2/user-profile-service/internal/system/log"
	"github.com/wso2/user-profile-service/internal/system/workers"
)

type received struct {
	subject string
	event   eventModel.ProfileEvent
}

// collect subscribes a fresh durable consumer and forwards profile events to the returned channel.
func collect(t *testing.T, ctx context.Context) <-chan received {
	t.Helper()

	client, err := broker.Connect(brokerConfig("it-"+uuid.New().String()), log.GetLogger())
	require.NoError(t, err)
	t.Cleanup(client.Close)

	out := make(chan received, 16)
	go func() {
		_ = client.Subscribe(ctx, func(_ context.Context, subject string, data []byte) error {
			var event eventModel.ProfileEvent
			if err := json.Unmarshal(data, &event); err != nil {
				return err
			}
			if event.Type != "" && subject != "user.registered" {
				out <- received{subject: subject, event: event}
			}
			return nil
		})
	}()
	return out
}

func waitFor(t *testing.T, events <-chan received, subject, userId string) eventModel.ProfileEvent {
	t.Helper()
	deadline := time.After(15 * time.Second)
	for {
		select {
		case r := <-events:
			if r.subject == subject && r.event.UserID == userId {
				return r.event
			}
		case <-deadline:
			t.Fatalf("no %s event received for %s", subject, userId)
			return eventModel.ProfileEvent{}
		}
	}
}

func newBrokerClient(t *testing.T, consumer string) *broker.Client {
	t.Helper()
	client, err := broker.Connect(brokerConfig(consumer), log.GetLogger())
	require.NoError(t, err)
	t.Cleanup(client.Close)

	require.Eventually(t, func() bool {
		return client.EnsureStream(context.Background()) == nil
	}, 10*time.Second, 100*time.Millisecond)
	return client
}

func Test_ProfileEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := newBrokerClient(t, "it-publisher")
	events := collect(t, ctx)
	svc := profileService.NewProfilesService(profileService.Options{
		Store:     newRepository(t),
		Publisher: publisher,
		Policy:    config.PublishPolicyRequired,
	})

	userId := "it-" + uuid.New().String()

	t.Run("Create_Publishes_ProfileCreated", func(t *testing.T) {
		_, err := svc.CreateProfile(ctx, userId, "alice", &model.ProfileCreateRequest{
			Nickname: strPtr("Al"),
		})
		require.NoError(t, err)

		event := waitFor(t, events, constants.ProfileCreatedSubject, userId)
		assert.Equal(t, constants.ProfileCreatedEvent, event.Type)
		assert.Equal(t, "alice", event.Username)
		assert.Equal(t, "Al", event.Data[constants.NicknameField])
		assert.NotEmpty(t, event.EventID)
	})

	t.Run("Update_Publishes_Changed_Fields", func(t *testing.T) {
		var patch model.ProfileUpdateRequest
		require.NoError(t, json.Unmarshal([]byte(`{"country":"LK","nickname":null}`), &patch))

		_, err := svc.UpdateProfile(ctx, userId, &patch)
		require.NoError(t, err)

		event := waitFor(t, events, constants.ProfileUpdatedSubject, userId)
		assert.Equal(t, constants.ProfileUpdatedEvent, event.Type)
		assert.Equal(t, "LK", event.Data[constants.CountryField])
		assert.Contains(t, event.Data, constants.NicknameField)
		assert.Nil(t, event.Data[constants.NicknameField])
		assert.Contains(t, event.Data, constants.UpdatedAtField)
	})

	t.Run("Delete_Publishes_ProfileDeleted", func(t *testing.T) {
		removed, err := svc.DeleteProfile(ctx, userId)
		require.NoError(t, err)
		assert.True(t, removed)

		event := waitFor(t, events, constants.ProfileDeletedSubject, userId)
		assert.Equal(t, constants.ProfileDeletedEvent, event.Type)
	})
}

func Test_IdentityEventWorker_Materializes_Registered_Users(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := newRepository(t)
	publisher := newBrokerClient(t, "it-identity-publisher")
	consumer := newBrokerClient(t, "it-worker-"+uuid.New().String())

	svc := profileService.NewProfilesService(profileService.Options{
		Store:     repo,
		Publisher: consumer,
		Policy:    config.PublishPolicyBestEffort,
	})
	worker := workers.NewIdentityEventWorker(consumer, svc, log.GetLogger(), nil)
	require.NoError(t, worker.Start(ctx))
	defer worker.Stop()

	userId := uuid.New().String()
	payloads := []string{
		`{"type":"USER_LOGGED_IN","userId":"someone"}`,
		`not json`,
		`{"type":"USER_REGISTERED","userId":"` + userId + `","username":"bob"}`,
		`{"type":"USER_REGISTERED","userId":"` + userId + `","username":"bob-again"}`,
	}
	for _, payload := range payloads {
		require.NoError(t, publisher.Publish(ctx, "user.registered", []byte(payload)))
	}

	require.Eventually(t, func() bool {
		profile, err := repo.Get(ctx, userId)
		return err == nil && profile != nil
	}, 20*time.Second, 200*time.Millisecond)

	profile, err := repo.Get(ctx, userId)
	require.NoError(t, err)
	assert.Equal(t, "bob", profile.Username)
	assert.Nil(t, profile.Nickname)
	assert.False(t, profile.IsContactPublic)
}
