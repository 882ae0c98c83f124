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
	"sync"

	"github.com/pkg/errors"

	"github.com/wso2/user-profile-service/internal/events/broker"
	"github.com/wso2/user-profile-service/internal/events/model"
	"github.com/wso2/user-profile-service/internal/system/constants"
	"github.com/wso2/user-profile-service/internal/system/log"
	"github.com/wso2/user-profile-service/internal/system/metrics"
)

// Subscriber delivers inbound messages to a handler until ctx is cancelled.
type Subscriber interface {
	Subscribe(ctx context.Context, handler broker.MessageHandler) error
}

// Materializer creates profiles for users registered in the identity service.
type Materializer interface {
	MaterializeProfile(ctx context.Context, userId, username string) bool
}

// IdentityEventWorker is the single consumer of identity lifecycle events. Messages are
// processed one at a time; results surface only through the store.
type IdentityEventWorker struct {
	subscriber Subscriber
	profiles   Materializer
	logger     *log.Logger
	metrics    *metrics.Collector

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewIdentityEventWorker(subscriber Subscriber, profiles Materializer, logger *log.Logger,
	collector *metrics.Collector) *IdentityEventWorker {

	if logger == nil {
		logger = log.GetLogger()
	}
	return &IdentityEventWorker{
		subscriber: subscriber,
		profiles:   profiles,
		logger:     logger,
		metrics:    collector,
	}
}

// Start launches the consumer goroutine. It fails if the worker is already running.
func (w *IdentityEventWorker) Start(ctx context.Context) error {

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return errors.New("identity event worker already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		w.logger.Info("Identity event worker started")
		if err := w.subscriber.Subscribe(ctx, w.HandleMessage); err != nil {
			w.logger.Error("Identity event subscription ended", log.Error(err))
		}
		w.logger.Info("Identity event worker stopped")
	}(w.done)
	return nil
}

// Stop cancels the subscription and waits for the in-flight message to finish.
func (w *IdentityEventWorker) Stop() {

	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// HandleMessage decodes one inbound message and acts on it. Only undecodable payloads
// return an error, so that they are terminated instead of redelivered. Work on a message
// that was already delivered survives cancellation of ctx and is bounded by
// DefaultEventHandleTimeout instead.
func (w *IdentityEventWorker) HandleMessage(ctx context.Context, subject string, data []byte) error {

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.DefaultEventHandleTimeout)
	defer cancel()

	event, err := model.DecodeInbound(data)
	if err != nil {
		w.metrics.RecordConsumed(model.KindUnrecognized.String(), metrics.OutcomeMalformed)
		w.logger.Warn("Dropping malformed identity event", log.String("subject", subject), log.Error(err))
		return err
	}

	switch ev := event.(type) {
	case model.UserRegistered:
		w.logger.Info("Received user registration", log.String("subject", subject),
			log.String("userId", ev.UserID))
		outcome := metrics.OutcomeIgnored
		if w.profiles.MaterializeProfile(ctx, ev.UserID, ev.Username) {
			outcome = metrics.OutcomeMaterialized
		}
		w.metrics.RecordConsumed(ev.Kind().String(), outcome)
	case model.Unrecognized:
		w.logger.Debug("Ignoring identity event", log.String("subject", subject),
			log.String("type", ev.Type), log.String("reason", ev.Reason))
		w.metrics.RecordConsumed(ev.Kind().String(), metrics.OutcomeIgnored)
	}
	return nil
}
