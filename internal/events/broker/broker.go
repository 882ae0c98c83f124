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

package broker

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/pkg/errors"
	"github.com/wso2/user-profile-service/internal/system/config"
	"github.com/wso2/user-profile-service/internal/system/log"
)

// ErrNotConnected is returned by Publish while the connection to NATS is down.
var ErrNotConnected = errors.New("broker is not connected")

// MessageHandler processes one inbound message. Returning an error terminates the
// message (no redelivery); returning nil acknowledges it.
type MessageHandler func(ctx context.Context, subject string, data []byte) error

// Client wraps a NATS connection and its JetStream context.
type Client struct {
	nc     *nats.Conn
	js     jetstream.JetStream
	cfg    config.BrokerConfig
	logger *log.Logger
}

// Connect dials NATS. The dial never fails because the server is unreachable: the
// connection keeps retrying in the background every cfg.ReconnectWait.
func Connect(cfg config.BrokerConfig, logger *log.Logger) (*Client, error) {

	if logger == nil {
		logger = log.GetLogger()
	}
	logger = logger.With(log.String("component", "broker"))

	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.ConsumerName),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.ConnectHandler(func(_ *nats.Conn) {
			logger.Info("NATS connected")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("NATS disconnected", log.Error(err))
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, errors.Wrap(err, "connect to nats")
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, errors.Wrap(err, "create jetstream")
	}

	return &Client{
		nc:     nc,
		js:     js,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// IsConnected reports whether the underlying connection is currently usable.
func (c *Client) IsConnected() bool {
	return c.nc != nil && c.nc.IsConnected()
}

// EnsureStream creates or updates the stream that carries user.* and profile.* subjects.
func (c *Client) EnsureStream(ctx context.Context) error {

	if !c.IsConnected() {
		return ErrNotConnected
	}
	_, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      c.cfg.Stream,
		Subjects:  c.cfg.Subjects,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   jetstream.FileStorage,
	})
	if err != nil {
		return errors.Wrapf(err, "ensure stream %s", c.cfg.Stream)
	}
	return nil
}

// Publish sends payload to subject and waits for the JetStream ack, bounded by
// the configured publish timeout. It fails fast when disconnected.
func (c *Client) Publish(ctx context.Context, subject string, payload []byte) error {

	if !c.IsConnected() {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.PublishTimeout)
	defer cancel()

	if _, err := c.js.Publish(ctx, subject, payload); err != nil {
		return errors.Wrapf(err, "publish to %s", subject)
	}
	c.logger.Debug("Event published", log.String("subject", subject))
	return nil
}

// Subscribe consumes the durable consumer one message at a time until ctx is done.
// Consumer creation is retried every ReconnectWait while the broker is unavailable.
func (c *Client) Subscribe(ctx context.Context, handler MessageHandler) error {

	var consumer jetstream.Consumer
	for {
		if ctx.Err() != nil {
			return nil
		}

		if consumer == nil {
			created, err := c.createConsumer(ctx)
			if err != nil {
				c.logger.Warn("Unable to create event consumer, retrying",
					log.Error(err), log.Duration("retry_in", c.cfg.ReconnectWait))
				sleep(ctx, c.cfg.ReconnectWait)
				continue
			}
			consumer = created
			c.logger.Info("Listening for identity events",
				log.String("consumer", c.cfg.ConsumerName), log.Any("subjects", c.cfg.FilterSubjects))
		}

		batch, err := consumer.Fetch(1, jetstream.FetchMaxWait(c.cfg.FetchWait))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.Warn("Fetching events failed", log.Error(err))
			consumer = nil
			sleep(ctx, c.cfg.ReconnectWait)
			continue
		}

		for msg := range batch.Messages() {
			dispatch(ctx, msg, handler, c.logger)
		}
		if err := batch.Error(); err != nil && !isFetchTimeout(err) && ctx.Err() == nil {
			c.logger.Debug("Event batch finished with error", log.Error(err))
		}
	}
}

func (c *Client) createConsumer(ctx context.Context) (jetstream.Consumer, error) {

	if err := c.EnsureStream(ctx); err != nil {
		return nil, err
	}
	return c.js.CreateOrUpdateConsumer(ctx, c.cfg.Stream, jetstream.ConsumerConfig{
		Durable:        c.cfg.ConsumerName,
		FilterSubjects: c.cfg.FilterSubjects,
		AckPolicy:      jetstream.AckExplicitPolicy,
		DeliverPolicy:  jetstream.DeliverAllPolicy,
		AckWait:        30 * time.Second,
		MaxAckPending:  1,
	})
}

// Close drains in-flight publishes and closes the connection.
func (c *Client) Close() {
	if c.nc == nil {
		return
	}
	if err := c.nc.Drain(); err != nil {
		c.nc.Close()
	}
}

// ackable is the subset of jetstream.Msg used by dispatch.
type ackable interface {
	Subject() string
	Data() []byte
	Ack() error
	Term() error
}

func dispatch(ctx context.Context, msg ackable, handler MessageHandler, logger *log.Logger) {

	if err := handler(ctx, msg.Subject(), msg.Data()); err != nil {
		logger.Error("Dropping event that could not be processed",
			log.String("subject", msg.Subject()), log.Error(err))
		if termErr := msg.Term(); termErr != nil {
			logger.Warn("Failed to terminate event", log.Error(termErr))
		}
		return
	}
	if err := msg.Ack(); err != nil {
		logger.Warn("Failed to acknowledge event", log.String("subject", msg.Subject()), log.Error(err))
	}
}

func isFetchTimeout(err error) bool {
	return errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
