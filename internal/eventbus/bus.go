// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/srkverse/internal/logging"
	"github.com/tomtom215/srkverse/internal/metrics"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("event bus is closed")

// Publisher is the publishing side of the bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// HandlerFunc consumes one event. Returning an error triggers retries.
type HandlerFunc func(ctx context.Context, topic string, payload []byte) error

// Config holds event bus settings.
type Config struct {
	// OutputChannelBuffer is the per-subscriber channel buffer.
	OutputChannelBuffer int64

	// CloseTimeout is how long to wait for handlers to finish when closing.
	CloseTimeout time.Duration

	// Retry configuration
	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		OutputChannelBuffer:  256,
		CloseTimeout:         10 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
	}
}

// Bus is an in-process pub/sub backed by a Watermill GoChannel and routed
// through a Watermill Router with recovery and retry middleware.
//
// Publishing to a topic nobody subscribes to is a no-op.
type Bus struct {
	pubsub *gochannel.GoChannel
	router *message.Router
	logger watermill.LoggerAdapter

	mu       sync.RWMutex
	closed   bool
	handlers map[string]*message.Handler
}

// New creates a bus. Handlers are added with AddHandler before Run.
func New(cfg Config) (*Bus, error) {
	logger := watermill.LoggerAdapter(logging.NewWatermillAdapter())

	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = DefaultConfig().CloseTimeout
	}

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: cfg.OutputChannelBuffer,
	}, logger)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	// Recoverer: Convert panics to errors
	router.AddMiddleware(middleware.Recoverer)

	// Retry: Exponential backoff for transient failures
	if cfg.RetryMaxRetries > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryMaxRetries,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
			Multiplier:      2.0,
			Logger:          logger,
		}
		router.AddMiddleware(retry.Middleware)
	}

	return &Bus{
		pubsub:   pubsub,
		router:   router,
		logger:   logger,
		handlers: make(map[string]*message.Handler),
	}, nil
}

// Publish encodes payload and publishes it on topic. The request and
// correlation ids in ctx travel as message metadata.
func (b *Bus) Publish(ctx context.Context, topic string, payload interface{}) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	data, err := Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set("request_id", id)
	}
	msg.Metadata.Set("topic", topic)

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	metrics.EventsPublished.WithLabelValues(topic).Inc()
	return nil
}

// AddHandler subscribes handler to topic under a unique name. Must be called
// before Run.
func (b *Bus) AddHandler(name, topic string, handler HandlerFunc) {
	h := b.router.AddConsumerHandler(name, topic, b.pubsub, func(msg *message.Message) error {
		ctx := msg.Context()
		if id := msg.Metadata.Get("request_id"); id != "" {
			ctx = logging.ContextWithRequestID(ctx, id)
		}
		if id := middleware.MessageCorrelationID(msg); id != "" {
			ctx = logging.ContextWithCorrelationID(ctx, id)
		}

		if err := handler(ctx, topic, msg.Payload); err != nil {
			metrics.EventsHandled.WithLabelValues(topic, "error").Inc()
			return err
		}
		metrics.EventsHandled.WithLabelValues(topic, "ok").Inc()
		return nil
	})

	b.mu.Lock()
	b.handlers[name] = h
	b.mu.Unlock()
}

// Run starts the router and blocks until ctx is canceled or Close is called.
func (b *Bus) Run(ctx context.Context) error {
	return b.router.Run(ctx)
}

// Running returns a channel that is closed once the router is running.
func (b *Bus) Running() <-chan struct{} {
	return b.router.Running()
}

// Close stops the router and the underlying pub/sub.
func (b *Bus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	routerErr := b.router.Close()
	pubsubErr := b.pubsub.Close()
	return errors.Join(routerErr, pubsubErr)
}

// HandlerCount returns the number of registered handlers.
func (b *Bus) HandlerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// NopPublisher discards every event.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, string, interface{}) error { return nil }

var (
	_ Publisher = (*Bus)(nil)
	_ Publisher = NopPublisher{}
)
