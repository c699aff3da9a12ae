// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package eventbus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/srkverse/internal/logging"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.CloseTimeout = time.Second
	cfg.RetryInitialInterval = time.Millisecond
	cfg.RetryMaxInterval = 5 * time.Millisecond
	return cfg
}

// startBus runs bus until the test ends.
func startBus(t *testing.T, bus *Bus) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = bus.Run(ctx)
	}()

	select {
	case <-bus.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	t.Cleanup(func() {
		cancel()
		_ = bus.Close()
		<-done
	})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestBus_PublishDeliversPayloadAndRequestID(t *testing.T) {
	bus, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	received := make(chan *VoteCast, 1)
	requestIDs := make(chan string, 1)
	bus.AddHandler("test-votes", TopicVoteCast, func(ctx context.Context, topic string, payload []byte) error {
		v, err := Unmarshal[VoteCast](payload)
		if err != nil {
			return err
		}
		requestIDs <- logging.RequestIDFromContext(ctx)
		received <- v
		return nil
	})
	startBus(t, bus)

	ctx := logging.ContextWithRequestID(context.Background(), "req-42")
	if err := bus.Publish(ctx, TopicVoteCast, VoteCast{MovieID: "m1", MovieTitle: "Swades", VoteCount: 2}); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	select {
	case v := <-received:
		if v.MovieID != "m1" || v.VoteCount != 2 {
			t.Errorf("payload = %+v", v)
		}
		if id := <-requestIDs; id != "req-42" {
			t.Errorf("request id = %q", id)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBus_HandlerErrorsAreRetried(t *testing.T) {
	bus, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var calls atomic.Int32
	bus.AddHandler("flaky", TopicTrackEnriched, func(ctx context.Context, topic string, payload []byte) error {
		if calls.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	})
	startBus(t, bus)

	if err := bus.Publish(context.Background(), TopicTrackEnriched, TrackEvent{TrackID: "t1"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	waitFor(t, func() bool { return calls.Load() >= 3 })
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer bus.Close()

	if err := bus.Publish(context.Background(), TopicFanMessage, FanMessageReceived{Name: "Priya"}); err != nil {
		t.Errorf("publish without subscribers should succeed, got %v", err)
	}
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus, err := New(testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := bus.Publish(context.Background(), TopicVoteCast, VoteCast{}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := bus.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestNopPublisher(t *testing.T) {
	t.Parallel()
	if err := (NopPublisher{}).Publish(context.Background(), TopicVoteCast, nil); err != nil {
		t.Errorf("NopPublisher returned %v", err)
	}
}
