// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/srkverse/internal/apperr"
	"github.com/tomtom215/srkverse/internal/models"
)

var _ suture.Service = (*IngestService)(nil)

type countingSyncer struct {
	calls atomic.Int32
	err   error
}

func (c *countingSyncer) Sync(context.Context) (*models.SyncResult, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return &models.SyncResult{Fetched: 2, Merged: 1, Total: 2}, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestIngestService_RunsOnStartupAndInterval(t *testing.T) {
	syncer := &countingSyncer{}
	svc := NewIngestService(syncer, 20*time.Millisecond, true)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitFor(t, func() bool { return syncer.calls.Load() >= 3 })
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIngestService_IdleWithoutSchedule(t *testing.T) {
	syncer := &countingSyncer{}
	svc := NewIngestService(syncer, 0, false)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if syncer.calls.Load() != 0 {
		t.Errorf("expected no syncs, got %d", syncer.calls.Load())
	}
}

func TestIngestService_FailuresDoNotStopSchedule(t *testing.T) {
	syncer := &countingSyncer{err: apperr.New(apperr.KindConfiguration, "catalog API key is not configured")}
	svc := NewIngestService(syncer, 10*time.Millisecond, true)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitFor(t, func() bool { return syncer.calls.Load() >= 3 })
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("service should only stop on cancellation, got %v", err)
	}
}
