// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// EventRouter is the lifecycle subset of *eventbus.Bus.
type EventRouter interface {
	Run(ctx context.Context) error
}

// EventBusService runs the in-process event router under supervision.
//
// The watermill router cannot be restarted once it has stopped, so an
// unexpected exit is reported with suture.ErrDoNotRestart. Publishing keeps
// working without the router; only subscribers stop receiving.
type EventBusService struct {
	router EventRouter
	name   string
}

// NewEventBusService wraps router.
func NewEventBusService(router EventRouter) *EventBusService {
	return &EventBusService{router: router, name: "event-bus"}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	err := s.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		return suture.ErrDoNotRestart
	}
	return fmt.Errorf("event router stopped: %v: %w", err, suture.ErrDoNotRestart)
}

// String implements fmt.Stringer.
func (s *EventBusService) String() string {
	return s.name
}
