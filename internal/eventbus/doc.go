// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

/*
Package eventbus provides the in-process catalog event bus.

Events are published on a Watermill GoChannel and consumed through a
Watermill Router carrying Recoverer and Retry middleware. Request and
correlation ids in the publishing context travel as message metadata and are
restored into the handler context.

Topics:

  - catalog.reconciled: a reconciliation merged at least one record
  - vote.cast: a favourite-movie vote was recorded
  - track.created, track.enriched, track.approved: track lifecycle
  - fan_message.received: a fan message was stored

Cache invalidation is not event driven; writers invalidate synchronously
before returning. Subscribers here are observers, such as ActivityLog which
keeps the most recent events for the admin API.

Usage:

	bus, err := eventbus.New(eventbus.DefaultConfig())
	if err != nil {
	    return err
	}
	activity := eventbus.NewActivityLog(eventbus.DefaultActivityCapacity)
	activity.Register(bus)
	go bus.Run(ctx)
	<-bus.Running()

	_ = bus.Publish(ctx, eventbus.TopicVoteCast, eventbus.VoteCast{MovieID: id, VoteCount: 2})
*/
package eventbus
