// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

/*
Package models defines the data structures shared by the store, the catalog
service, the provider clients and the HTTP layer.

Each model carries an explicit JSON field list; nothing is serialized
implicitly.

Model Categories:

 1. Catalog:
    - Movie: a catalog record, keyed by the provider's external id
    - Track: a song owned by a movie, optionally enriched from the music provider
    - TrackMetadata: the enrichment payload written back onto a Track

 2. Static fan content (seeded):
    - Quote, Award, TimelineEvent

 3. Fan interaction:
    - VoteTally: per-movie vote counter
    - FanMessage: free-form message from a fan
    - QuizQuestion / QuizResult: quote based quiz
*/
package models
