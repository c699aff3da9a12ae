// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package database

import (
	"sync"
	"testing"
)

func TestIncrementVote_ReturnsNewCount(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx()
	movie := mustUpsert(t, db, ddlj())

	for want := int64(1); want <= 3; want++ {
		got, err := db.IncrementVote(ctx, movie.ID)
		if err != nil {
			t.Fatalf("IncrementVote: %v", err)
		}
		if got != want {
			t.Errorf("count = %d, want %d", got, want)
		}
	}

	tallies, err := db.VoteTotals(ctx)
	if err != nil {
		t.Fatalf("VoteTotals: %v", err)
	}
	if len(tallies) != 1 || tallies[0].VoteCount != 3 || tallies[0].MovieTitle != movie.Title {
		t.Errorf("tallies = %+v", tallies)
	}
}

func TestIncrementVote_ConcurrentVotesAreNotLost(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx()
	movie := mustUpsert(t, db, ddlj())

	const voters = 2
	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := db.IncrementVote(ctx, movie.ID); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("IncrementVote: %v", err)
	}

	count, err := db.VoteCount(ctx, movie.ID)
	if err != nil {
		t.Fatalf("VoteCount: %v", err)
	}
	if count != voters {
		t.Errorf("count = %d, want %d", count, voters)
	}
}

func TestVoteCount_ZeroWhenNeverVoted(t *testing.T) {
	db := setupTestDB(t)
	count, err := db.VoteCount(testCtx(), "nobody")
	if err != nil {
		t.Fatalf("VoteCount: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d", count)
	}
}
