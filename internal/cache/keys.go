// SRKVerse - Fan Content Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/srkverse

package cache

import "time"

// Key prefixes. Each prefix is one invalidation group.
const (
	PrefixCatalog = "catalog:"
	PrefixQuery   = "query:"
	PrefixQuote   = "quote:"
	PrefixVotes   = "votes:"
)

// Fixed keys.
const (
	KeyCatalogAll  = PrefixCatalog + "movies"
	KeyRandomQuote = PrefixQuote + "random"
	KeyVoteTotals  = PrefixVotes + "totals"
)

// Default time-to-live per key class.
const (
	DefaultCatalogTTL = time.Hour
	DefaultQueryTTL   = time.Hour
	DefaultQuoteTTL   = 10 * time.Minute
	DefaultVoteTTL    = 10 * time.Minute
)

// TTLPolicy assigns a lifetime to each key class.
type TTLPolicy struct {
	Catalog time.Duration
	Query   time.Duration
	Quote   time.Duration
	Vote    time.Duration
}

// DefaultTTLPolicy returns the standard lifetimes.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		Catalog: DefaultCatalogTTL,
		Query:   DefaultQueryTTL,
		Quote:   DefaultQuoteTTL,
		Vote:    DefaultVoteTTL,
	}
}

// WithDefaults fills zero fields from the default policy.
func (p TTLPolicy) WithDefaults() TTLPolicy {
	d := DefaultTTLPolicy()
	if p.Catalog <= 0 {
		p.Catalog = d.Catalog
	}
	if p.Query <= 0 {
		p.Query = d.Query
	}
	if p.Quote <= 0 {
		p.Quote = d.Quote
	}
	if p.Vote <= 0 {
		p.Vote = d.Vote
	}
	return p
}

// QueryKey builds a key in the query group.
func QueryKey(name string, params interface{}) string {
	return GenerateKey(PrefixQuery+name, params)
}
