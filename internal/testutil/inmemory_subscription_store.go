// Package testutil provides in-memory collaborator implementations for
// tests: subscription and installation stores and a counting entitlement
// client.
package testutil

import (
	"context"
	"iter"

	"github.com/entrecon/entrecon/internal/domain/subscription"
	"github.com/entrecon/entrecon/internal/structured"
)

// InMemorySubscriptionStore implements subscription.Repository over a fixed
// record slice, applying the filter's Matches predicate.
type InMemorySubscriptionStore struct {
	records []structured.Value
}

// NewInMemorySubscriptionStore creates a store with the given records.
func NewInMemorySubscriptionStore(records ...structured.Value) *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{records: records}
}

// Add appends records to the store.
func (s *InMemorySubscriptionStore) Add(records ...structured.Value) {
	s.records = append(s.records, records...)
}

// Find returns a queryable view restricted by the filter.
func (s *InMemorySubscriptionStore) Find(_ context.Context, filter *subscription.Filter) subscription.Queryable {
	return &inMemoryQueryable{store: s, filter: filter}
}

type inMemoryQueryable struct {
	store  *InMemorySubscriptionStore
	filter *subscription.Filter
}

func (q *inMemoryQueryable) matching() []structured.Value {
	var out []structured.Value
	for _, r := range q.store.records {
		if q.filter == nil || q.filter.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func (q *inMemoryQueryable) Count(_ context.Context) (int, error) {
	return len(q.matching()), nil
}

func (q *inMemoryQueryable) Records(_ context.Context) iter.Seq2[structured.Value, error] {
	return func(yield func(structured.Value, error) bool) {
		for _, r := range q.matching() {
			if !yield(r, nil) {
				return
			}
		}
	}
}
