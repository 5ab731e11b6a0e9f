// Package jsonfile provides repository implementations backed by JSON
// export files, the input format the report command consumes.
package jsonfile

import (
	"context"
	"iter"
	"os"

	"github.com/entrecon/entrecon/internal/domain/subscription"
	ierr "github.com/entrecon/entrecon/internal/errors"
	"github.com/entrecon/entrecon/internal/structured"
)

// SubscriptionRepository reads subscription records from a JSON array file.
type SubscriptionRepository struct {
	path string
}

// NewSubscriptionRepository creates a repository over the given file.
func NewSubscriptionRepository(path string) *SubscriptionRepository {
	return &SubscriptionRepository{path: path}
}

// Find returns a queryable view of the file restricted by the filter. The
// file is read lazily, once per Count or Records call.
func (r *SubscriptionRepository) Find(_ context.Context, filter *subscription.Filter) subscription.Queryable {
	return &fileQueryable{path: r.path, filter: filter}
}

type fileQueryable struct {
	path   string
	filter *subscription.Filter
}

func (q *fileQueryable) load() ([]structured.Value, error) {
	data, err := os.ReadFile(q.path)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("failed to read subscription file %s", q.path).
			Mark(ierr.ErrSystem)
	}
	records, err := structured.DecodeList(data)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("subscription file %s is not a JSON array", q.path).
			Mark(ierr.ErrValidation)
	}
	if q.filter == nil {
		return records, nil
	}
	var out []structured.Value
	for _, rec := range records {
		if q.filter.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (q *fileQueryable) Count(_ context.Context) (int, error) {
	records, err := q.load()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (q *fileQueryable) Records(_ context.Context) iter.Seq2[structured.Value, error] {
	return func(yield func(structured.Value, error) bool) {
		records, err := q.load()
		if err != nil {
			yield(structured.Value{}, err)
			return
		}
		for _, rec := range records {
			if !yield(rec, nil) {
				return
			}
		}
	}
}
