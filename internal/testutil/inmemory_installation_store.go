package testutil

import (
	"context"

	"github.com/entrecon/entrecon/internal/domain/installation"
	"github.com/entrecon/entrecon/internal/structured"
	"github.com/samber/lo"
)

// InMemoryInstallationStore implements installation.Repository over a fixed
// slice of installation records.
type InMemoryInstallationStore struct {
	installations []structured.Value
}

// NewInMemoryInstallationStore creates a store with the given installations.
func NewInMemoryInstallationStore(installations ...structured.Value) *InMemoryInstallationStore {
	return &InMemoryInstallationStore{installations: installations}
}

// First returns the first installation matching the filter, or a null value.
func (s *InMemoryInstallationStore) First(_ context.Context, filter *installation.Filter) (structured.Value, error) {
	for _, inst := range s.installations {
		if matchesInstallation(inst, filter) {
			return inst, nil
		}
	}
	return structured.Value{}, nil
}

func matchesInstallation(inst structured.Value, filter *installation.Filter) bool {
	if filter == nil {
		return true
	}
	if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, inst.Get("status").StringOr("")) {
		return false
	}
	if len(filter.ExtensionIDs) > 0 {
		extensionID := inst.Get("environment").Get("extension").Get("id").StringOr("")
		if !lo.Contains(filter.ExtensionIDs, extensionID) {
			return false
		}
	}
	return true
}
