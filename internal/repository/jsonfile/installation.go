package jsonfile

import (
	"context"
	"os"

	"github.com/entrecon/entrecon/internal/domain/installation"
	ierr "github.com/entrecon/entrecon/internal/errors"
	"github.com/entrecon/entrecon/internal/structured"
	"github.com/samber/lo"
)

// InstallationRepository reads extension installation records from a JSON
// array file.
type InstallationRepository struct {
	path string
}

// NewInstallationRepository creates a repository over the given file.
func NewInstallationRepository(path string) *InstallationRepository {
	return &InstallationRepository{path: path}
}

// First returns the first installation matching the filter, or a null value
// when none matches.
func (r *InstallationRepository) First(_ context.Context, filter *installation.Filter) (structured.Value, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return structured.Value{}, ierr.WithError(err).
			WithHintf("failed to read installation file %s", r.path).
			Mark(ierr.ErrSystem)
	}
	records, err := structured.DecodeList(data)
	if err != nil {
		return structured.Value{}, ierr.WithError(err).
			WithHintf("installation file %s is not a JSON array", r.path).
			Mark(ierr.ErrValidation)
	}
	for _, rec := range records {
		if matches(rec, filter) {
			return rec, nil
		}
	}
	return structured.Value{}, nil
}

func matches(rec structured.Value, filter *installation.Filter) bool {
	if filter == nil {
		return true
	}
	if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, rec.Get("status").StringOr("")) {
		return false
	}
	if len(filter.ExtensionIDs) > 0 {
		id := rec.Get("environment").Get("extension").Get("id").StringOr("")
		if !lo.Contains(filter.ExtensionIDs, id) {
			return false
		}
	}
	return true
}
