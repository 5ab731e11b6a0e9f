// Package installation defines the collaborator interface over the devops
// installation directory used for service endpoint discovery.
package installation

import (
	"context"

	"github.com/entrecon/entrecon/internal/structured"
)

// Filter restricts installation lookups. Empty fields mean no constraint.
type Filter struct {
	Statuses     []string
	ExtensionIDs []string
}

// Repository exposes the installation directory.
type Repository interface {
	// First returns the first installation matching the filter, or a null
	// value when none exists.
	First(ctx context.Context, filter *Filter) (structured.Value, error)
}
