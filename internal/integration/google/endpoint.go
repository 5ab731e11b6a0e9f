package google

import (
	"context"

	"github.com/entrecon/entrecon/internal/domain/installation"
	ierr "github.com/entrecon/entrecon/internal/errors"
	"github.com/entrecon/entrecon/internal/structured"
)

// ServiceExtensionIDs are the known extension ids of the Google management
// settings service.
var ServiceExtensionIDs = []string{"SRVC-9722-3113", "SRVC-5460-5389"}

// ObtainServiceURL discovers the entitlement service base URL from the
// installation directory: the first installed instance of a known extension,
// addressed as https://{hostname}.{domain}. A missing installation fails the
// whole report before any row is produced.
func ObtainServiceURL(ctx context.Context, installations installation.Repository) (string, error) {
	inst, err := installations.First(ctx, &installation.Filter{
		Statuses:     []string{"installed"},
		ExtensionIDs: ServiceExtensionIDs,
	})
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to query the installation directory").
			Mark(ierr.ErrInternal)
	}
	if inst.IsNull() {
		return "", ierr.NewError("The service for the Google Managements Settings was not found.").
			WithHint("Install the Google management settings extension before running the report").
			WithReportableDetails(map[string]interface{}{
				"extension_ids": ServiceExtensionIDs,
			}).
			Mark(ierr.ErrNotFound)
	}

	hostname := toStringCell(inst.Lookup("environment", "hostname"))
	domain := toStringCell(inst.Lookup("environment", "domain"))
	return "https://" + hostname + "." + domain, nil
}

func toStringCell(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return structured.Fallback
}
