package subscription

import (
	"github.com/entrecon/entrecon/internal/structured"
	"github.com/entrecon/entrecon/internal/types"
	"github.com/samber/lo"
)

// GoogleProductIDs is the fixed allow-list of reportable product ids.
var GoogleProductIDs = []string{"PRD-861-570-450", "PRD-550-104-278"}

// DefaultStatuses is applied when the report has no status option.
var DefaultStatuses = []string{"active", "suspended", "terminated", "terminating"}

// Filter is the query built from the report parameters. Empty slice fields
// mean no constraint on that dimension; ProductIDs is always populated.
type Filter struct {
	ProductIDs      []string
	CreatedAfter    string
	CreatedBefore   string
	MarketplaceIDs  []string
	ConnectionTypes []string
	Statuses        []string
}

// NewFilter translates report parameters into a subscription filter. The
// product allow-list always applies. The date range applies only when
// date.after is non-empty. Choice options apply unless absent or flagged
// with All; an absent status option falls back to DefaultStatuses.
func NewFilter(params *types.ReportParams) *Filter {
	f := &Filter{
		ProductIDs: GoogleProductIDs,
		Statuses:   DefaultStatuses,
	}
	if params == nil {
		return f
	}
	if params.Date != nil && params.Date.After != "" {
		f.CreatedAfter = params.Date.After
		f.CreatedBefore = params.Date.Before
	}
	if params.Marketplace != nil && !params.Marketplace.All {
		f.MarketplaceIDs = params.Marketplace.Choices
	}
	if params.ConnectionType != nil && !params.ConnectionType.All {
		f.ConnectionTypes = params.ConnectionType.Choices
	}
	if params.Status != nil {
		if params.Status.All {
			f.Statuses = nil
		} else {
			f.Statuses = params.Status.Choices
		}
	}
	return f
}

// Matches evaluates the filter as an in-process predicate over a record.
// Remote implementations may push the same constraints down instead;
// creation bounds compare RFC 3339 timestamps lexicographically.
func (f *Filter) Matches(record structured.Value) bool {
	if len(f.ProductIDs) > 0 && !lo.Contains(f.ProductIDs, record.Get("product").Get("id").StringOr("")) {
		return false
	}
	if f.CreatedAfter != "" {
		created := record.Get("events").Get("created").Get("at").StringOr("")
		if created < f.CreatedAfter || created > f.CreatedBefore {
			return false
		}
	}
	if len(f.MarketplaceIDs) > 0 && !lo.Contains(f.MarketplaceIDs, record.Get("marketplace").Get("id").StringOr("")) {
		return false
	}
	if len(f.ConnectionTypes) > 0 && !lo.Contains(f.ConnectionTypes, record.Get("connection").Get("type").StringOr("")) {
		return false
	}
	if len(f.Statuses) > 0 && !lo.Contains(f.Statuses, record.Get("status").StringOr("")) {
		return false
	}
	return true
}
