package types

import (
	ierr "github.com/entrecon/entrecon/internal/errors"
)

// RendererType selects the shape of emitted report rows.
type RendererType string

const (
	// RendererTypeCSV emits positional rows preceded by a header row.
	RendererTypeCSV RendererType = "csv"

	// RendererTypeJSON emits rows keyed by normalized column names, no header.
	RendererTypeJSON RendererType = "json"
)

// Validate checks the renderer type is one of the supported values.
func (r RendererType) Validate() error {
	switch r {
	case RendererTypeCSV, RendererTypeJSON:
		return nil
	}
	return ierr.NewErrorf("unsupported renderer type: %s", r).
		WithHint("Renderer type must be csv or json").
		Mark(ierr.ErrValidation)
}

// ProgressFunc is invoked with (completed, total) units after the header row
// in CSV mode and after every emitted row. The return value is not consumed.
type ProgressFunc func(completed, total int)

// DateRangeOption bounds subscriptions by creation time. The range is applied
// only when After is non-empty; both bounds are then used.
type DateRangeOption struct {
	After  string `json:"after" mapstructure:"after"`
	Before string `json:"before" mapstructure:"before"`
}

// ChoiceOption is a multi-select report option. All=true disables filtering
// on the dimension even when Choices is populated.
type ChoiceOption struct {
	All     bool     `json:"all" mapstructure:"all"`
	Choices []string `json:"choices" mapstructure:"choices"`
}

// ReportParams carries the optional recognized report options. A nil option
// means no filter on that dimension.
type ReportParams struct {
	Date           *DateRangeOption `json:"date" mapstructure:"date"`
	Marketplace    *ChoiceOption    `json:"mkp" mapstructure:"mkp"`
	ConnectionType *ChoiceOption    `json:"connection_type" mapstructure:"connection_type"`
	Status         *ChoiceOption    `json:"status" mapstructure:"status"`
}

// Validate checks option consistency.
func (p *ReportParams) Validate() error {
	if p == nil {
		return nil
	}
	if p.Date != nil && p.Date.After != "" && p.Date.Before == "" {
		return ierr.NewError("date range requires both bounds").
			WithHint("Provide date.before when date.after is set").
			WithReportableDetails(map[string]interface{}{
				"after": p.Date.After,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// MarketplaceID returns the first selected marketplace, or "" when the
// marketplace option is absent or empty. The entitlement service is scoped to
// a single marketplace per run.
func (p *ReportParams) MarketplaceID() string {
	if p == nil || p.Marketplace == nil || len(p.Marketplace.Choices) == 0 {
		return ""
	}
	return p.Marketplace.Choices[0]
}
