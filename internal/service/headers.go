package service

import "strings"

// Headers is the fixed, ordered column set of the reconciliation report.
// Row cells are positional against this list; JSON rows use the normalized
// form of each name. The casing irregularities ("Provider Account name",
// "Creation date") are part of the published report format.
var Headers = []string{
	"Subscription ID", "Subscription External ID", "Google Entitlement ID",
	"Subscription Type", "Purchase Type", "Google Domain", "Google Customer ID", "Item Name", "Item MPN",
	"Google SKU", "Google Product", "Google Offer ID", "Google Offer SKU Display Name",
	"Item Quantity", "Google Num Units", "Google Maximum Units", "Google Assigned Units",
	"Google Offer Effective Price", "Google Offer Price",
	"Creation date", "Updated date", "Google Creation Time", "Google Commitment Start Date",
	"Google Commitment End Date", "Google Renewal Enabled", "Status", "Google Entitlement Status",
	"Google Suspension Reasons", "Google Purchase Order ID", "Billing Period",
	"Anniversary Day", "Anniversary Month", "Contract ID", "Contract Name",
	"Customer ID", "Customer Name", "Customer External ID",
	"Tier 1 ID", "Tier 1 Name", "Tier 1 External ID",
	"Tier 2 ID", "Tier 2 Name", "Tier 2 External ID",
	"Provider Account ID", "Provider Account name",
	"Vendor Account ID", "Vendor Account Name",
	"Product ID", "Product Name", "Hub ID", "Hub Name",
	"Error Details",
}

// NormalizeHeader converts a display header into its JSON key: lowercased,
// spaces replaced with underscores.
func NormalizeHeader(header string) string {
	return strings.ToLower(strings.ReplaceAll(header, " ", "_"))
}

// normalizedHeaders is computed once; JSON rows are keyed by these.
var normalizedHeaders = func() []string {
	keys := make([]string, len(Headers))
	for i, h := range Headers {
		keys[i] = NormalizeHeader(h)
	}
	return keys
}()
