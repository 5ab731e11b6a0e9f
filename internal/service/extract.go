package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/entrecon/entrecon/internal/structured"
	"github.com/shopspring/decimal"
)

// driveStorageMPN disambiguates multi-item subscriptions that bundle a
// Google Drive storage item.
const driveStorageMPN = "GOOGLE_DRIVE_STORAGE"

// CalculatePeriod renders a billing period from its delta and unit of
// measure: 1 maps to "Monthly"/"Yearly", anything else to "{n} Months" /
// "{n} Years".
func CalculatePeriod(delta float64, uom string) string {
	if delta == 1 {
		if uom == "monthly" {
			return "Monthly"
		}
		return "Yearly"
	}
	if uom == "monthly" {
		return fmt.Sprintf("%d Months", int64(delta))
	}
	return fmt.Sprintf("%d Years", int64(delta))
}

// ItemData resolves the display name and MPN of a subscription's items.
// Multi-item subscriptions collapse to the Drive storage item when one is
// present, otherwise to the first item.
func ItemData(items structured.Value) (interface{}, interface{}) {
	elems := items.Values()
	switch len(elems) {
	case 0:
		return structured.Fallback, structured.Fallback
	case 1:
		return elems[0].Get("display_name").Scalar(structured.Fallback),
			elems[0].Get("mpn").Scalar(structured.Fallback)
	}
	for _, item := range elems {
		if strings.Contains(item.Get("mpn").StringOr(""), driveStorageMPN) {
			return "Google Drive Storage", driveStorageMPN
		}
	}
	return elems[0].Get("display_name").Scalar(structured.Fallback),
		elems[0].Get("mpn").Scalar(structured.Fallback)
}

// Price renders a Google money value ({units, nanos, currency_code}) as
// "12.34 CUR", or "-" when the value is absent or empty. The API serializes
// units as either a number or a string.
func Price(price structured.Value) string {
	if price.IsNull() {
		return structured.Fallback
	}
	if m, ok := price.Raw().(map[string]interface{}); !ok || len(m) == 0 {
		return structured.Fallback
	}

	units := decimalFromScalar(price.Get("units"))
	nanos := decimalFromScalar(price.Get("nanos"))
	total := units.Add(nanos.Div(decimal.NewFromInt(1_000_000_000)))

	return total.StringFixed(2) + " " + price.Get("currency_code").StringOr("")
}

func decimalFromScalar(v structured.Value) decimal.Decimal {
	if s, ok := v.Raw().(string); ok {
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
		return decimal.Zero
	}
	return decimal.NewFromFloat(v.Float(0))
}

// EntitlementStatus decodes the provisioning state enum.
func EntitlementStatus(state structured.Value) string {
	switch state.Int(-1) {
	case 0:
		return "unspecified"
	case 1:
		return "active"
	case 5:
		return "suspended"
	}
	return structured.Fallback
}

// SuspensionReason decodes a single suspension reason code. The trailing
// space in "OTHER " matches the published report format.
func SuspensionReason(code int64) string {
	switch code {
	case 0:
		return "SUSPENSION_REASON_UNSPECIFIED"
	case 1:
		return "RESELLER_INITIATED"
	case 2:
		return "TRIAL_ENDED"
	case 3:
		return "RENEWAL_WITH_TYPE_CANCEL"
	case 4:
		return "PENDING_TOS_ACCEPTANCE"
	case 100:
		return "OTHER "
	}
	return structured.Fallback
}

// SuspensionReasons renders the first suspension reason of an entitlement,
// or "-" when none are recorded.
func SuspensionReasons(entitlement structured.Value) string {
	reasons := entitlement.Get("suspension_reasons")
	if reasons.Len() == 0 {
		return structured.Fallback
	}
	return SuspensionReason(reasons.First().Int(-1))
}

// EntitlementID extracts the entitlement id parameter, stripping the
// brackets and quotes the platform wraps it in. A missing parameter yields
// "" rather than "-", distinguishing "no id" from the generic fallback.
func EntitlementID(params structured.Value) string {
	value, _ := structured.ParameterValue(params, "entitlement_id", "").(string)
	if value == "" {
		return ""
	}
	return strings.Trim(value, `["]`)
}

// SearchProductPrimary returns the name of the first product parameter
// flagged as the reconciliation key, or "" when none is flagged.
func SearchProductPrimary(params []structured.Value) string {
	for _, p := range params {
		if p.Get("constraints").Get("reconciliation").Bool(false) {
			return p.Get("name").StringOr("")
		}
	}
	return ""
}

// googleParameter returns the first entitlement parameter with the given
// name, or null. Entitlement parameters are keyed by name, unlike
// subscription parameters which are keyed by id.
func googleParameter(params structured.Value, name string) structured.Value {
	for _, p := range params.Values() {
		if p.Get("name").StringOr("") == name {
			return p
		}
	}
	return structured.Value{}
}

// formatTimestamp normalizes a platform timestamp ("2021-01-01T10:30:00
// +00:00" variants) to "2021-01-01 10:30:00". Empty and "-" pass through as
// "-"; anything unparseable is returned as-is rather than failing the row.
func formatTimestamp(value string) string {
	if value == "" || value == structured.Fallback {
		return structured.Fallback
	}
	normalized := strings.Replace(strings.TrimSuffix(value, "+00:00"), "T", " ", 1)
	if _, err := time.Parse("2006-01-02 15:04:05", normalized); err != nil {
		return value
	}
	return normalized
}
