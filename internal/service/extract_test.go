package service

import (
	"testing"

	"github.com/entrecon/entrecon/internal/structured"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, doc string) structured.Value {
	t.Helper()
	v, err := structured.Decode([]byte(doc))
	require.NoError(t, err)
	return v
}

func TestCalculatePeriod(t *testing.T) {
	tests := []struct {
		delta    float64
		uom      string
		expected string
	}{
		{1, "monthly", "Monthly"},
		{1, "yearly", "Yearly"},
		{3, "monthly", "3 Months"},
		{2, "yearly", "2 Years"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, CalculatePeriod(tt.delta, tt.uom))
	}
}

func TestItemData(t *testing.T) {
	t.Run("no items", func(t *testing.T) {
		name, mpn := ItemData(structured.Value{})
		assert.Equal(t, "-", name)
		assert.Equal(t, "-", mpn)
	})

	t.Run("single item", func(t *testing.T) {
		items := decode(t, `[{"display_name": "Business Standard", "mpn": "GW_BS"}]`)
		name, mpn := ItemData(items)
		assert.Equal(t, "Business Standard", name)
		assert.Equal(t, "GW_BS", mpn)
	})

	t.Run("multiple items collapse to the Drive storage item", func(t *testing.T) {
		items := decode(t, `[
			{"display_name": "Workspace", "mpn": "GW_BS"},
			{"display_name": "Drive", "mpn": "GOOGLE_DRIVE_STORAGE_100GB"}
		]`)
		name, mpn := ItemData(items)
		assert.Equal(t, "Google Drive Storage", name)
		assert.Equal(t, "GOOGLE_DRIVE_STORAGE", mpn)
	})

	t.Run("multiple items without Drive use the first", func(t *testing.T) {
		items := decode(t, `[
			{"display_name": "A", "mpn": "MPN_A"},
			{"display_name": "B", "mpn": "MPN_B"}
		]`)
		name, mpn := ItemData(items)
		assert.Equal(t, "A", name)
		assert.Equal(t, "MPN_A", mpn)
	})
}

func TestPrice(t *testing.T) {
	t.Run("numeric units", func(t *testing.T) {
		price := decode(t, `{"units": 7, "nanos": 120000000, "currency_code": "USD"}`)
		assert.Equal(t, "7.12 USD", Price(price))
	})

	t.Run("string units", func(t *testing.T) {
		price := decode(t, `{"units": "7", "nanos": 120000000, "currency_code": "USD"}`)
		assert.Equal(t, "7.12 USD", Price(price))
	})

	t.Run("nanos only", func(t *testing.T) {
		price := decode(t, `{"nanos": 500000000, "currency_code": "EUR"}`)
		assert.Equal(t, "0.50 EUR", Price(price))
	})

	t.Run("absent or empty", func(t *testing.T) {
		assert.Equal(t, "-", Price(structured.Value{}))
		assert.Equal(t, "-", Price(decode(t, `{}`)))
	})
}

func TestEntitlementStatus(t *testing.T) {
	assert.Equal(t, "unspecified", EntitlementStatus(structured.FromAny(float64(0))))
	assert.Equal(t, "active", EntitlementStatus(structured.FromAny(float64(1))))
	assert.Equal(t, "suspended", EntitlementStatus(structured.FromAny(float64(5))))
	assert.Equal(t, "-", EntitlementStatus(structured.FromAny(float64(3))))
	assert.Equal(t, "-", EntitlementStatus(structured.Value{}))
}

func TestSuspensionReasons(t *testing.T) {
	t.Run("known codes", func(t *testing.T) {
		assert.Equal(t, "RESELLER_INITIATED", SuspensionReason(1))
		assert.Equal(t, "PENDING_TOS_ACCEPTANCE", SuspensionReason(4))
		// Code 100 carries a trailing space in the published format.
		assert.Equal(t, "OTHER ", SuspensionReason(100))
		assert.Equal(t, "-", SuspensionReason(42))
	})

	t.Run("first reason of the entitlement wins", func(t *testing.T) {
		ent := decode(t, `{"suspension_reasons": [2, 1]}`)
		assert.Equal(t, "TRIAL_ENDED", SuspensionReasons(ent))
	})

	t.Run("no reasons recorded", func(t *testing.T) {
		assert.Equal(t, "-", SuspensionReasons(decode(t, `{}`)))
		assert.Equal(t, "-", SuspensionReasons(decode(t, `{"suspension_reasons": []}`)))
	})
}

func TestEntitlementID(t *testing.T) {
	t.Run("strips brackets and quotes", func(t *testing.T) {
		params := decode(t, `[{"id": "entitlement_id", "value": "[\"ENT-1\"]"}]`)
		assert.Equal(t, "ENT-1", EntitlementID(params))
	})

	t.Run("plain value passes through", func(t *testing.T) {
		params := decode(t, `[{"id": "entitlement_id", "value": "ENT-2"}]`)
		assert.Equal(t, "ENT-2", EntitlementID(params))
	})

	t.Run("missing parameter yields the empty string, not the fallback", func(t *testing.T) {
		assert.Equal(t, "", EntitlementID(decode(t, `[]`)))
		assert.Equal(t, "", EntitlementID(structured.Value{}))
	})
}

func TestSearchProductPrimary(t *testing.T) {
	params := []structured.Value{
		decode(t, `{"name": "domain", "constraints": {"reconciliation": false}}`),
		decode(t, `{"name": "entitlement_id", "constraints": {"reconciliation": true}}`),
	}
	assert.Equal(t, "entitlement_id", SearchProductPrimary(params))
	assert.Equal(t, "", SearchProductPrimary(nil))
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"offset suffix stripped", "2023-04-01T10:30:00+00:00", "2023-04-01 10:30:00"},
		{"already plain", "2023-04-01 10:30:00", "2023-04-01 10:30:00"},
		{"empty", "", "-"},
		{"fallback passes through", "-", "-"},
		{"unparseable returned as-is", "not-a-date", "not-a-date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatTimestamp(tt.in))
		})
	}
}

func TestHeaders(t *testing.T) {
	assert.Len(t, Headers, 52)
	assert.Equal(t, "Subscription ID", Headers[0])
	assert.Equal(t, "Error Details", Headers[len(Headers)-1])

	assert.Equal(t, "subscription_id", NormalizeHeader("Subscription ID"))
	assert.Equal(t, "google_offer_effective_price", NormalizeHeader("Google Offer Effective Price"))
	assert.Len(t, normalizedHeaders, len(Headers))
}
