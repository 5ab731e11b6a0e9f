package testutil

import (
	"fmt"

	"github.com/entrecon/entrecon/internal/structured"
)

// MustDecode parses a JSON fixture, panicking on malformed test data.
func MustDecode(data string) structured.Value {
	v, err := structured.Decode([]byte(data))
	if err != nil {
		panic(fmt.Sprintf("testutil: bad fixture: %v", err))
	}
	return v
}

// SubscriptionFixture returns a fully populated Google Workspace
// subscription record.
func SubscriptionFixture() structured.Value {
	return MustDecode(`{
		"id": "AS-2708-7173-4208",
		"external_id": "EXT-100",
		"status": "active",
		"product": {"id": "PRD-861-570-450", "name": "Google Workspace"},
		"marketplace": {"id": "MP-12345"},
		"params": [
			{"id": "customer_id", "value": "C-0001"},
			{"id": "entitlement_id", "value": "[\"ENT-1\"]"},
			{"id": "purchase_type", "value": "commitment"},
			{"id": "domain", "value": "acme.example"}
		],
		"items": [
			{"display_name": "Business Standard", "mpn": "GOOGLE_WORKSPACE_BUSINESS_STANDARD", "quantity": 12}
		],
		"events": {
			"created": {"at": "2023-04-01T10:30:00+00:00"},
			"updated": {"at": "2023-05-02T08:15:00+00:00"}
		},
		"billing": {
			"period": {"delta": 1, "uom": "monthly"},
			"anniversary": {"day": 1, "month": 4}
		},
		"contract": {"id": "CRD-111", "name": "Default Contract"},
		"tiers": {
			"customer": {"id": "TA-1", "name": "Acme Inc", "external_id": "ACME"},
			"tier1": {"id": "TA-2", "name": "Reseller One", "external_id": "R1"},
			"tier2": {"id": "TA-3", "name": "Distributor", "external_id": "D1"}
		},
		"connection": {
			"type": "production",
			"provider": {"id": "PA-1", "name": "Provider Co"},
			"vendor": {"id": "VA-1", "name": "Vendor Co"},
			"hub": {"id": "HB-1", "name": "Main Hub"}
		}
	}`)
}

// EntitlementFixture returns one entry of a customer entitlement listing
// with the trailing name segment "ENT-1".
func EntitlementFixture() structured.Value {
	return MustDecode(`{
		"name": "customers/C-0001/entitlements/ENT-1",
		"create_time": "2023-04-01T10:35:00Z",
		"provisioning_state": 1,
		"parameters": [
			{"name": "num_units", "value": {"int64_value": 12}},
			{"name": "max_units", "value": {"int64_value": 50}},
			{"name": "assigned_units", "value": {"int64_value": 10}}
		],
		"commitment_settings": {
			"start_time": "2023-04-01T00:00:00Z",
			"end_time": "2024-04-01T00:00:00Z",
			"renewal_settings": {"enable_renewal": true}
		},
		"purchase_order_id": "PO-42"
	}`)
}

// OfferFixture returns an entitlement offer detail payload. Both prices
// render as "7.12 USD".
func OfferFixture() structured.Value {
	return MustDecode(`{
		"name": "accounts/A1/offers/OFF-1",
		"sku": {
			"name": "products/P1/skus/SKU-1",
			"product": {"name": "products/P1"},
			"marketing_info": {"display_name": "Google Workspace Business Standard"}
		},
		"price_by_resources": [
			{
				"price": {
					"base_price": {"units": "7", "nanos": 120000000, "currency_code": "USD"},
					"effective_price": {"units": 7, "nanos": 120000000, "currency_code": "USD"}
				}
			}
		]
	}`)
}

// InstallationFixture returns an installed extension record hosting the
// entitlement service at gms.example.com.
func InstallationFixture() structured.Value {
	return MustDecode(`{
		"id": "EIN-123",
		"status": "installed",
		"environment": {
			"hostname": "gms",
			"domain": "example.com",
			"extension": {"id": "SRVC-9722-3113"}
		}
	}`)
}
