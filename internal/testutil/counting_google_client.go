package testutil

import (
	"context"

	"github.com/entrecon/entrecon/internal/structured"
)

// CountingGoogleClient is a google.Client fake that records how many times
// each remote call was issued, for asserting memoization behavior.
type CountingGoogleClient struct {
	// EntitlementsFn serves GetCustomerEntitlements; a nil fn returns an
	// empty list.
	EntitlementsFn func(customerID string) ([]structured.Value, error)

	// OfferFn serves GetEntitlementOffer; a nil fn returns a null value.
	OfferFn func(customerID, entitlementID string) (structured.Value, error)

	// ListCalls counts list calls per customer id.
	ListCalls map[string]int

	// OfferCalls counts offer calls per "customer/entitlement" pair.
	OfferCalls map[string]int
}

// NewCountingGoogleClient creates a fake client with zeroed counters.
func NewCountingGoogleClient() *CountingGoogleClient {
	return &CountingGoogleClient{
		ListCalls:  make(map[string]int),
		OfferCalls: make(map[string]int),
	}
}

func (c *CountingGoogleClient) GetCustomerEntitlements(_ context.Context, customerID string) ([]structured.Value, error) {
	c.ListCalls[customerID]++
	if c.EntitlementsFn == nil {
		return nil, nil
	}
	return c.EntitlementsFn(customerID)
}

func (c *CountingGoogleClient) GetEntitlementOffer(_ context.Context, customerID, entitlementID string) (structured.Value, error) {
	c.OfferCalls[customerID+"/"+entitlementID]++
	if c.OfferFn == nil {
		return structured.Value{}, nil
	}
	return c.OfferFn(customerID, entitlementID)
}

// TotalListCalls sums list calls across customers.
func (c *CountingGoogleClient) TotalListCalls() int {
	total := 0
	for _, n := range c.ListCalls {
		total += n
	}
	return total
}

// TotalOfferCalls sums offer calls across pairs.
func (c *CountingGoogleClient) TotalOfferCalls() int {
	total := 0
	for _, n := range c.OfferCalls {
		total += n
	}
	return total
}
