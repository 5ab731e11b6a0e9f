package service

import (
	"context"
	"errors"
	"testing"

	"github.com/entrecon/entrecon/internal/cache"
	"github.com/entrecon/entrecon/internal/logger"
	"github.com/entrecon/entrecon/internal/structured"
	"github.com/entrecon/entrecon/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(client *testutil.CountingGoogleClient) EntitlementResolver {
	return NewEntitlementResolver(client, cache.NewInMemoryCache(), logger.GetLogger())
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("entitlement and offer resolved", func(t *testing.T) {
		client := testutil.NewCountingGoogleClient()
		client.EntitlementsFn = func(string) ([]structured.Value, error) {
			return []structured.Value{testutil.EntitlementFixture()}, nil
		}
		client.OfferFn = func(string, string) (structured.Value, error) {
			return testutil.OfferFixture(), nil
		}

		res := newTestResolver(client).Resolve(ctx, "C-0001", "ENT-1")
		require.False(t, res.Failed())
		assert.Equal(t, "customers/C-0001/entitlements/ENT-1", res.Entitlement.Get("name").StringOr(""))
		assert.Equal(t, "accounts/A1/offers/OFF-1", res.Offer.Get("name").StringOr(""))
	})

	t.Run("unknown entitlement id yields empty data without an offer call", func(t *testing.T) {
		client := testutil.NewCountingGoogleClient()
		client.EntitlementsFn = func(string) ([]structured.Value, error) {
			return []structured.Value{testutil.EntitlementFixture()}, nil
		}

		res := newTestResolver(client).Resolve(ctx, "C-0001", "ENT-MISSING")
		assert.False(t, res.Failed())
		assert.True(t, res.Entitlement.IsNull())
		assert.True(t, res.Offer.IsNull())
		assert.Zero(t, client.TotalOfferCalls())
	})

	t.Run("listing failure marks every row of the customer", func(t *testing.T) {
		client := testutil.NewCountingGoogleClient()
		client.EntitlementsFn = func(string) ([]structured.Value, error) {
			return nil, errors.New("Google Management Settings Error: boom")
		}

		resolver := newTestResolver(client)
		for _, entID := range []string{"ENT-1", "ENT-2"} {
			res := resolver.Resolve(ctx, "C-0001", entID)
			require.True(t, res.Failed())
			assert.Equal(t, "Google Management Settings Error: boom", res.Err)
		}
		assert.Equal(t, 1, client.TotalListCalls())
		assert.Zero(t, client.TotalOfferCalls())
	})

	t.Run("offer failure drops the entitlement data", func(t *testing.T) {
		client := testutil.NewCountingGoogleClient()
		client.EntitlementsFn = func(string) ([]structured.Value, error) {
			return []structured.Value{testutil.EntitlementFixture()}, nil
		}
		client.OfferFn = func(string, string) (structured.Value, error) {
			return structured.Value{}, errors.New("offer unavailable")
		}

		res := newTestResolver(client).Resolve(ctx, "C-0001", "ENT-1")
		require.True(t, res.Failed())
		assert.Equal(t, "offer unavailable", res.Err)
		assert.True(t, res.Entitlement.IsNull())
	})
}

func TestResolveMemoization(t *testing.T) {
	ctx := context.Background()

	client := testutil.NewCountingGoogleClient()
	client.EntitlementsFn = func(customerID string) ([]structured.Value, error) {
		return []structured.Value{
			testutil.MustDecode(`{"name": "customers/` + customerID + `/entitlements/ENT-1"}`),
			testutil.MustDecode(`{"name": "customers/` + customerID + `/entitlements/ENT-2"}`),
		}, nil
	}
	client.OfferFn = func(string, string) (structured.Value, error) {
		return testutil.OfferFixture(), nil
	}

	resolver := newTestResolver(client)

	// Repeated rows for the same pairs and customers.
	for i := 0; i < 3; i++ {
		resolver.Resolve(ctx, "C-1", "ENT-1")
		resolver.Resolve(ctx, "C-1", "ENT-2")
		resolver.Resolve(ctx, "C-2", "ENT-1")
	}

	assert.Equal(t, 1, client.ListCalls["C-1"])
	assert.Equal(t, 1, client.ListCalls["C-2"])
	assert.Equal(t, 1, client.OfferCalls["C-1/ENT-1"])
	assert.Equal(t, 1, client.OfferCalls["C-1/ENT-2"])
	assert.Equal(t, 1, client.OfferCalls["C-2/ENT-1"])
}

func TestResolveFirstErrorWins(t *testing.T) {
	ctx := context.Background()

	failures := 0
	client := testutil.NewCountingGoogleClient()
	client.EntitlementsFn = func(string) ([]structured.Value, error) {
		failures++
		if failures == 1 {
			return nil, errors.New("transient failure")
		}
		return []structured.Value{testutil.EntitlementFixture()}, nil
	}

	resolver := newTestResolver(client)

	first := resolver.Resolve(ctx, "C-1", "ENT-1")
	require.True(t, first.Failed())

	// The recorded failure is final for the run; no second attempt happens.
	second := resolver.Resolve(ctx, "C-1", "ENT-1")
	assert.Equal(t, "transient failure", second.Err)
	assert.Equal(t, 1, client.TotalListCalls())
}
