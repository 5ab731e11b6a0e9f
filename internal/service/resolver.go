package service

import (
	"context"
	"strings"

	"github.com/entrecon/entrecon/internal/cache"
	"github.com/entrecon/entrecon/internal/integration/google"
	"github.com/entrecon/entrecon/internal/logger"
	"github.com/entrecon/entrecon/internal/structured"
)

// EntitlementResult is the outcome of resolving one (customer, entitlement)
// pair. Exactly one of three shapes: an error message, resolved data, or the
// empty result when the entitlement id is unknown to the customer (no data,
// not an error).
type EntitlementResult struct {
	// Entitlement is the matching entry of the customer's entitlement list.
	Entitlement structured.Value

	// Offer is the entitlement's offer detail payload.
	Offer structured.Value

	// Err carries the remote failure message attached to affected rows.
	Err string
}

// Failed reports whether the resolution captured a remote error.
func (r *EntitlementResult) Failed() bool {
	return r.Err != ""
}

// EntitlementResolver memoizes entitlement lookups for one report run: the
// list call happens at most once per customer, the offer call at most once
// per (customer, entitlement) pair, and a recorded error is never
// overwritten by a later outcome.
type EntitlementResolver interface {
	Resolve(ctx context.Context, customerID, entitlementID string) *EntitlementResult
}

type entitlementResolver struct {
	client google.Client
	cache  cache.Cache
	logger *logger.Logger
}

// customerEntry is the customer-level memo: either a captured list error or
// the customer's entitlements indexed by the trailing segment of their name.
type customerEntry struct {
	err          string
	entitlements map[string]structured.Value
}

// pairEntry is the (customer, entitlement) memo.
type pairEntry struct {
	result EntitlementResult
}

// NewEntitlementResolver creates a resolver backed by a run-scoped cache.
func NewEntitlementResolver(client google.Client, c cache.Cache, log *logger.Logger) EntitlementResolver {
	return &entitlementResolver{
		client: client,
		cache:  c,
		logger: log,
	}
}

func customerKey(customerID string) string {
	return "entitlements:customer:" + customerID
}

func pairKey(customerID, entitlementID string) string {
	return "entitlements:offer:" + customerID + ":" + entitlementID
}

// Resolve returns the memoized enrichment data for one subscription row.
func (r *entitlementResolver) Resolve(ctx context.Context, customerID, entitlementID string) *EntitlementResult {
	entry := r.customerEntry(ctx, customerID)
	if entry.err != "" {
		return &EntitlementResult{Err: entry.err}
	}

	entitlement, ok := entry.entitlements[entitlementID]
	if !ok {
		// The customer exists remotely but has no such entitlement:
		// empty enrichment, no error text, no offer call.
		return &EntitlementResult{}
	}

	return r.pairEntry(ctx, customerID, entitlementID, entitlement)
}

// customerEntry fetches the customer's entitlement list at most once per
// run, capturing a failure at the customer level so every row of that
// customer carries the same error.
func (r *entitlementResolver) customerEntry(ctx context.Context, customerID string) *customerEntry {
	if cached, found := r.cache.Get(ctx, customerKey(customerID)); found {
		if entry, ok := cache.TypedCacheValue[customerEntry](cached); ok {
			return entry
		}
	}

	entry := &customerEntry{}
	entitlements, err := r.client.GetCustomerEntitlements(ctx, customerID)
	if err != nil {
		r.logger.Warnw("customer entitlement listing failed",
			"customer_id", customerID,
			"error", err)
		entry.err = err.Error()
	} else {
		entry.entitlements = indexEntitlements(entitlements)
	}

	r.cache.Set(ctx, customerKey(customerID), entry, cache.ExpiryNever)
	return entry
}

// pairEntry fetches the offer detail at most once per (customer,
// entitlement) pair; the first recorded outcome, success or error, is final
// for the run.
func (r *entitlementResolver) pairEntry(ctx context.Context, customerID, entitlementID string, entitlement structured.Value) *EntitlementResult {
	key := pairKey(customerID, entitlementID)
	if cached, found := r.cache.Get(ctx, key); found {
		if entry, ok := cache.TypedCacheValue[pairEntry](cached); ok {
			return &entry.result
		}
	}

	entry := &pairEntry{result: EntitlementResult{Entitlement: entitlement}}
	offer, err := r.client.GetEntitlementOffer(ctx, customerID, entitlementID)
	if err != nil {
		r.logger.Warnw("entitlement offer lookup failed",
			"customer_id", customerID,
			"entitlement_id", entitlementID,
			"error", err)
		// An errored pair keeps only the message; enrichment columns
		// degrade to the fallback like a customer-level failure.
		entry.result = EntitlementResult{Err: err.Error()}
	} else {
		entry.result.Offer = offer
	}

	r.cache.Set(ctx, key, entry, cache.ExpiryNever)
	return &entry.result
}

// indexEntitlements keys a customer's entitlements by the trailing path
// segment of their name (".../entitlements/{id}").
func indexEntitlements(entitlements []structured.Value) map[string]structured.Value {
	index := make(map[string]structured.Value, len(entitlements))
	for _, e := range entitlements {
		name := e.Get("name").StringOr("")
		segments := strings.Split(name, "/")
		index[segments[len(segments)-1]] = e
	}
	return index
}
