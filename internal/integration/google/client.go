// Package google implements the client for the Google management settings
// extension API used to enrich subscription rows with entitlement and offer
// data.
package google

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	ierr "github.com/entrecon/entrecon/internal/errors"
	"github.com/entrecon/entrecon/internal/logger"
	"github.com/entrecon/entrecon/internal/structured"
	"github.com/hashicorp/go-retryablehttp"
)

const (
	customerEntitlementsPath = "/api/customer_entitlements"
	entitlementOfferPath     = "/api/entitlement_offer"
)

// Client defines the read operations against the entitlement service.
type Client interface {
	// GetCustomerEntitlements lists all entitlements of a customer.
	GetCustomerEntitlements(ctx context.Context, customerID string) ([]structured.Value, error)

	// GetEntitlementOffer fetches the offer detail of a single entitlement.
	GetEntitlementOffer(ctx context.Context, customerID, entitlementID string) (structured.Value, error)
}

type client struct {
	baseURL       string
	apiKey        string
	marketplaceID string
	httpClient    *http.Client
	logger        *logger.Logger
}

// ClientOptions configures the entitlement client transport.
type ClientOptions struct {
	Timeout time.Duration
}

// NewClient creates an entitlement client bound to a discovered base URL and
// a single marketplace. The marketplace id is upper-cased once here. A
// failed call is never retried; the error is surfaced to the affected rows.
func NewClient(baseURL, apiKey, marketplaceID string, log *logger.Logger, opts ClientOptions) Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.Logger = log.GetRetryableHTTPLogger()
	rc.HTTPClient.Timeout = opts.Timeout
	// Hand the final response back even when the retry policy deems it
	// retryable, so a 5xx body still reaches the row-level error text.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &client{
		baseURL:       baseURL,
		apiKey:        apiKey,
		marketplaceID: strings.ToUpper(marketplaceID),
		httpClient:    rc.StandardClient(),
		logger:        log,
	}
}

// GetCustomerEntitlements lists all entitlements of a customer.
func (c *client) GetCustomerEntitlements(ctx context.Context, customerID string) ([]structured.Value, error) {
	query := url.Values{}
	query.Set("marketplace_id", c.marketplaceID)
	query.Set("customer_id", customerID)

	body, err := c.get(ctx, customerEntitlementsPath, query)
	if err != nil {
		return nil, err
	}

	entitlements, err := structured.DecodeList(body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse customer entitlements response").
			Mark(ierr.ErrHTTPClient)
	}

	c.logger.Debugw("fetched customer entitlements",
		"customer_id", customerID,
		"entitlement_count", len(entitlements))

	return entitlements, nil
}

// GetEntitlementOffer fetches the offer detail of a single entitlement.
func (c *client) GetEntitlementOffer(ctx context.Context, customerID, entitlementID string) (structured.Value, error) {
	query := url.Values{}
	query.Set("marketplace_id", c.marketplaceID)
	query.Set("customer_id", customerID)
	query.Set("entitlement_id", entitlementID)

	body, err := c.get(ctx, entitlementOfferPath, query)
	if err != nil {
		return structured.Value{}, err
	}

	offer, err := structured.Decode(body)
	if err != nil {
		return structured.Value{}, ierr.WithError(err).
			WithHint("Failed to parse entitlement offer response").
			Mark(ierr.ErrHTTPClient)
	}

	c.logger.Debugw("fetched entitlement offer",
		"customer_id", customerID,
		"entitlement_id", entitlementID)

	return offer, nil
}

// get performs a single blocking GET. Non-200 responses embed the response
// body verbatim in the returned error; that message becomes the row-level
// error text.
func (c *client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create HTTP request").
			Mark(ierr.ErrInternal)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorw("entitlement service request failed", "path", path, "error", err)
		return nil, ierr.WithError(err).
			WithHint("Unable to connect to the Google management settings service").
			Mark(ierr.ErrHTTPClient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read entitlement service response").
			Mark(ierr.ErrHTTPClient)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Errorw("entitlement service error",
			"path", path,
			"status", resp.StatusCode)
		return nil, ierr.NewErrorf("Google Management Settings Error: %s", body).
			WithHintf("HTTP status %d", resp.StatusCode).
			Mark(ierr.ErrHTTPClient)
	}

	return body, nil
}
