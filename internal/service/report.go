package service

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/entrecon/entrecon/internal/cache"
	"github.com/entrecon/entrecon/internal/config"
	"github.com/entrecon/entrecon/internal/domain/installation"
	"github.com/entrecon/entrecon/internal/domain/subscription"
	"github.com/entrecon/entrecon/internal/integration/google"
	"github.com/entrecon/entrecon/internal/logger"
	"github.com/entrecon/entrecon/internal/structured"
	"github.com/entrecon/entrecon/internal/types"
	jsoniter "github.com/json-iterator/go"
)

// errMissingGoogleParams is the row-level error attached when a subscription
// lacks the customer id or entitlement id parameter; no remote call is made.
const errMissingGoogleParams = "Subscription has missing google parameters."

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Row is one assembled report line. Cells are positional against Headers;
// JSON-mode rows render as a mapping keyed by normalized header names.
type Row struct {
	cells    []interface{}
	renderer types.RendererType
	header   bool
}

// IsHeader reports whether the row is the CSV header line.
func (r *Row) IsHeader() bool {
	return r.header
}

// Cells returns the positional cell values.
func (r *Row) Cells() []interface{} {
	return r.cells
}

// Strings renders the cells for CSV writing.
func (r *Row) Strings() []string {
	out := make([]string, len(r.cells))
	for i, c := range r.cells {
		out[i] = fmt.Sprint(c)
	}
	return out
}

// Map returns the row keyed by normalized header names.
func (r *Row) Map() map[string]interface{} {
	out := make(map[string]interface{}, len(r.cells))
	for i, c := range r.cells {
		out[normalizedHeaders[i]] = c
	}
	return out
}

// MarshalJSON renders JSON-mode rows as mappings and everything else as a
// positional array.
func (r *Row) MarshalJSON() ([]byte, error) {
	if r.renderer == types.RendererTypeJSON && !r.header {
		return json.Marshal(r.Map())
	}
	return json.Marshal(r.cells)
}

func headerRow(renderer types.RendererType) *Row {
	cells := make([]interface{}, len(Headers))
	for i, h := range Headers {
		cells[i] = h
	}
	return &Row{cells: cells, renderer: renderer, header: true}
}

// ServiceParams bundles the collaborators of the report service.
type ServiceParams struct {
	Logger           *logger.Logger
	Config           *config.Configuration
	SubscriptionRepo subscription.Repository
	InstallationRepo installation.Repository

	// NewGoogleClient overrides the entitlement client construction; nil
	// uses the HTTP client against the discovered service URL.
	NewGoogleClient func(baseURL, apiKey, marketplaceID string, log *logger.Logger, opts google.ClientOptions) google.Client
}

// ReportService generates the Google Workspace reconciliation report.
type ReportService interface {
	// Generate returns a lazy, single-pass row stream. In CSV mode the
	// first element is the header row and it counts as one progress unit.
	// Row-level failures surface in the Error Details column; only setup
	// failures (endpoint discovery, counting) abort the run.
	Generate(ctx context.Context, params *types.ReportParams, renderer types.RendererType, progress types.ProgressFunc) (iter.Seq[*Row], error)
}

type reportService struct {
	ServiceParams
}

// NewReportService creates the report service.
func NewReportService(serviceParams ServiceParams) ReportService {
	return &reportService{ServiceParams: serviceParams}
}

func (s *reportService) Generate(
	ctx context.Context,
	params *types.ReportParams,
	renderer types.RendererType,
	progress types.ProgressFunc,
) (iter.Seq[*Row], error) {
	if params == nil {
		params = &types.ReportParams{}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if renderer == "" {
		renderer = types.RendererTypeCSV
	}
	if err := renderer.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(int, int) {}
	}
	if types.GetRunID(ctx) == "" {
		ctx = types.SetRunID(ctx, types.GenerateRunID())
	}
	log := s.Logger.WithContext(ctx)

	queryable := s.SubscriptionRepo.Find(ctx, subscription.NewFilter(params))
	total, err := queryable.Count(ctx)
	if err != nil {
		return nil, err
	}

	baseURL, err := google.ObtainServiceURL(ctx, s.InstallationRepo)
	if err != nil {
		return nil, err
	}

	newClient := s.NewGoogleClient
	if newClient == nil {
		newClient = google.NewClient
	}
	client := newClient(
		baseURL,
		s.Config.Connect.APIKey,
		params.MarketplaceID(),
		log,
		google.ClientOptions{Timeout: time.Duration(s.Config.Google.TimeoutSeconds) * time.Second},
	)

	// The memo cache lives exactly as long as this run.
	runCache := cache.NewInMemoryCache()
	resolver := NewEntitlementResolver(client, runCache, log)

	totalUnits := total
	if renderer == types.RendererTypeCSV {
		totalUnits++
	}

	log.Infow("starting reconciliation report",
		"subscription_count", total,
		"renderer", renderer,
		"service_url", baseURL)

	return func(yield func(*Row) bool) {
		defer runCache.Flush(ctx)

		completed := 0
		if renderer == types.RendererTypeCSV {
			if !yield(headerRow(renderer)) {
				return
			}
			completed++
			progress(completed, totalUnits)
		}

		for record, err := range queryable.Records(ctx) {
			if err != nil {
				log.Errorw("subscription iteration failed", "error", err)
				return
			}
			if !yield(s.assembleRow(ctx, record, resolver, renderer)) {
				return
			}
			completed++
			progress(completed, totalUnits)
		}

		log.Infow("reconciliation report finished", "rows", completed)
	}, nil
}

// assembleRow extracts the local fields of one subscription, resolves the
// remote enrichment, and merges both into the fixed column order.
func (s *reportService) assembleRow(
	ctx context.Context,
	record structured.Value,
	resolver EntitlementResolver,
	renderer types.RendererType,
) *Row {
	params := record.Get("params")
	itemName, itemMPN := ItemData(record.Get("items"))
	g := s.googleColumns(s.resolveEnrichment(ctx, record, resolver))

	billing := record.Get("billing")
	period := interface{}(structured.Fallback)
	if !billing.IsNull() {
		period = CalculatePeriod(
			billing.Get("period").Get("delta").Float(0),
			billing.Get("period").Get("uom").StringOr(""),
		)
	}

	tiers := record.Get("tiers")
	connection := record.Get("connection")

	cells := []interface{}{
		record.Get("id").Scalar(structured.Fallback),
		record.Get("external_id").Scalar(structured.Fallback),
		EntitlementID(params),
		record.Lookup("connection", "type"),
		structured.ParameterValue(params, "purchase_type", structured.Fallback),
		structured.ParameterValue(params, "domain", structured.Fallback),
		structured.ParameterValue(params, "customer_id", structured.Fallback),
		itemName,
		itemMPN,
		g.sku,
		g.product,
		g.offerID,
		g.skuDisplayName,
		record.Get("items").First().Get("quantity").Scalar(structured.Fallback),
		g.numUnits,
		g.maxUnits,
		g.assignedUnits,
		g.basePrice,
		g.effectivePrice,
		formatTimestamp(record.Get("events").Get("created").Get("at").StringOr("")),
		formatTimestamp(record.Get("events").Get("updated").Get("at").StringOr("")),
		g.createdTime,
		g.commitmentStart,
		g.commitmentEnd,
		g.renewal,
		record.Get("status").Scalar(structured.Fallback),
		g.status,
		g.suspensionReasons,
		g.purchaseOrderID,
		period,
		billing.Lookup("anniversary", "day"),
		billing.Lookup("anniversary", "month"),
		record.Lookup("contract", "id"),
		record.Lookup("contract", "name"),
		tiers.Lookup("customer", "id"),
		tiers.Lookup("customer", "name"),
		tiers.Lookup("customer", "external_id"),
		tiers.Lookup("tier1", "id"),
		tiers.Lookup("tier1", "name"),
		tiers.Lookup("tier1", "external_id"),
		tiers.Lookup("tier2", "id"),
		tiers.Lookup("tier2", "name"),
		tiers.Lookup("tier2", "external_id"),
		connection.Lookup("provider", "id"),
		connection.Lookup("provider", "name"),
		connection.Lookup("vendor", "id"),
		connection.Lookup("vendor", "name"),
		record.Lookup("product", "id"),
		record.Lookup("product", "name"),
		connection.Lookup("hub", "id"),
		connection.Lookup("hub", "name"),
		g.errDetails,
	}

	return &Row{cells: cells, renderer: renderer}
}

// resolveEnrichment guards the remote path: both the customer id and the
// entitlement id parameter must be present, otherwise the row gets the
// missing-parameters error without any remote call.
func (s *reportService) resolveEnrichment(
	ctx context.Context,
	record structured.Value,
	resolver EntitlementResolver,
) *EntitlementResult {
	params := record.Get("params")
	customerID, _ := structured.ParameterValue(params, "customer_id", "").(string)
	entitlementID := EntitlementID(params)
	if customerID == "" || entitlementID == "" {
		return &EntitlementResult{Err: errMissingGoogleParams}
	}
	return resolver.Resolve(ctx, customerID, entitlementID)
}

// googleData holds the enrichment columns of one row.
type googleData struct {
	sku               interface{}
	product           interface{}
	offerID           interface{}
	skuDisplayName    interface{}
	numUnits          interface{}
	maxUnits          interface{}
	assignedUnits     interface{}
	effectivePrice    string
	basePrice         string
	createdTime       interface{}
	commitmentStart   interface{}
	commitmentEnd     interface{}
	renewal           interface{}
	status            string
	suspensionReasons string
	purchaseOrderID   interface{}
	errDetails        interface{}
}

// googleColumns shapes an entitlement result into row cells. A failed
// resolution keeps only the error text; all enrichment columns fall back.
func (s *reportService) googleColumns(res *EntitlementResult) googleData {
	if res.Failed() {
		data := extractGoogleData(&EntitlementResult{})
		data.errDetails = res.Err
		return data
	}
	return extractGoogleData(res)
}

func extractGoogleData(res *EntitlementResult) googleData {
	entitlement := res.Entitlement
	offer := res.Offer
	sku := offer.Get("sku")
	parameters := entitlement.Get("parameters")
	price := offer.Get("price_by_resources").First().Get("price")

	return googleData{
		sku:            sku.Get("name").Scalar(structured.Fallback),
		product:        sku.Get("product").Get("name").Scalar(structured.Fallback),
		skuDisplayName: sku.Get("marketing_info").Get("display_name").Scalar(structured.Fallback),
		offerID:        offer.Get("name").Scalar(structured.Fallback),
		numUnits: googleParameter(parameters, "num_units").
			Get("value").Get("int64_value").Scalar(structured.Fallback),
		maxUnits: googleParameter(parameters, "max_units").
			Get("value").Get("int64_value").Scalar(structured.Fallback),
		assignedUnits: googleParameter(parameters, "assigned_units").
			Get("value").Get("int64_value").Scalar(structured.Fallback),
		effectivePrice:    Price(price.Get("effective_price")),
		basePrice:         Price(price.Get("base_price")),
		createdTime:       entitlement.Get("create_time").Scalar(structured.Fallback),
		commitmentStart:   entitlement.Get("commitment_settings").Get("start_time").Scalar(structured.Fallback),
		commitmentEnd:     entitlement.Get("commitment_settings").Get("end_time").Scalar(structured.Fallback),
		renewal:           entitlement.Get("commitment_settings").Lookup("renewal_settings", "enable_renewal"),
		status:            EntitlementStatus(entitlement.Get("provisioning_state")),
		suspensionReasons: SuspensionReasons(entitlement),
		purchaseOrderID:   entitlement.Get("purchase_order_id").Scalar(structured.Fallback),
		errDetails:        structured.Fallback,
	}
}
