// Package barcode contains the clients for the external barcode lookup
// providers. Each client wraps exactly one provider behind domain.BarcodeSource
// and maps the provider's response shape onto domain.LookupResult.
package barcode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/warrantyhub/backend/internal/domain"
	"golang.org/x/time/rate"
)

// defaultTimeout bounds a single provider call, including connection setup.
const defaultTimeout = 5 * time.Second

// BarcodeLookupClient wraps the Barcode Lookup API, the broadest-coverage
// commercial source. Results from it carry the high confidence tier.
type BarcodeLookupClient struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	timeout     time.Duration
}

// NewBarcodeLookupClient creates a new Barcode Lookup API client.
func NewBarcodeLookupClient(apiKey, baseURL string) *BarcodeLookupClient {
	// Paid plan allows 100 requests per minute
	limiter := rate.NewLimiter(rate.Limit(100.0/60.0), 10)

	return &BarcodeLookupClient{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
		timeout:     defaultTimeout,
	}
}

// Name implements domain.BarcodeSource.
func (c *BarcodeLookupClient) Name() string { return "barcodelookup" }

// Tier implements domain.BarcodeSource.
func (c *BarcodeLookupClient) Tier() domain.ConfidenceTier { return domain.TierHigh }

// blProduct is one product object in a Barcode Lookup API response.
type blProduct struct {
	BarcodeNumber string `json:"barcode_number"`
	Title         string `json:"title"`
	Brand         string `json:"brand"`
	Category      string `json:"category"`
	Model         string `json:"model"`
	Manufacturer  string `json:"manufacturer"`
}

// blResponse is the Barcode Lookup API response envelope.
type blResponse struct {
	Products []blProduct `json:"products"`
}

// Resolve looks up the identifier. Returns domain.ErrNoMatch when the provider
// has no product, or a wrapped domain.ErrProviderTransient on any failure.
func (c *BarcodeLookupClient) Resolve(ctx context.Context, identifier string) (*domain.LookupResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrProviderTransient, err)
	}

	params := url.Values{}
	params.Add("barcode", identifier)
	params.Add("key", c.apiKey)
	reqURL := fmt.Sprintf("%s/v3/products?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderTransient, err)
	}
	req.Header.Set("User-Agent", "WarrantyHub/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[BARCODELOOKUP] Request error: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderTransient, err)
	}
	defer resp.Body.Close()

	// The API answers 404 when no product matches the barcode
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNoMatch
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[BARCODELOOKUP] API error - Status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrProviderTransient, resp.StatusCode)
	}

	var parsed blResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[BARCODELOOKUP] JSON decode error: %v", err)
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrProviderTransient, err)
	}

	return mapBarcodeLookupResponse(&parsed)
}

// mapBarcodeLookupResponse maps the provider envelope onto a LookupResult.
// A response without products, or whose first product carries no usable title,
// maps to ErrNoMatch rather than a partially-filled result.
func mapBarcodeLookupResponse(resp *blResponse) (*domain.LookupResult, error) {
	if len(resp.Products) == 0 {
		return nil, domain.ErrNoMatch
	}

	product := resp.Products[0]
	name := strings.TrimSpace(product.Title)
	if name == "" {
		return nil, domain.ErrNoMatch
	}

	brand := strings.TrimSpace(product.Brand)
	if brand == "" {
		// Some listings only populate manufacturer
		brand = strings.TrimSpace(product.Manufacturer)
	}

	return &domain.LookupResult{
		Name:           name,
		Brand:          brand,
		Category:       strings.TrimSpace(product.Category),
		Model:          strings.TrimSpace(product.Model),
		ConfidenceTier: domain.TierHigh,
		Source:         "barcodelookup",
	}, nil
}
