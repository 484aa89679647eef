package barcode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/warrantyhub/backend/internal/domain"
	"golang.org/x/time/rate"
)

// OpenFoodFactsClient wraps the community-maintained Open Food Facts database.
// Community-sourced data gets the medium tier and is queried last.
type OpenFoodFactsClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	timeout     time.Duration
}

// NewOpenFoodFactsClient creates a new Open Food Facts client.
func NewOpenFoodFactsClient(baseURL string) *OpenFoodFactsClient {
	// Open Food Facts asks API users to stay under 100 req/min
	limiter := rate.NewLimiter(rate.Limit(100.0/60.0), 10)

	return &OpenFoodFactsClient{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:     baseURL,
		rateLimiter: limiter,
		timeout:     defaultTimeout,
	}
}

// Name implements domain.BarcodeSource.
func (c *OpenFoodFactsClient) Name() string { return "openfoodfacts" }

// Tier implements domain.BarcodeSource.
func (c *OpenFoodFactsClient) Tier() domain.ConfidenceTier { return domain.TierMedium }

// offProduct is the product object in an Open Food Facts response.
type offProduct struct {
	ProductName string `json:"product_name"`
	Brands      string `json:"brands"`
	Categories  string `json:"categories"`
}

// offResponse is the Open Food Facts response envelope. Status 0 means the
// code is unknown to the database.
type offResponse struct {
	Status  int         `json:"status"`
	Product *offProduct `json:"product"`
}

// Resolve looks up the identifier against Open Food Facts.
func (c *OpenFoodFactsClient) Resolve(ctx context.Context, identifier string) (*domain.LookupResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrProviderTransient, err)
	}

	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, identifier)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderTransient, err)
	}
	req.Header.Set("User-Agent", "WarrantyHub/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[OPENFOODFACTS] Request error: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderTransient, err)
	}
	defer resp.Body.Close()

	// Unknown codes come back as 404 with a status:0 body
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNoMatch
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[OPENFOODFACTS] API error - Status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrProviderTransient, resp.StatusCode)
	}

	var parsed offResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[OPENFOODFACTS] JSON decode error: %v", err)
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrProviderTransient, err)
	}

	return mapOpenFoodFactsResponse(&parsed)
}

// mapOpenFoodFactsResponse maps the provider envelope onto a LookupResult.
// Brands and categories arrive as comma-separated lists; the first entry is
// the canonical one.
func mapOpenFoodFactsResponse(resp *offResponse) (*domain.LookupResult, error) {
	if resp.Status != 1 || resp.Product == nil {
		return nil, domain.ErrNoMatch
	}

	name := strings.TrimSpace(resp.Product.ProductName)
	if name == "" {
		return nil, domain.ErrNoMatch
	}

	return &domain.LookupResult{
		Name:           name,
		Brand:          firstListEntry(resp.Product.Brands),
		Category:       firstListEntry(resp.Product.Categories),
		ConfidenceTier: domain.TierMedium,
		Source:         "openfoodfacts",
	}, nil
}

// firstListEntry returns the first entry of a comma-separated list, trimmed.
func firstListEntry(list string) string {
	if idx := strings.Index(list, ","); idx >= 0 {
		list = list[:idx]
	}
	return strings.TrimSpace(list)
}
