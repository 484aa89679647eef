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

// UPCItemDBClient wraps the UPCitemdb lookup API. Coverage is narrower than
// Barcode Lookup, so its results carry the medium confidence tier.
type UPCItemDBClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	timeout     time.Duration
}

// NewUPCItemDBClient creates a new UPCitemdb client. The trial tier needs no
// API key.
func NewUPCItemDBClient(baseURL string) *UPCItemDBClient {
	// Trial tier allows 100 requests per day; burst kept low on purpose
	limiter := rate.NewLimiter(rate.Limit(100.0/86400.0), 5)

	return &UPCItemDBClient{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		baseURL:     baseURL,
		rateLimiter: limiter,
		timeout:     defaultTimeout,
	}
}

// Name implements domain.BarcodeSource.
func (c *UPCItemDBClient) Name() string { return "upcitemdb" }

// Tier implements domain.BarcodeSource.
func (c *UPCItemDBClient) Tier() domain.ConfidenceTier { return domain.TierMedium }

// upcItem is one item object in a UPCitemdb response.
type upcItem struct {
	Title    string `json:"title"`
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Category string `json:"category"`
}

// upcResponse is the UPCitemdb response envelope.
type upcResponse struct {
	Code  string    `json:"code"`
	Total int       `json:"total"`
	Items []upcItem `json:"items"`
}

// Resolve looks up the identifier against UPCitemdb.
func (c *UPCItemDBClient) Resolve(ctx context.Context, identifier string) (*domain.LookupResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrProviderTransient, err)
	}

	params := url.Values{}
	params.Add("upc", identifier)
	reqURL := fmt.Sprintf("%s/prod/trial/lookup?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderTransient, err)
	}
	req.Header.Set("User-Agent", "WarrantyHub/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[UPCITEMDB] Request error: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrNoMatch
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Printf("[UPCITEMDB] API error - Status: %d, Body: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrProviderTransient, resp.StatusCode)
	}

	var parsed upcResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[UPCITEMDB] JSON decode error: %v", err)
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrProviderTransient, err)
	}

	return mapUPCItemDBResponse(&parsed)
}

// mapUPCItemDBResponse maps the provider envelope onto a LookupResult.
func mapUPCItemDBResponse(resp *upcResponse) (*domain.LookupResult, error) {
	// The API reports "OK" even for zero hits; anything else is a rejection
	// of the code itself, which we treat as no match rather than a failure.
	if resp.Code != "OK" || resp.Total == 0 || len(resp.Items) == 0 {
		return nil, domain.ErrNoMatch
	}

	item := resp.Items[0]
	name := strings.TrimSpace(item.Title)
	if name == "" {
		return nil, domain.ErrNoMatch
	}

	return &domain.LookupResult{
		Name:           name,
		Brand:          strings.TrimSpace(item.Brand),
		Category:       strings.TrimSpace(item.Category),
		Model:          strings.TrimSpace(item.Model),
		ConfidenceTier: domain.TierMedium,
		Source:         "upcitemdb",
	}, nil
}
