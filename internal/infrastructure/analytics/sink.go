// Package analytics ships identification-attempt records to the analytics
// endpoint. Records are write-only from this service's point of view.
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/warrantyhub/backend/internal/domain"
)

// HTTPSink posts identification records to an analytics collector endpoint.
type HTTPSink struct {
	httpClient *http.Client
	endpoint   string
}

// NewHTTPSink creates a sink posting to the given endpoint.
func NewHTTPSink(endpoint string) *HTTPSink {
	return &HTTPSink{
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		endpoint: endpoint,
	}
}

// Record implements domain.AnalyticsSink.
func (s *HTTPSink) Record(ctx context.Context, record *domain.IdentificationRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode analytics record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create analytics request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("post analytics record: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("analytics endpoint status %d", resp.StatusCode)
	}

	return nil
}

// NoopSink discards records. Used when no analytics endpoint is configured.
type NoopSink struct{}

// Record implements domain.AnalyticsSink.
func (s *NoopSink) Record(ctx context.Context, record *domain.IdentificationRecord) error {
	return nil
}
