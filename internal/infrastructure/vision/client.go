// Package vision contains the client for the image-identification provider.
package vision

import (
	"bytes"
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

// defaultTimeout bounds a single inference call. Vision inference is markedly
// slower than the barcode providers.
const defaultTimeout = 30 * time.Second

// describePrompt asks the model for a strict JSON description of the product.
const describePrompt = `Identify the consumer product in this image. Respond with a JSON object ` +
	`with keys: name (string), brand (string), category (string), model (string), ` +
	`color (string), estimated_year (integer), confidence (number between 0 and 1). ` +
	`Use an empty string for any field you cannot determine. If no product is ` +
	`visible, set name to an empty string and confidence to 0.`

// Client handles communication with the vision inference API.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	timeout     time.Duration
}

// NewClient creates a new vision API client.
func NewClient(apiKey, baseURL, model string) *Client {
	// Keep a conservative ceiling on inference calls; they are paid per request
	limiter := rate.NewLimiter(rate.Limit(1), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		rateLimiter: limiter,
		timeout:     defaultTimeout,
	}
}

// chatRequest is the provider request envelope.
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat formatSpec    `json:"response_format"`
	MaxTokens      int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageRef `json:"image_url,omitempty"`
}

type imageRef struct {
	URL string `json:"url"`
}

type formatSpec struct {
	Type string `json:"type"`
}

// chatResponse is the provider response envelope.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// observationPayload is the JSON document the model is instructed to emit.
type observationPayload struct {
	Name          string  `json:"name"`
	Brand         string  `json:"brand"`
	Category      string  `json:"category"`
	Model         string  `json:"model"`
	Color         string  `json:"color"`
	EstimatedYear int     `json:"estimated_year"`
	Confidence    float64 `json:"confidence"`
}

// Describe sends the image to the vision model and returns the normalized
// observation. Quota rejections surface as domain.ErrQuotaExceeded; every
// other failure wraps domain.ErrVisionFailure.
func (c *Client) Describe(ctx context.Context, image string) (*domain.VisionObservation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrVisionFailure, err)
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: describePrompt},
					{Type: "image_url", ImageURL: &imageRef{URL: image}},
				},
			},
		},
		ResponseFormat: formatSpec{Type: "json_object"},
		MaxTokens:      300,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", domain.ErrVisionFailure, err)
	}

	reqURL := fmt.Sprintf("%s/v1/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVisionFailure, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[VISION] Request error: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrVisionFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		log.Printf("[VISION] Quota exceeded")
		return nil, domain.ErrQuotaExceeded
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		log.Printf("[VISION] API error - Status: %d, Body: %s", resp.StatusCode, string(respBody))
		return nil, fmt.Errorf("%w: status %d", domain.ErrVisionFailure, resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[VISION] JSON decode error: %v", err)
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrVisionFailure, err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrVisionFailure)
	}

	return mapObservation(parsed.Choices[0].Message.Content)
}

// mapObservation parses the model's JSON document into a VisionObservation.
// Confidence is clamped into [0,1]; the model is not trusted to respect the
// instructed range.
func mapObservation(content string) (*domain.VisionObservation, error) {
	var payload observationPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		log.Printf("[VISION] Malformed observation payload: %v", err)
		return nil, fmt.Errorf("%w: malformed observation: %v", domain.ErrVisionFailure, err)
	}

	confidence := payload.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &domain.VisionObservation{
		Name:          strings.TrimSpace(payload.Name),
		Brand:         strings.TrimSpace(payload.Brand),
		Category:      strings.TrimSpace(payload.Category),
		Model:         strings.TrimSpace(payload.Model),
		Color:         strings.TrimSpace(payload.Color),
		EstimatedYear: payload.EstimatedYear,
		Confidence:    confidence,
	}, nil
}
