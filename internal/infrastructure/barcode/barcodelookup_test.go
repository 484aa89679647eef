package barcode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warrantyhub/backend/internal/domain"
)

func TestNewBarcodeLookupClient(t *testing.T) {
	client := NewBarcodeLookupClient("test-api-key", "https://api.example.com")

	assert.NotNil(t, client)
	assert.Equal(t, "test-api-key", client.apiKey)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.Equal(t, "barcodelookup", client.Name())
	assert.Equal(t, domain.TierHigh, client.Tier())
}

func TestBarcodeLookup_Resolve_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/products", r.URL.Path)
		assert.Equal(t, "5901234123457", r.URL.Query().Get("barcode"))
		assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))

		response := blResponse{
			Products: []blProduct{
				{
					BarcodeNumber: "5901234123457",
					Title:         "Grandeur Cotton Hospitality 6-piece Towel Set",
					Brand:         "Grandeur",
					Category:      "Home & Garden > Linens & Bedding",
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewBarcodeLookupClient("test-api-key", server.URL)
	result, err := client.Resolve(context.Background(), "5901234123457")

	require.NoError(t, err)
	assert.Equal(t, "Grandeur Cotton Hospitality 6-piece Towel Set", result.Name)
	assert.Equal(t, "Grandeur", result.Brand)
	assert.Equal(t, domain.TierHigh, result.ConfidenceTier)
	assert.Equal(t, "barcodelookup", result.Source)
}

func TestBarcodeLookup_Resolve_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewBarcodeLookupClient("test-api-key", server.URL)
	_, err := client.Resolve(context.Background(), "5901234123457")

	assert.ErrorIs(t, err, domain.ErrNoMatch)
	assert.NotErrorIs(t, err, domain.ErrProviderTransient)
}

func TestBarcodeLookup_Resolve_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewBarcodeLookupClient("test-api-key", server.URL)
	_, err := client.Resolve(context.Background(), "5901234123457")

	assert.ErrorIs(t, err, domain.ErrProviderTransient)
}

func TestBarcodeLookup_Resolve_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer server.Close()

	client := NewBarcodeLookupClient("test-api-key", server.URL)
	_, err := client.Resolve(context.Background(), "5901234123457")

	assert.ErrorIs(t, err, domain.ErrProviderTransient)
}

func TestBarcodeLookup_Resolve_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewBarcodeLookupClient("test-api-key", server.URL)
	_, err := client.Resolve(context.Background(), "5901234123457")

	assert.ErrorIs(t, err, domain.ErrProviderTransient)
}

func TestMapBarcodeLookupResponse(t *testing.T) {
	tests := []struct {
		name      string
		resp      blResponse
		wantErr   error
		wantBrand string
	}{
		{
			name:    "empty product list is no match",
			resp:    blResponse{},
			wantErr: domain.ErrNoMatch,
		},
		{
			name: "blank title is no match, never a partial result",
			resp:    blResponse{Products: []blProduct{{Title: "   ", Brand: "Grandeur"}}},
			wantErr: domain.ErrNoMatch,
		},
		{
			name:      "manufacturer backfills absent brand",
			resp:      blResponse{Products: []blProduct{{Title: "Towel Set", Manufacturer: "Grandeur Textiles"}}},
			wantBrand: "Grandeur Textiles",
		},
		{
			name:      "brand present but empty still backfills",
			resp:      blResponse{Products: []blProduct{{Title: "Towel Set", Brand: "", Manufacturer: "Grandeur Textiles"}}},
			wantBrand: "Grandeur Textiles",
		},
		{
			name:      "brand wins over manufacturer",
			resp:      blResponse{Products: []blProduct{{Title: "Towel Set", Brand: "Grandeur", Manufacturer: "Grandeur Textiles"}}},
			wantBrand: "Grandeur",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := mapBarcodeLookupResponse(&tt.resp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBrand, result.Brand)
		})
	}
}
