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

func TestNewOpenFoodFactsClient(t *testing.T) {
	client := NewOpenFoodFactsClient("https://world.example.org")

	assert.NotNil(t, client)
	assert.Equal(t, "openfoodfacts", client.Name())
	assert.Equal(t, domain.TierMedium, client.Tier())
}

func TestOpenFoodFacts_Resolve_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/product/3017620422003.json", r.URL.Path)

		response := offResponse{
			Status: 1,
			Product: &offProduct{
				ProductName: "Nutella Hazelnut Spread",
				Brands:      "Nutella,Ferrero",
				Categories:  "Spreads,Sweet spreads,Hazelnut spreads",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewOpenFoodFactsClient(server.URL)
	result, err := client.Resolve(context.Background(), "3017620422003")

	require.NoError(t, err)
	assert.Equal(t, "Nutella Hazelnut Spread", result.Name)
	assert.Equal(t, "Nutella", result.Brand, "first entry of the brand list is canonical")
	assert.Equal(t, "Spreads", result.Category)
	assert.Equal(t, domain.TierMedium, result.ConfidenceTier)
	assert.Equal(t, "openfoodfacts", result.Source)
}

func TestOpenFoodFacts_Resolve_UnknownCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(offResponse{Status: 0})
	}))
	defer server.Close()

	client := NewOpenFoodFactsClient(server.URL)
	_, err := client.Resolve(context.Background(), "0000000000000")

	assert.ErrorIs(t, err, domain.ErrNoMatch)
}

func TestOpenFoodFacts_Resolve_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewOpenFoodFactsClient(server.URL)
	_, err := client.Resolve(context.Background(), "3017620422003")

	assert.ErrorIs(t, err, domain.ErrProviderTransient)
}

func TestMapOpenFoodFactsResponse(t *testing.T) {
	tests := []struct {
		name    string
		resp    offResponse
		wantErr error
	}{
		{
			name:    "status zero is no match",
			resp:    offResponse{Status: 0},
			wantErr: domain.ErrNoMatch,
		},
		{
			name:    "status one without product object is no match",
			resp:    offResponse{Status: 1, Product: nil},
			wantErr: domain.ErrNoMatch,
		},
		{
			name:    "product without a name is no match",
			resp:    offResponse{Status: 1, Product: &offProduct{Brands: "Ferrero"}},
			wantErr: domain.ErrNoMatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mapOpenFoodFactsResponse(&tt.resp)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFirstListEntry(t *testing.T) {
	assert.Equal(t, "Nutella", firstListEntry("Nutella,Ferrero"))
	assert.Equal(t, "Nutella", firstListEntry(" Nutella "))
	assert.Equal(t, "", firstListEntry(""))
	assert.Equal(t, "", firstListEntry(" , Ferrero"))
}
