package dadata

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"addrsvc/config"
	"addrsvc/internal/domain/constants"
	"addrsvc/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(&config.DadataConfig{
		BaseURL:   server.URL,
		APIKey:    "test-key",
		SecretKey: "test-secret",
		Timeout:   5 * time.Second,
	}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Get(t *testing.T) {
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/suggest/address", r.URL.Path)
		assert.Equal(t, "Token test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "test-secret", r.Header.Get("X-Secret"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"suggestions":[
			{"value":"г Москва, ул Тверская, д 1","data":{"house":"1"}},
			{"value":"г Москва, ул Тверская, д 2","data":{"house":"2"}}
		]}`))
	})

	raw, err := client.Get(context.Background(), service.SearchQuery{
		Query:   "тверская 1",
		Helpers: map[string]string{"from_bound": "street"},
	})
	require.NoError(t, err)
	require.Len(t, raw, 2)

	assert.Equal(t, "тверская 1", gotBody["query"])
	assert.Equal(t, float64(defaultSuggestionCount), gotBody["count"])
	// Helpers ride along as top-level request fields.
	assert.Equal(t, "street", gotBody["from_bound"])
}

func TestClient_Get_NoAPIKey(t *testing.T) {
	client := New(&config.DadataConfig{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.Get(context.Background(), service.SearchQuery{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestClient_Get_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	})

	_, err := client.Get(context.Background(), service.SearchQuery{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_GetAddressByFiasID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/findById/address", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(1), body["count"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"suggestions":[{"value":"г Москва, ул Тверская, д 1"}]}`))
	})

	raw, err := client.GetAddressByFiasID(context.Background(), "0a1b2c3d-0000-4000-8000-000000000001")
	require.NoError(t, err)
	require.NotNil(t, raw)
	assert.Contains(t, string(raw), "Тверская")
}

func TestClient_GetAddressByFiasID_NoMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"suggestions":[]}`))
	})

	raw, err := client.GetAddressByFiasID(context.Background(), "0a1b2c3d-0000-4000-8000-000000000001")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestClient_GetByPlaceID_Unsupported(t *testing.T) {
	client := New(&config.DadataConfig{APIKey: "k"}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.GetByPlaceID(context.Background(), "ChIJ123")
	assert.ErrorIs(t, err, service.ErrUnsupportedLookup)
}

func TestClient_Capabilities(t *testing.T) {
	client := New(&config.DadataConfig{APIKey: "k"}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Equal(t, constants.DadataProvider, client.ProviderName())
	assert.True(t, client.SupportsFiasID())
	assert.False(t, client.SupportsPlaceID())
}

func TestClient_Normalize(t *testing.T) {
	client := New(&config.DadataConfig{APIKey: "k"}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	raw := []json.RawMessage{
		json.RawMessage(`{
			"value": "г Москва, ул Тверская, д 1",
			"unrestricted_value": "101000, г Москва, ул Тверская, д 1",
			"data": {
				"postal_code": "101000",
				"country": "Россия",
				"country_iso_code": "RU",
				"region": "Москва",
				"region_with_type": "г Москва",
				"city": "Москва",
				"street": "Тверская",
				"street_with_type": "ул Тверская",
				"house": "1",
				"house_fias_id": "0a1b2c3d-0000-4000-8000-000000000001",
				"fias_id": "0a1b2c3d-0000-4000-8000-000000000001",
				"fias_level": "8",
				"geo_lat": "55.757718",
				"geo_lon": "37.611633"
			}
		}`),
		json.RawMessage(`not json`),
	}

	results := client.Normalize(raw)
	require.Len(t, results, 2)

	first := results[0]
	require.NotNil(t, first)
	assert.Equal(t, "г Москва, ул Тверская, д 1", first.Value)
	assert.Equal(t, "101000, г Москва, ул Тверская, д 1", first.UnrestrictedValue)
	assert.Equal(t, "Россия", first.Data.Country)
	assert.Equal(t, "RU", first.Data.CountryISOCode)
	assert.Equal(t, "ул Тверская", first.Data.StreetWithType)
	assert.Equal(t, "1", first.Data.House)
	assert.Equal(t, "0a1b2c3d-0000-4000-8000-000000000001", first.Data.HouseFiasID)
	require.NotNil(t, first.Data.Geo)
	assert.InDelta(t, 37.611633, first.Data.Geo.Lon(), 1e-9)
	assert.InDelta(t, 55.757718, first.Data.Geo.Lat(), 1e-9)

	// An undecodable payload keeps its slot as a nil placeholder.
	assert.Nil(t, results[1])
}

func TestClient_Normalize_NoGeo(t *testing.T) {
	client := New(&config.DadataConfig{APIKey: "k"}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	results := client.Normalize([]json.RawMessage{
		json.RawMessage(`{"value":"г Москва","data":{"city":"Москва"}}`),
	})
	require.Len(t, results, 1)
	require.NotNil(t, results[0])
	assert.Nil(t, results[0].Data.Geo)
}
