package google

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

const detailsPayload = `{
	"status": "OK",
	"result": {
		"place_id": "ChIJybDUc_xKtUYRTM9XV8zWRD0",
		"formatted_address": "Tverskaya St, 1, Moscow, Russia, 125009",
		"address_components": [
			{"long_name": "1", "short_name": "1", "types": ["street_number"]},
			{"long_name": "Tverskaya Street", "short_name": "Tverskaya St", "types": ["route"]},
			{"long_name": "Moscow", "short_name": "Moscow", "types": ["locality", "political"]},
			{"long_name": "Moscow", "short_name": "Moscow", "types": ["administrative_area_level_1", "political"]},
			{"long_name": "Russia", "short_name": "RU", "types": ["country", "political"]},
			{"long_name": "125009", "short_name": "125009", "types": ["postal_code"]}
		],
		"geometry": {"location": {"lat": 55.757718, "lng": 37.611633}}
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(&config.GoogleConfig{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Timeout: 5 * time.Second,
	}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Get_ExpandsHitsToDetails(t *testing.T) {
	var detailsCalls int

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/place/textsearch/json":
			assert.Equal(t, "Tverskaya 1 Moscow", r.URL.Query().Get("query"))
			assert.Equal(t, "test-key", r.URL.Query().Get("key"))
			assert.Equal(t, "en", r.URL.Query().Get("language"))

			_, _ = w.Write([]byte(`{"status":"OK","results":[{"place_id":"ChIJybDUc_xKtUYRTM9XV8zWRD0"}]}`))
		case "/place/details/json":
			detailsCalls++
			assert.Equal(t, "ChIJybDUc_xKtUYRTM9XV8zWRD0", r.URL.Query().Get("place_id"))
			assert.Equal(t, detailsFields, r.URL.Query().Get("fields"))

			_, _ = w.Write([]byte(detailsPayload))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	})

	raw, err := client.Get(context.Background(), service.SearchQuery{Query: "Tverskaya 1 Moscow"})
	require.NoError(t, err)
	require.Len(t, raw, 1)
	assert.Equal(t, 1, detailsCalls)
	assert.Contains(t, string(raw[0]), "formatted_address")
}

func TestClient_Get_ZeroResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})

	raw, err := client.Get(context.Background(), service.SearchQuery{Query: "nowhere"})
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestClient_Get_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED"}`))
	})

	_, err := client.Get(context.Background(), service.SearchQuery{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestClient_GetByPlaceID_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"NOT_FOUND"}`))
	})

	raw, err := client.GetByPlaceID(context.Background(), "ChIJ-stale")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestClient_GetAddressByFiasID_Unsupported(t *testing.T) {
	client := New(&config.GoogleConfig{APIKey: "k"}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.GetAddressByFiasID(context.Background(), "0a1b2c3d-0000-4000-8000-000000000001")
	assert.ErrorIs(t, err, service.ErrUnsupportedLookup)
}

func TestClient_NoAPIKey(t *testing.T) {
	client := New(&config.GoogleConfig{}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := client.Get(context.Background(), service.SearchQuery{Query: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestClient_Capabilities(t *testing.T) {
	client := New(&config.GoogleConfig{APIKey: "k"}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.Equal(t, constants.GoogleProvider, client.ProviderName())
	assert.False(t, client.SupportsFiasID())
	assert.True(t, client.SupportsPlaceID())
}

func TestClient_Normalize(t *testing.T) {
	client := New(&config.GoogleConfig{APIKey: "k"}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var wrapper struct {
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(detailsPayload), &wrapper))

	results := client.Normalize([]json.RawMessage{wrapper.Result})
	require.Len(t, results, 1)
	require.NotNil(t, results[0])

	result := results[0]
	assert.Equal(t, "Tverskaya St, 1, Moscow, Russia, 125009", result.Value)
	assert.Equal(t, "Russia", result.Data.Country)
	assert.Equal(t, "RU", result.Data.CountryISOCode)
	assert.Equal(t, "Moscow", result.Data.Region)
	assert.Equal(t, "Moscow", result.Data.City)
	assert.Equal(t, "Tverskaya Street", result.Data.Street)
	assert.Equal(t, "1", result.Data.House)
	assert.Equal(t, "125009", result.Data.PostalCode)
	assert.Equal(t, "ChIJybDUc_xKtUYRTM9XV8zWRD0", result.Data.PlaceID)
	require.NotNil(t, result.Data.Geo)
	assert.InDelta(t, 37.611633, result.Data.Geo.Lon(), 1e-9)
	assert.InDelta(t, 55.757718, result.Data.Geo.Lat(), 1e-9)
}

func TestClient_Normalize_BadPayload(t *testing.T) {
	client := New(&config.GoogleConfig{APIKey: "k"}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	results := client.Normalize([]json.RawMessage{json.RawMessage(`not json`)})
	require.Len(t, results, 1)
	assert.Nil(t, results[0])
}
