// Package dadata implements the DaData suggestion API backend.
package dadata

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"addrsvc/config"
	"addrsvc/internal/domain/constants"
	"addrsvc/internal/domain/entity"
	"addrsvc/internal/domain/service"
	"addrsvc/internal/errors"
	"addrsvc/internal/infra/observability"

	"github.com/paulmach/orb"
)

const (
	defaultBaseURL         = "https://suggestions.dadata.ru/suggestions/api/4_1/rs"
	defaultSuggestionCount = 20
)

// Client talks to the DaData suggestion API. It serves free-text suggestions
// and FIAS id lookups; place ids belong to the Google address space.
type Client struct {
	baseURL    string
	apiKey     string
	secretKey  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// New creates a DaData client from configuration.
func New(cfg *config.DadataConfig, metrics *observability.Metrics, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// ProviderName returns the stable identifier stored in meta.provider.name.
func (c *Client) ProviderName() string {
	return constants.DadataProvider
}

// Get performs a free-text suggestion lookup.
func (c *Client) Get(ctx context.Context, q service.SearchQuery) ([]json.RawMessage, error) {
	body := map[string]any{
		"query": q.Query,
		"count": defaultSuggestionCount,
	}
	// Helper parameters pass through to the API verbatim (from_bound,
	// to_bound and friends).
	for name, value := range q.Helpers {
		body[name] = value
	}

	suggestions, err := c.post(ctx, "/suggest/address", "suggest", body)
	if err != nil {
		return nil, err
	}

	return suggestions, nil
}

// GetAddressByFiasID fetches a single raw payload by FIAS id.
func (c *Client) GetAddressByFiasID(ctx context.Context, fiasID string) (json.RawMessage, error) {
	suggestions, err := c.post(ctx, "/findById/address", "fias", map[string]any{
		"query": fiasID,
		"count": 1,
	})
	if err != nil {
		return nil, err
	}
	if len(suggestions) == 0 {
		return nil, nil
	}

	return suggestions[0], nil
}

// GetByPlaceID is not served by DaData.
func (c *Client) GetByPlaceID(_ context.Context, _ string) (json.RawMessage, error) {
	return nil, service.ErrUnsupportedLookup
}

func (c *Client) SupportsFiasID() bool { return true }

func (c *Client) SupportsPlaceID() bool { return false }

// Normalize maps raw DaData suggestions onto the common shape, index for
// index. A payload that fails to decode becomes a nil placeholder.
func (c *Client) Normalize(raw []json.RawMessage) []*entity.NormalizedResult {
	results := make([]*entity.NormalizedResult, len(raw))
	for i, payload := range raw {
		var s suggestion
		if err := json.Unmarshal(payload, &s); err != nil {
			c.logger.Warn("failed to decode dadata suggestion", slog.Any("error", err))

			continue
		}

		results[i] = &entity.NormalizedResult{
			Value:             s.Value,
			UnrestrictedValue: s.UnrestrictedValue,
			Data:              s.Data.toAddressData(),
		}
	}

	return results
}

func (c *Client) post(ctx context.Context, path, op string, body map[string]any) ([]json.RawMessage, error) {
	if c.apiKey == "" {
		return nil, errors.New("dadata api key is not set")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal dadata request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create dadata request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+c.apiKey)
	if c.secretKey != "" {
		req.Header.Set("X-Secret", c.secretKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveProviderRequest(constants.DadataProvider, op, "error")

		return nil, errors.Wrap(err, "dadata request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ObserveProviderRequest(constants.DadataProvider, op, "error")
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return nil, errors.Errorf("dadata responded with status %d: %s", resp.StatusCode, snippet)
	}

	var decoded struct {
		Suggestions []json.RawMessage `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.metrics.ObserveProviderRequest(constants.DadataProvider, op, "error")

		return nil, errors.Wrap(err, "failed to decode dadata response")
	}

	if len(decoded.Suggestions) == 0 {
		c.metrics.ObserveProviderRequest(constants.DadataProvider, op, "empty")
	} else {
		c.metrics.ObserveProviderRequest(constants.DadataProvider, op, "success")
	}

	return decoded.Suggestions, nil
}

// suggestion is the wire shape of one DaData answer.
type suggestion struct {
	Value             string      `json:"value"`
	UnrestrictedValue string      `json:"unrestricted_value"`
	Data              addressData `json:"data"`
}

// addressData carries the subset of DaData's ~80 address fields the pipeline
// uses. Geo coordinates arrive as strings.
type addressData struct {
	PostalCode     string `json:"postal_code"`
	Country        string `json:"country"`
	CountryISOCode string `json:"country_iso_code"`

	Region         string `json:"region"`
	RegionWithType string `json:"region_with_type"`
	RegionType     string `json:"region_type"`
	RegionFiasID   string `json:"region_fias_id"`

	Area         string `json:"area"`
	AreaWithType string `json:"area_with_type"`
	AreaFiasID   string `json:"area_fias_id"`

	City         string `json:"city"`
	CityWithType string `json:"city_with_type"`
	CityFiasID   string `json:"city_fias_id"`
	CityDistrict string `json:"city_district"`

	Settlement         string `json:"settlement"`
	SettlementWithType string `json:"settlement_with_type"`
	SettlementFiasID   string `json:"settlement_fias_id"`

	Street         string `json:"street"`
	StreetWithType string `json:"street_with_type"`
	StreetType     string `json:"street_type"`
	StreetFiasID   string `json:"street_fias_id"`

	House       string `json:"house"`
	HouseType   string `json:"house_type"`
	HouseFiasID string `json:"house_fias_id"`

	Block     string `json:"block"`
	BlockType string `json:"block_type"`

	Flat     string `json:"flat"`
	FlatType string `json:"flat_type"`

	FiasID    string `json:"fias_id"`
	FiasLevel string `json:"fias_level"`
	KladrID   string `json:"kladr_id"`

	GeoLat string `json:"geo_lat"`
	GeoLon string `json:"geo_lon"`
}

func (d addressData) toAddressData() entity.AddressData {
	data := entity.AddressData{
		PostalCode:     d.PostalCode,
		Country:        d.Country,
		CountryISOCode: d.CountryISOCode,

		Region:         d.Region,
		RegionWithType: d.RegionWithType,
		RegionType:     d.RegionType,
		RegionFiasID:   d.RegionFiasID,

		Area:         d.Area,
		AreaWithType: d.AreaWithType,
		AreaFiasID:   d.AreaFiasID,

		City:         d.City,
		CityWithType: d.CityWithType,
		CityFiasID:   d.CityFiasID,
		CityDistrict: d.CityDistrict,

		Settlement:         d.Settlement,
		SettlementWithType: d.SettlementWithType,
		SettlementFiasID:   d.SettlementFiasID,

		Street:         d.Street,
		StreetWithType: d.StreetWithType,
		StreetType:     d.StreetType,
		StreetFiasID:   d.StreetFiasID,

		House:       d.House,
		HouseType:   d.HouseType,
		HouseFiasID: d.HouseFiasID,

		Block:     d.Block,
		BlockType: d.BlockType,

		Flat:     d.Flat,
		FlatType: d.FlatType,

		FiasID:    d.FiasID,
		FiasLevel: d.FiasLevel,
		KladrID:   d.KladrID,
	}

	if lat, err := strconv.ParseFloat(d.GeoLat, 64); err == nil {
		if lon, err := strconv.ParseFloat(d.GeoLon, 64); err == nil {
			point := orb.Point{lon, lat}
			data.Geo = &point
		}
	}

	return data
}
