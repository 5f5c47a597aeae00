// Package google implements the Google Places backend.
package google

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"addrsvc/config"
	"addrsvc/internal/domain/constants"
	"addrsvc/internal/domain/entity"
	"addrsvc/internal/domain/service"
	"addrsvc/internal/errors"
	"addrsvc/internal/infra/observability"

	"github.com/paulmach/orb"
)

const (
	defaultBaseURL  = "https://maps.googleapis.com/maps/api"
	defaultLanguage = "en"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
	statusNotFound    = "NOT_FOUND"
)

// detailsFields limits place details to basic-rate fields.
const detailsFields = "address_components,formatted_address,geometry,name,place_id,type,vicinity"

// Client talks to the Google Places API. Free-text search runs a text search
// and resolves every hit to its place details, so the raw payloads are always
// place objects regardless of the lookup path.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// New creates a Google Places client from configuration.
func New(cfg *config.GoogleConfig, metrics *observability.Metrics, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	language := cfg.Language
	if language == "" {
		language = defaultLanguage
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		language:   language,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		metrics:    metrics,
		logger:     logger,
	}
}

// ProviderName returns the stable identifier stored in meta.provider.name.
func (c *Client) ProviderName() string {
	return constants.GoogleProvider
}

// Get performs a text search and expands each hit into its place details.
func (c *Client) Get(ctx context.Context, q service.SearchQuery) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("query", q.Query)
	params.Set("key", c.apiKey)
	params.Set("language", c.language)

	var decoded struct {
		Status  string `json:"status"`
		Results []struct {
			PlaceID string `json:"place_id"`
		} `json:"results"`
	}
	if err := c.get(ctx, "/place/textsearch/json", params, "suggest", &decoded); err != nil {
		return nil, err
	}
	if decoded.Status != statusOK {
		if decoded.Status == statusZeroResults {
			c.metrics.ObserveProviderRequest(constants.GoogleProvider, "suggest", "empty")

			return nil, nil
		}

		return nil, errors.Errorf("google textsearch returned status %s", decoded.Status)
	}
	c.metrics.ObserveProviderRequest(constants.GoogleProvider, "suggest", "success")

	places := make([]json.RawMessage, 0, len(decoded.Results))
	for _, result := range decoded.Results {
		if result.PlaceID == "" {
			continue
		}

		place, err := c.GetByPlaceID(ctx, result.PlaceID)
		if err != nil {
			return nil, err
		}
		if place != nil {
			places = append(places, place)
		}
	}

	return places, nil
}

// GetAddressByFiasID is not served by Google.
func (c *Client) GetAddressByFiasID(_ context.Context, _ string) (json.RawMessage, error) {
	return nil, service.ErrUnsupportedLookup
}

// GetByPlaceID fetches a single raw place object by its place id.
func (c *Client) GetByPlaceID(ctx context.Context, placeID string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)
	params.Set("key", c.apiKey)
	params.Set("language", c.language)

	var decoded struct {
		Status string          `json:"status"`
		Result json.RawMessage `json:"result"`
	}
	if err := c.get(ctx, "/place/details/json", params, "place", &decoded); err != nil {
		return nil, err
	}

	switch decoded.Status {
	case statusOK:
		c.metrics.ObserveProviderRequest(constants.GoogleProvider, "place", "success")

		return decoded.Result, nil
	case statusZeroResults, statusNotFound:
		c.metrics.ObserveProviderRequest(constants.GoogleProvider, "place", "empty")

		return nil, nil
	default:
		return nil, errors.Errorf("google place details returned status %s", decoded.Status)
	}
}

func (c *Client) SupportsFiasID() bool { return false }

func (c *Client) SupportsPlaceID() bool { return true }

// Normalize maps raw place objects onto the common shape, index for index.
func (c *Client) Normalize(raw []json.RawMessage) []*entity.NormalizedResult {
	results := make([]*entity.NormalizedResult, len(raw))
	for i, payload := range raw {
		var p place
		if err := json.Unmarshal(payload, &p); err != nil {
			c.logger.Warn("failed to decode google place", slog.Any("error", err))

			continue
		}

		results[i] = &entity.NormalizedResult{
			Value:             p.FormattedAddress,
			UnrestrictedValue: p.FormattedAddress,
			Data:              p.toAddressData(),
		}
	}

	return results
}

func (c *Client) get(ctx context.Context, path string, params url.Values, op string, out any) error {
	if c.apiKey == "" {
		return errors.New("google api key is not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, "failed to create google request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveProviderRequest(constants.GoogleProvider, op, "error")

		return errors.Wrap(err, "google request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ObserveProviderRequest(constants.GoogleProvider, op, "error")

		return errors.Errorf("google responded with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.ObserveProviderRequest(constants.GoogleProvider, op, "error")

		return errors.Wrap(err, "failed to decode google response")
	}

	return nil
}

// place is the wire shape of one place details object.
type place struct {
	PlaceID           string `json:"place_id"`
	FormattedAddress  string `json:"formatted_address"`
	AddressComponents []struct {
		LongName  string   `json:"long_name"`
		ShortName string   `json:"short_name"`
		Types     []string `json:"types"`
	} `json:"address_components"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

// toAddressData projects Google address components onto the common shape.
// The "political" type is decorative and skipped; the first component seen
// for a type wins.
func (p place) toAddressData() entity.AddressData {
	long := make(map[string]string)
	short := make(map[string]string)
	for _, component := range p.AddressComponents {
		for _, typ := range component.Types {
			if typ == "political" {
				continue
			}
			if _, seen := long[typ]; !seen {
				long[typ] = component.LongName
				short[typ] = component.ShortName
			}
		}
	}

	point := orb.Point{p.Geometry.Location.Lng, p.Geometry.Location.Lat}

	return entity.AddressData{
		PostalCode:     long["postal_code"],
		Country:        long["country"],
		CountryISOCode: short["country"],

		Region:         long["administrative_area_level_1"],
		RegionWithType: long["administrative_area_level_1"],

		Area:         long["administrative_area_level_2"],
		AreaWithType: long["administrative_area_level_2"],

		City:         long["locality"],
		CityWithType: long["locality"],
		CityDistrict: long["administrative_area_level_3"],

		Street:         long["route"],
		StreetWithType: long["route"],

		House: long["street_number"],

		PlaceID: p.PlaceID,
		Geo:     &point,
	}
}
