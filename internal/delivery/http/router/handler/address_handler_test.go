package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"addrsvc/internal/delivery/http/validator"
	"addrsvc/internal/domain/entity"
	"addrsvc/internal/usecase"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSearch records the last Resolve call and replies with fixed values.
type stubSearch struct {
	address *entity.Address
	err     error

	gotQuery  string
	gotParams *usecase.SearchParams
}

func (s *stubSearch) Resolve(_ context.Context, query string, params *usecase.SearchParams) (*entity.Address, error) {
	s.gotQuery = query
	s.gotParams = params

	return s.address, s.err
}

func newSearchContext(t *testing.T, target string, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAddressHandler_Search(t *testing.T) {
	resolved := &entity.Address{
		ID:      uuid.New(),
		Address: gofakeit.Address().Address,
		Key:     "rossiia-moskva-moskva-tverskaia-1",
	}
	stub := &stubSearch{address: resolved}
	h := NewAddressHandler(AddressHandlerParams{
		SearchUC: stub,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	query := url.Values{}
	query.Set("s", "г Москва, ул Тверская, 1")
	query.Set("geo", "ru")
	query.Set("provider", "dadata")
	query.Set("helpers[from_bound]", "street")
	c, rec := newSearchContext(t, "/search?"+query.Encode(), map[string]string{
		"X-Sender-Dv":          "3",
		"X-Sender-Fingerprint": "condo-app",
	})

	require.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool           `json:"success"`
		Data    SearchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, resolved.ID.String(), body.Data.ID)
	assert.Equal(t, resolved.Key, body.Data.Key)

	assert.Equal(t, "г Москва, ул Тверская, 1", stub.gotQuery)
	require.NotNil(t, stub.gotParams)
	assert.Equal(t, "ru", stub.gotParams.Geo)
	assert.Equal(t, "dadata", stub.gotParams.Provider)
	assert.Equal(t, map[string]string{"from_bound": "street"}, stub.gotParams.Helpers)
	assert.Equal(t, 3, stub.gotParams.Provenance.Dv)
	assert.Equal(t, "condo-app", stub.gotParams.Provenance.Sender.Fingerprint)
}

func TestAddressHandler_Search_MissingQuery(t *testing.T) {
	stub := &stubSearch{}
	h := NewAddressHandler(AddressHandlerParams{
		SearchUC: stub,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	c, rec := newSearchContext(t, "/search", nil)

	require.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	// The usecase was never reached.
	assert.Empty(t, stub.gotQuery)
}

func TestAddressHandler_Search_NoMatch(t *testing.T) {
	stub := &stubSearch{}
	h := NewAddressHandler(AddressHandlerParams{
		SearchUC: stub,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	c, rec := newSearchContext(t, "/search?s=nowhere+at+all", nil)

	require.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ADDRESS_NOT_FOUND")
}

func TestAddressHandler_Search_UsecaseErrorBubbles(t *testing.T) {
	stub := &stubSearch{err: assert.AnError}
	h := NewAddressHandler(AddressHandlerParams{
		SearchUC: stub,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	c, _ := newSearchContext(t, "/search?s=q", nil)

	// Backend failures go to the central error handler untouched.
	assert.ErrorIs(t, h.Search(c), assert.AnError)
}

func TestAddressHandler_DefaultProvenance(t *testing.T) {
	stub := &stubSearch{address: &entity.Address{ID: uuid.New()}}
	h := NewAddressHandler(AddressHandlerParams{
		SearchUC: stub,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	c, _ := newSearchContext(t, "/search?s=q", nil)

	require.NoError(t, h.Search(c))
	require.NotNil(t, stub.gotParams)
	assert.Equal(t, 1, stub.gotParams.Provenance.Dv)
	assert.Equal(t, "address-service", stub.gotParams.Provenance.Sender.Fingerprint)
}

func TestCollectHelpers(t *testing.T) {
	query := url.Values{}
	query.Set("s", gofakeit.StreetName())
	query.Set("helpers[tin]", "7707083893")
	query.Set("helpers[kpp]", "770701001")
	query.Set("helpers[]", "dropped")
	query.Set("helpers[broken", "dropped")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/search?"+query.Encode(), nil)
	c := e.NewContext(req, httptest.NewRecorder())

	helpers := collectHelpers(c)
	assert.Equal(t, map[string]string{
		"tin": "7707083893",
		"kpp": "770701001",
	}, helpers)
}

func TestHealthCheck(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, HealthCheck(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
