package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"addrsvc/internal/delivery/http/response"
	"addrsvc/internal/domain/entity"
	"addrsvc/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const (
	headerSenderDv          = "X-Sender-Dv"
	headerSenderFingerprint = "X-Sender-Fingerprint"

	helpersParamPrefix = "helpers["

	defaultDv = 1
)

// AddressHandlerParams holds dependencies for AddressHandler, injected by Fx.
type AddressHandlerParams struct {
	fx.In

	SearchUC usecase.SearchUsecase
	Logger   *slog.Logger
}

// AddressHandler holds dependencies for address resolution handlers
type AddressHandler struct {
	searchUC usecase.SearchUsecase
	logger   *slog.Logger
}

// NewAddressHandler is the constructor for AddressHandler
func NewAddressHandler(params AddressHandlerParams) *AddressHandler {
	return &AddressHandler{
		searchUC: params.SearchUC,
		logger:   params.Logger,
	}
}

// SearchRequest represents the query parameters of a resolution request.
// Helper parameters ride along as `helpers[name]=value` and are collected
// separately.
type SearchRequest struct {
	Query    string `query:"s" validate:"required"`
	Geo      string `query:"geo"`
	Context  string `query:"context"`
	Provider string `query:"provider"`
}

// SearchResponse is the wire form of a resolved address.
type SearchResponse struct {
	ID      string             `json:"id"`
	Address string             `json:"address"`
	Key     string             `json:"key"`
	Meta    entity.AddressMeta `json:"meta"`
}

// Search resolves one raw query string to a stored address.
func (h *AddressHandler) Search(c echo.Context) error {
	var req SearchRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid search input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", "The 's' query parameter is required")
	}

	params := &usecase.SearchParams{
		Geo:        req.Geo,
		Context:    req.Context,
		Provider:   req.Provider,
		Helpers:    collectHelpers(c),
		Provenance: provenanceFromHeaders(c),
	}

	address, err := h.searchUC.Resolve(c.Request().Context(), req.Query, params)
	if err != nil {
		return err
	}
	if address == nil {
		return response.NotFound(c, "ADDRESS_NOT_FOUND", "Nothing resolved for the given query")
	}

	return response.Success(c, http.StatusOK, SearchResponse{
		ID:      address.ID.String(),
		Address: address.Address,
		Key:     address.Key,
		Meta:    address.Meta,
	}, "")
}

// HealthCheck responds with a simple liveness payload.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// collectHelpers gathers `helpers[name]=value` query parameters.
func collectHelpers(c echo.Context) map[string]string {
	var helpers map[string]string
	for name, values := range c.QueryParams() {
		if !strings.HasPrefix(name, helpersParamPrefix) || !strings.HasSuffix(name, "]") {
			continue
		}
		key := name[len(helpersParamPrefix) : len(name)-1]
		if key == "" || len(values) == 0 {
			continue
		}
		if helpers == nil {
			helpers = make(map[string]string)
		}
		helpers[key] = values[0]
	}

	return helpers
}

// provenanceFromHeaders builds the {dv, sender} stamp from request headers.
func provenanceFromHeaders(c echo.Context) entity.Provenance {
	dv := defaultDv
	if parsed, err := strconv.Atoi(c.Request().Header.Get(headerSenderDv)); err == nil && parsed > 0 {
		dv = parsed
	}

	fingerprint := c.Request().Header.Get(headerSenderFingerprint)
	if fingerprint == "" {
		fingerprint = "address-service"
	}

	return entity.Provenance{
		Dv: dv,
		Sender: entity.Sender{
			Dv:          dv,
			Fingerprint: fingerprint,
		},
	}
}
