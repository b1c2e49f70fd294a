package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"asset-server/internal/core/domain"
	"asset-server/internal/core/httpapi/internal"
	"asset-server/internal/core/usecases"
	"asset-server/internal/infra/httpserver"
)

const (
	createAssetErrMessage   = "failed to create asset"
	updateAssetErrMessage   = "failed to update asset"
	assetNotFoundErrMessage = "asset not found"
	listAssetsErrMessage    = "failed to list assets"
	getAssetErrMessage      = "failed to get asset"
	invalidAssetIDMessage   = "invalid asset id"
)

func NewAssetController(service usecases.AssetService) *AssetController {
	return &AssetController{
		service: service,
	}
}

var _ httpserver.Controller = &AssetController{}

type AssetController struct {
	service usecases.AssetService
}

func (c *AssetController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/assets", c.listAssets())
	router.Handle("POST /v1/assets", c.createAsset())
	router.Handle("GET /v1/assets/scan", c.scanAsset())
	router.Handle("GET /v1/assets/{id}", c.getAsset())
	router.Handle("PUT /v1/assets/{id}", c.updateAsset())
}

func (c *AssetController) listAssets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := filterFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		params := httpserver.ExtractPaginationParams(r)
		pagination := usecases.Pagination{Limit: params.Limit, Offset: (params.Page - 1) * params.Limit}

		assets, total, err := c.service.ListAssets(r.Context(), filter, pagination)
		if errors.Is(err, usecases.ErrCategoryNotFound) {
			http.Error(w, categoryNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("listing assets", slog.String("error", err.Error()))
			http.Error(w, listAssetsErrMessage, http.StatusInternalServerError)
			return
		}

		responses := make([]internal.AssetResponse, len(assets))
		for i, asset := range assets {
			responses[i] = internal.ToAssetResponse(asset)
		}

		httpserver.ReplyWithPaginatedData(w, http.StatusOK, responses, total, params)
	}
}

func (c *AssetController) createAsset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.AssetCreateRequest
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			slog.Error("decoding create asset request", slog.String("error", err.Error()))
			http.Error(w, createAssetErrMessage, http.StatusBadRequest)
			return
		}

		if body.CategoryID == "" {
			http.Error(w, "category_id is required", http.StatusBadRequest)
			return
		}

		purchase, err := internal.ToPurchaseInput(body.Purchase)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		input := usecases.CreateAssetInput{
			CategoryID:  domain.ID(body.CategoryID),
			Status:      domain.Status(body.Status),
			Description: body.Description,
			Purchase:    purchase,
			Dynamic:     body.Dynamic,
			Actor:       actorFromRequest(r),
		}
		if body.AssignedTo != nil {
			assignee := domain.ID(*body.AssignedTo)
			input.AssignedTo = &assignee
		}

		asset, err := c.service.CreateAsset(r.Context(), input)
		var issues usecases.ValidationErrors
		if errors.As(err, &issues) {
			httpserver.ReplyJSONResponse(w, http.StatusBadRequest, internal.ToValidationErrorResponse(issues))
			return
		}
		if errors.Is(err, usecases.ErrCategoryNotFound) {
			http.Error(w, categoryNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if errors.Is(err, usecases.ErrUserNotFound) {
			http.Error(w, "assignee not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrInvalidStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			slog.Error("creating asset", slog.String("error", err.Error()))
			http.Error(w, createAssetErrMessage, http.StatusInternalServerError)
			return
		}

		response := internal.ToAssetResponse(asset)
		httpserver.ReplyJSONResponse(w, http.StatusCreated, response)
	}
}

func (c *AssetController) getAsset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, invalidAssetIDMessage, http.StatusBadRequest)
			return
		}

		asset, err := c.service.GetAsset(r.Context(), id)
		if errors.Is(err, usecases.ErrAssetNotFound) {
			http.Error(w, assetNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("getting asset", slog.String("error", err.Error()))
			http.Error(w, getAssetErrMessage, http.StatusInternalServerError)
			return
		}

		response := internal.ToAssetResponse(asset)
		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

func (c *AssetController) updateAsset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, invalidAssetIDMessage, http.StatusBadRequest)
			return
		}

		var body internal.AssetUpdateRequest
		err = httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			slog.Error("decoding update asset request", slog.String("error", err.Error()))
			http.Error(w, updateAssetErrMessage, http.StatusBadRequest)
			return
		}

		patch := usecases.AssetPatch{
			Description:     body.Description,
			ClearAssignment: body.ClearAssignment,
			Dynamic:         body.Dynamic,
			Actor:           actorFromRequest(r),
		}
		if body.Status != nil {
			status := domain.Status(*body.Status)
			patch.Status = &status
		}
		if body.AssignedTo != nil {
			assignee := domain.ID(*body.AssignedTo)
			patch.AssignedTo = &assignee
		}

		asset, err := c.service.UpdateAsset(r.Context(), id, patch)
		var issues usecases.ValidationErrors
		if errors.As(err, &issues) {
			httpserver.ReplyJSONResponse(w, http.StatusBadRequest, internal.ToValidationErrorResponse(issues))
			return
		}
		if errors.Is(err, usecases.ErrAssetNotFound) {
			http.Error(w, assetNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if errors.Is(err, usecases.ErrUserNotFound) {
			http.Error(w, "assignee not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrInvalidStatus) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			slog.Error("updating asset", slog.Uint64("asset_id", id), slog.String("error", err.Error()))
			http.Error(w, updateAssetErrMessage, http.StatusInternalServerError)
			return
		}

		response := internal.ToAssetResponse(asset)
		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

func (c *AssetController) scanAsset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := httpserver.GetQueryParam(r, "code")
		if code == "" {
			http.Error(w, "code is required", http.StatusBadRequest)
			return
		}

		asset, err := c.service.GetByScanCode(r.Context(), code, actorFromRequest(r))
		if errors.Is(err, domain.ErrInvalidScanCode) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, usecases.ErrAssetNotFound) {
			http.Error(w, assetNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("resolving scan code", slog.String("error", err.Error()))
			http.Error(w, getAssetErrMessage, http.StatusInternalServerError)
			return
		}

		response := internal.ToAssetResponse(asset)
		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

// filterFromRequest parses the query surface: core attributes plus repeated
// "field=key:value" dynamic criteria.
func filterFromRequest(r *http.Request) (usecases.AssetFilter, error) {
	filter := usecases.AssetFilter{
		CategoryID: domain.ID(httpserver.GetQueryParam(r, "category_id")),
		Search:     httpserver.GetQueryParam(r, "q"),
	}

	if raw := httpserver.GetQueryParam(r, "status"); raw != "" {
		status := domain.Status(raw)
		if !status.Valid() {
			return usecases.AssetFilter{}, errors.New("invalid status filter")
		}
		filter.Status = &status
	}

	if raw := httpserver.GetQueryParam(r, "assigned"); raw != "" {
		assigned := raw == "true"
		filter.Assigned = &assigned
	}

	if raw := httpserver.GetQueryParam(r, "warranty_within_days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 0 {
			return usecases.AssetFilter{}, errors.New("invalid warranty_within_days filter")
		}
		filter.WarrantyWithinDays = &days
	}

	for _, raw := range r.URL.Query()["field"] {
		key, value, found := strings.Cut(raw, ":")
		if !found || key == "" {
			continue
		}
		if filter.Dynamic == nil {
			filter.Dynamic = make(map[string]string)
		}
		filter.Dynamic[key] = value
	}

	return filter, nil
}
