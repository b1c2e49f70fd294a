package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"asset-server/internal/core/domain"
	"asset-server/internal/core/httpapi/internal"
	"asset-server/internal/core/usecases"
	"asset-server/internal/infra/httpserver"
)

const (
	importAssetsErrMessage = "failed to import assets"
	exportAssetsErrMessage = "failed to export assets"
)

func NewImportController(service usecases.ImportService) *ImportController {
	return &ImportController{
		service: service,
	}
}

var _ httpserver.Controller = &ImportController{}

type ImportController struct {
	service usecases.ImportService
}

func (c *ImportController) AddRoutes(router *http.ServeMux) {
	router.Handle("POST /v1/categories/{id}/import", c.importAssets())
	router.Handle("GET /v1/categories/{id}/export", c.exportAssets())
}

func (c *ImportController) importAssets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "category id is required", http.StatusBadRequest)
			return
		}

		report, err := c.service.Import(r.Context(), domain.ID(id), r.Body, actorFromRequest(r))
		if errors.Is(err, usecases.ErrCategoryNotFound) {
			http.Error(w, categoryNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("importing assets", slog.String("category_id", id), slog.String("error", err.Error()))
			http.Error(w, importAssetsErrMessage, http.StatusInternalServerError)
			return
		}

		response := internal.ToImportReportResponse(report)
		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

func (c *ImportController) exportAssets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "category id is required", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="assets.csv"`)

		err := c.service.Export(r.Context(), domain.ID(id), w, actorFromRequest(r))
		if errors.Is(err, usecases.ErrCategoryNotFound) {
			http.Error(w, categoryNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("exporting assets", slog.String("category_id", id), slog.String("error", err.Error()))
			http.Error(w, exportAssetsErrMessage, http.StatusInternalServerError)
			return
		}
	}
}
