package httpapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"asset-server/internal/core/domain"
	"asset-server/internal/core/httpapi/internal"
	"asset-server/internal/core/usecases"
	"asset-server/internal/infra/httpserver"
)

const listAuditEntriesErrMessage = "failed to list audit entries"

func NewAuditController(service usecases.AuditService) *AuditController {
	return &AuditController{
		service: service,
	}
}

var _ httpserver.Controller = &AuditController{}

type AuditController struct {
	service usecases.AuditService
}

func (c *AuditController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/audit-entries", c.listEntries())
}

func (c *AuditController) listEntries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := auditFilterFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		params := httpserver.ExtractPaginationParams(r)
		pagination := usecases.Pagination{Limit: params.Limit, Offset: (params.Page - 1) * params.Limit}

		entries, total, err := c.service.Query(r.Context(), filter, pagination)
		if err != nil {
			slog.Error("listing audit entries", slog.String("error", err.Error()))
			http.Error(w, listAuditEntriesErrMessage, http.StatusInternalServerError)
			return
		}

		responses := make([]internal.AuditEntryResponse, len(entries))
		for i, entry := range entries {
			responses[i] = internal.ToAuditEntryResponse(entry)
		}

		httpserver.ReplyWithPaginatedData(w, http.StatusOK, responses, total, params)
	}
}

func auditFilterFromRequest(r *http.Request) (usecases.AuditFilter, error) {
	filter := usecases.AuditFilter{
		Actor:  domain.ID(httpserver.GetQueryParam(r, "actor")),
		Action: domain.Action(httpserver.GetQueryParam(r, "action")),
		Search: httpserver.GetQueryParam(r, "q"),
	}

	if raw := httpserver.GetQueryParam(r, "asset_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return usecases.AuditFilter{}, err
		}
		filter.AssetID = id
	}

	if raw := httpserver.GetQueryParam(r, "from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return usecases.AuditFilter{}, err
		}
		filter.From = &from
	}

	if raw := httpserver.GetQueryParam(r, "to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return usecases.AuditFilter{}, err
		}
		filter.To = &to
	}

	return filter, nil
}
