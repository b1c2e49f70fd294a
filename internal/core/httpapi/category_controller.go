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
	createCategoryErrMessage     = "failed to create category"
	categoryNotFoundErrMessage   = "category not found"
	categoryDuplicatedErrMessage = "category already exists"
	listCategoriesErrMessage     = "failed to list categories"
	getCategoryErrMessage        = "failed to get category"
	fieldNotFoundErrMessage      = "field not found"
	fieldDuplicatedErrMessage    = "field key already defined"
)

func NewCategoryController(service usecases.SchemaService) *CategoryController {
	return &CategoryController{
		service: service,
	}
}

var _ httpserver.Controller = &CategoryController{}

type CategoryController struct {
	service usecases.SchemaService
}

func (c *CategoryController) AddRoutes(router *http.ServeMux) {
	router.Handle("GET /v1/categories", c.listCategories())
	router.Handle("POST /v1/categories", c.createCategory())
	router.Handle("GET /v1/categories/{id}", c.getCategory())
	router.Handle("GET /v1/categories/{id}/schema", c.getSchema())
	router.Handle("POST /v1/categories/{id}/fields", c.defineField())
	router.Handle("PUT /v1/categories/{id}/fields/{key}", c.updateField())
	router.Handle("DELETE /v1/categories/{id}/fields/{key}", c.removeField())
}

func (c *CategoryController) listCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := c.service.ListCategories(r.Context())
		if err != nil {
			slog.Error("listing categories", slog.String("error", err.Error()))
			http.Error(w, listCategoriesErrMessage, http.StatusInternalServerError)
			return
		}

		responses := make([]internal.CategoryResponse, len(categories))
		for i, category := range categories {
			responses[i] = internal.ToCategoryResponse(category)
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, responses)
	}
}

func (c *CategoryController) createCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body internal.CategoryCreateRequest
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			slog.Error("decoding create category request", slog.String("error", err.Error()))
			http.Error(w, createCategoryErrMessage, http.StatusBadRequest)
			return
		}

		builder := domain.NewCategoryBuilder().WithName(body.Name)
		for _, field := range body.Fields {
			builder = builder.WithField(field.Key, field.Label, domain.FieldType(field.Type), field.Required)
		}
		category, err := builder.Build()
		if err != nil {
			slog.Error("building category", slog.String("error", err.Error()))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		err = c.service.CreateCategory(r.Context(), category)
		if errors.Is(err, usecases.ErrCategoryDuplicated) {
			http.Error(w, categoryDuplicatedErrMessage, http.StatusConflict)
			return
		}
		if err != nil {
			slog.Error("creating category", slog.String("error", err.Error()))
			http.Error(w, createCategoryErrMessage, http.StatusInternalServerError)
			return
		}

		response := internal.ToCategoryResponse(category)
		httpserver.ReplyJSONResponse(w, http.StatusCreated, response)
	}
}

func (c *CategoryController) getCategory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "category id is required", http.StatusBadRequest)
			return
		}

		category, err := c.service.GetCategory(r.Context(), domain.ID(id))
		if errors.Is(err, usecases.ErrCategoryNotFound) {
			http.Error(w, categoryNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("getting category", slog.String("error", err.Error()))
			http.Error(w, getCategoryErrMessage, http.StatusInternalServerError)
			return
		}

		response := internal.ToCategoryResponse(category)
		httpserver.ReplyJSONResponse(w, http.StatusOK, response)
	}
}

func (c *CategoryController) getSchema() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "category id is required", http.StatusBadRequest)
			return
		}

		schema, err := c.service.GetSchema(r.Context(), domain.ID(id))
		if errors.Is(err, usecases.ErrCategoryNotFound) {
			http.Error(w, categoryNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("getting schema", slog.String("error", err.Error()))
			http.Error(w, getCategoryErrMessage, http.StatusInternalServerError)
			return
		}

		httpserver.ReplyJSONResponse(w, http.StatusOK, schema)
	}
}

func (c *CategoryController) defineField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			http.Error(w, "category id is required", http.StatusBadRequest)
			return
		}

		var body internal.FieldDefinitionRequest
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			slog.Error("decoding define field request", slog.String("error", err.Error()))
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		field := domain.FieldDefinition{
			Key:      body.Key,
			Label:    body.Label,
			Type:     domain.FieldType(body.Type),
			Required: body.Required,
		}

		err = c.service.DefineField(r.Context(), domain.ID(id), field)
		if errors.Is(err, usecases.ErrCategoryNotFound) {
			http.Error(w, categoryNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrDuplicateFieldKey) {
			http.Error(w, fieldDuplicatedErrMessage, http.StatusConflict)
			return
		}
		if errors.Is(err, domain.ErrEmptyFieldKey) || errors.Is(err, domain.ErrInvalidFieldType) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			slog.Error("defining field", slog.String("error", err.Error()))
			http.Error(w, "failed to define field", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusCreated)
	}
}

func (c *CategoryController) updateField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		key := r.PathValue("key")
		if id == "" || key == "" {
			http.Error(w, "category id and field key are required", http.StatusBadRequest)
			return
		}

		var body internal.FieldUpdateRequest
		err := httpserver.DecodeJSONBody(r, &body)
		if err != nil {
			slog.Error("decoding update field request", slog.String("error", err.Error()))
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		err = c.service.UpdateField(r.Context(), domain.ID(id), key, body.Label, body.Required)
		if errors.Is(err, usecases.ErrCategoryNotFound) {
			http.Error(w, categoryNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrFieldNotFound) {
			http.Error(w, fieldNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("updating field", slog.String("error", err.Error()))
			http.Error(w, "failed to update field", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (c *CategoryController) removeField() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		key := r.PathValue("key")
		if id == "" || key == "" {
			http.Error(w, "category id and field key are required", http.StatusBadRequest)
			return
		}

		err := c.service.RemoveField(r.Context(), domain.ID(id), key)
		if errors.Is(err, usecases.ErrCategoryNotFound) {
			http.Error(w, categoryNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if errors.Is(err, domain.ErrFieldNotFound) {
			http.Error(w, fieldNotFoundErrMessage, http.StatusNotFound)
			return
		}
		if err != nil {
			slog.Error("removing field", slog.String("error", err.Error()))
			http.Error(w, "failed to remove field", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
