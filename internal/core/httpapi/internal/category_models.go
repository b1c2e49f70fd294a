package internal

import (
	"time"

	"asset-server/internal/core/domain"
)

// Request models
type CategoryCreateRequest struct {
	Name   string                   `json:"name" validate:"required,min=1,max=100"`
	Fields []FieldDefinitionRequest `json:"fields,omitempty"`
}

type FieldDefinitionRequest struct {
	Key      string `json:"key" validate:"required"`
	Label    string `json:"label"`
	Type     string `json:"type" validate:"required,oneof=text number date"`
	Required bool   `json:"required"`
}

type FieldUpdateRequest struct {
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// Response models
type FieldDefinitionResponse struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type CategoryResponse struct {
	ID        string                    `json:"id"`
	Name      string                    `json:"name"`
	Fields    []FieldDefinitionResponse `json:"fields"`
	Schema    domain.SchemaSnapshot     `json:"schema"`
	Version   int                       `json:"version"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// Conversion functions
func ToCategoryResponse(category domain.Category) CategoryResponse {
	fields := make([]FieldDefinitionResponse, len(category.Fields))
	for i, field := range category.Fields {
		fields[i] = FieldDefinitionResponse{
			Key:      field.Key,
			Label:    field.Label,
			Type:     string(field.Type),
			Required: field.Required,
		}
	}

	return CategoryResponse{
		ID:        category.ID.String(),
		Name:      category.Name,
		Fields:    fields,
		Schema:    category.Schema,
		Version:   int(category.Version),
		CreatedAt: category.CreatedAt.Time,
		UpdatedAt: category.UpdatedAt.Time,
	}
}
