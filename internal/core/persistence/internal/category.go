package internal

import (
	"encoding/json"
	"time"

	"asset-server/internal/core/domain"
	"asset-server/internal/infra/utils"

	"gorm.io/datatypes"
)

// fieldDefinitionData is the persistable shape of one dynamic field
// definition inside the fields JSON column.
type fieldDefinitionData struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type Category struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"uniqueIndex;not null"`
	Fields    datatypes.JSON `json:"fields"`
	Schema    datatypes.JSON `json:"schema"`
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}

func (c Category) ToDomain() domain.Category {
	var fieldData []fieldDefinitionData
	json.Unmarshal(c.Fields, &fieldData)

	fields := make([]domain.FieldDefinition, len(fieldData))
	for i, f := range fieldData {
		fields[i] = domain.FieldDefinition{
			Key:      f.Key,
			Label:    f.Label,
			Type:     domain.FieldType(f.Type),
			Required: f.Required,
		}
	}

	var schema domain.SchemaSnapshot
	json.Unmarshal(c.Schema, &schema)

	return domain.Category{
		ID:        domain.ID(c.ID),
		Name:      c.Name,
		Fields:    fields,
		Schema:    schema,
		Version:   domain.Version(c.Version),
		CreatedAt: utils.Time{Time: c.CreatedAt},
		UpdatedAt: utils.Time{Time: c.UpdatedAt},
	}
}

func FromCategory(value domain.Category) Category {
	fieldData := make([]fieldDefinitionData, len(value.Fields))
	for i, f := range value.Fields {
		fieldData[i] = fieldDefinitionData{
			Key:      f.Key,
			Label:    f.Label,
			Type:     string(f.Type),
			Required: f.Required,
		}
	}

	fields, _ := json.Marshal(fieldData)
	schema, _ := json.Marshal(value.Schema)

	return Category{
		ID:        value.ID.String(),
		Name:      value.Name,
		Fields:    fields,
		Schema:    schema,
		Version:   int(value.Version),
		CreatedAt: value.CreatedAt.Time,
		UpdatedAt: value.UpdatedAt.Time,
	}
}
