package domain

import (
	"errors"
	"time"

	"asset-server/internal/infra/utils"
)

var (
	ErrDuplicateFieldKey = errors.New("field key already defined")
	ErrFieldNotFound     = errors.New("field not found")
	ErrInvalidFieldType  = errors.New("invalid field type")
	ErrEmptyFieldKey     = errors.New("field key must not be empty")
)

// FieldDefinition is one category-defined dynamic field. Key is the stable
// machine identifier used in asset payloads; it is unique within a category.
type FieldDefinition struct {
	Key      string
	Label    string
	Type     FieldType
	Required bool
}

// FieldSpec is the denormalized per-key metadata inside a schema snapshot.
type FieldSpec struct {
	Type     FieldType `json:"type"`
	Label    string    `json:"label"`
	Required bool      `json:"required"`
}

// SchemaSnapshot maps field key to its spec. It is derived from the field
// definitions and regenerated on every field edit, never patched in place.
type SchemaSnapshot map[string]FieldSpec

// Category groups assets sharing one dynamic field schema.
type Category struct {
	ID        ID
	Name      string
	Fields    []FieldDefinition
	Schema    SchemaSnapshot
	Version   Version
	CreatedAt utils.Time
	UpdatedAt utils.Time
}

// DefineField appends a new field definition and regenerates the snapshot.
func (c *Category) DefineField(key, label string, fieldType FieldType, required bool) error {
	if key == "" {
		return ErrEmptyFieldKey
	}
	if !fieldType.Valid() {
		return ErrInvalidFieldType
	}
	for _, f := range c.Fields {
		if f.Key == key {
			return ErrDuplicateFieldKey
		}
	}

	c.Fields = append(c.Fields, FieldDefinition{
		Key:      key,
		Label:    label,
		Type:     fieldType,
		Required: required,
	})
	c.RegenerateSchema()
	return nil
}

// UpdateField edits label and required-ness of an existing field. The key and
// type are immutable; historical payload values stay as written.
func (c *Category) UpdateField(key, label string, required bool) error {
	for i, f := range c.Fields {
		if f.Key == key {
			c.Fields[i].Label = label
			c.Fields[i].Required = required
			c.RegenerateSchema()
			return nil
		}
	}
	return ErrFieldNotFound
}

// RemoveField deletes a field definition and regenerates the snapshot.
// Existing asset payloads keep the removed key (accepted schema drift).
func (c *Category) RemoveField(key string) error {
	for i, f := range c.Fields {
		if f.Key == key {
			c.Fields = append(c.Fields[:i], c.Fields[i+1:]...)
			c.RegenerateSchema()
			return nil
		}
	}
	return ErrFieldNotFound
}

// RegenerateSchema rebuilds the snapshot from the current field definitions.
// It is deterministic and idempotent: with no intervening field edits the
// output is identical, including its serialized form.
func (c *Category) RegenerateSchema() {
	snapshot := make(SchemaSnapshot, len(c.Fields))
	for _, f := range c.Fields {
		snapshot[f.Key] = FieldSpec{
			Type:     f.Type,
			Label:    f.Label,
			Required: f.Required,
		}
	}
	c.Schema = snapshot
}

// FieldKeys returns the field keys in insertion order. Import and export
// column layout depends on this order being stable.
func (c *Category) FieldKeys() []string {
	keys := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		keys[i] = f.Key
	}
	return keys
}

func NewCategoryBuilder() *categoryBuilder {
	return &categoryBuilder{}
}

type categoryBuilder struct {
	actions []categoryHandler
}

type categoryHandler func(c *Category) error

var ErrEmptyCategoryName = errors.New("category name must not be empty")

func (b *categoryBuilder) WithName(value string) *categoryBuilder {
	b.actions = append(b.actions, func(c *Category) error {
		c.Name = value
		return nil
	})
	return b
}

func (b *categoryBuilder) WithField(key, label string, fieldType FieldType, required bool) *categoryBuilder {
	b.actions = append(b.actions, func(c *Category) error {
		return c.DefineField(key, label, fieldType, required)
	})
	return b
}

func (b *categoryBuilder) Build() (Category, error) {
	result := Category{
		ID:        ID(utils.GenerateUUID()),
		Version:   1,
		CreatedAt: utils.Time{Time: time.Now()},
		UpdatedAt: utils.Time{Time: time.Now()},
	}
	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return Category{}, err
		}
	}

	if result.Name == "" {
		return Category{}, ErrEmptyCategoryName
	}

	result.RegenerateSchema()
	return result, nil
}
