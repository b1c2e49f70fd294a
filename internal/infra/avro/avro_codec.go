package avro

import (
	"fmt"
	"reflect"

	"github.com/hamba/avro/v2"

	"asset-server/internal/core/domain"
)

// Static Avro schemas for all published message types. Nullable fields use
// unions so optional domain attributes survive the round trip.
const (
	auditEntrySchema = `{
		"type": "record",
		"name": "AuditEntry",
		"fields": [
			{"name": "id", "type": "string"},
			{"name": "actor", "type": ["null", "string"]},
			{"name": "action", "type": "string"},
			{"name": "asset_id", "type": ["null", "long"]},
			{"name": "related_user", "type": ["null", "string"]},
			{"name": "details", "type": "string"},
			{"name": "metadata", "type": "string"},
			{"name": "timestamp", "type": {"type": "long", "logicalType": "timestamp-millis"}}
		]
	}`

	assetSchema = `{
		"type": "record",
		"name": "Asset",
		"fields": [
			{"name": "id", "type": "long"},
			{"name": "external_id", "type": "string"},
			{"name": "category_id", "type": "string"},
			{"name": "payload", "type": "string"},
			{"name": "status", "type": "string"},
			{"name": "assigned_to", "type": ["null", "string"]},
			{"name": "description", "type": "string"},
			{"name": "purchase_value", "type": ["null", "string"]},
			{"name": "purchase_date", "type": ["null", {"type": "long", "logicalType": "timestamp-millis"}]},
			{"name": "depreciation_method", "type": ["null", "string"]},
			{"name": "useful_life_years", "type": ["null", "int"]},
			{"name": "version", "type": "long"},
			{"name": "created_at", "type": {"type": "long", "logicalType": "timestamp-millis"}},
			{"name": "updated_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
		]
	}`

	categorySchema = `{
		"type": "record",
		"name": "Category",
		"fields": [
			{"name": "id", "type": "string"},
			{"name": "name", "type": "string"},
			{"name": "fields", "type": "string"},
			{"name": "schema", "type": "string"},
			{"name": "version", "type": "long"},
			{"name": "created_at", "type": {"type": "long", "logicalType": "timestamp-millis"}},
			{"name": "updated_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
		]
	}`
)

// AvroCodec encodes messages with the static schemas above, with no registry
// round trip. The memory pubsub setup and tests use it.
type AvroCodec struct {
	prototype any
	schemas   map[string]avro.Schema
}

func NewAvroCodec(prototype any) *AvroCodec {
	schemas := make(map[string]avro.Schema)

	auditEntryAvroSchema, _ := avro.Parse(auditEntrySchema)
	assetAvroSchema, _ := avro.Parse(assetSchema)
	categoryAvroSchema, _ := avro.Parse(categorySchema)

	schemas["AuditEntry"] = auditEntryAvroSchema
	schemas["Asset"] = assetAvroSchema
	schemas["Category"] = categoryAvroSchema

	return &AvroCodec{
		prototype: prototype,
		schemas:   schemas,
	}
}

func (c *AvroCodec) Encode(value any) ([]byte, error) {
	avroValue, err := convertToAvroStruct(value)
	if err != nil {
		return nil, fmt.Errorf("converting to Avro struct: %w", err)
	}

	schemaName, err := schemaNameForMessage(value)
	if err != nil {
		return nil, err
	}

	schema, exists := c.schemas[schemaName]
	if !exists {
		return nil, fmt.Errorf("no Avro schema found for message type: %s", schemaName)
	}

	data, err := avro.Marshal(schema, avroValue)
	if err != nil {
		return nil, fmt.Errorf("marshaling to Avro: %w", err)
	}

	return data, nil
}

func (c *AvroCodec) Decode(data []byte) (any, error) {
	schemaName, err := schemaNameForMessage(c.prototype)
	if err != nil {
		return nil, err
	}

	schema, exists := c.schemas[schemaName]
	if !exists {
		return nil, fmt.Errorf("no Avro schema found for prototype type: %s", schemaName)
	}

	instance := newAvroInstance(c.prototype)
	if err := avro.Unmarshal(schema, data, instance); err != nil {
		return nil, fmt.Errorf("unmarshaling from Avro: %w", err)
	}

	return instance, nil
}

// schemaNameForMessage maps a message type, domain or Avro-compatible, to its
// schema name.
func schemaNameForMessage(message any) (string, error) {
	messageType := reflect.TypeOf(message)
	if messageType.Kind() == reflect.Ptr {
		messageType = messageType.Elem()
	}

	switch messageType.Name() {
	case "AuditEntry", "AvroAuditEntry":
		return "AuditEntry", nil
	case "Asset", "AvroAsset":
		return "Asset", nil
	case "Category", "AvroCategory":
		return "Category", nil
	default:
		return "", fmt.Errorf("no Avro schema found for message type: %s", messageType.Name())
	}
}

// convertToAvroStruct maps domain values onto their Avro-compatible structs.
// Already-converted values pass through untouched.
func convertToAvroStruct(value any) (any, error) {
	switch v := value.(type) {
	case *AvroAuditEntry, *AvroAsset, *AvroCategory:
		return v, nil
	case AvroAuditEntry:
		return &v, nil
	case AvroAsset:
		return &v, nil
	case AvroCategory:
		return &v, nil
	case domain.AuditEntry:
		return ToAvroAuditEntry(v), nil
	case *domain.AuditEntry:
		return ToAvroAuditEntry(*v), nil
	case domain.Asset:
		return ToAvroAsset(v), nil
	case *domain.Asset:
		return ToAvroAsset(*v), nil
	case domain.Category:
		return ToAvroCategory(v), nil
	case *domain.Category:
		return ToAvroCategory(*v), nil
	default:
		return nil, fmt.Errorf("unsupported message type for Avro conversion: %T", value)
	}
}

// newAvroInstance allocates the Avro-compatible struct decoding should fill,
// based on the configured prototype.
func newAvroInstance(prototype any) any {
	switch prototype.(type) {
	case *AvroAsset, domain.Asset, *domain.Asset, AvroAsset:
		return &AvroAsset{}
	case *AvroCategory, domain.Category, *domain.Category, AvroCategory:
		return &AvroCategory{}
	default:
		return &AvroAuditEntry{}
	}
}
