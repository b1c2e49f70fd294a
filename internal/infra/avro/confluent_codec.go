package avro

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/hamba/avro/v2"
	"github.com/riferrei/srclient"

	"asset-server/internal/infra/cache"
)

const (
	_schemaCacheTTL = 5 * time.Minute
	_codecCacheTTL  = 5 * time.Minute
)

// SchemaRegistry is the subset of the Confluent registry client the codec
// needs.
type SchemaRegistry interface {
	GetLatestSchema(subject string) (*srclient.Schema, error)
	CreateSchema(subject string, schema string, schemaType srclient.SchemaType, references ...srclient.Reference) (*srclient.Schema, error)
	GetSchema(schemaID int) (*srclient.Schema, error)
}

var _ SchemaRegistry = (*srclient.SchemaRegistryClient)(nil)

// ConfluentAvroCodec frames messages in the Confluent wire format: one magic
// byte, a big-endian schema ID, then the Avro binary payload. Unregistered
// subjects get their static schema registered on first use.
type ConfluentAvroCodec struct {
	schemaRegistry SchemaRegistry
	subjectSuffix  string
	schemaIDCache  cache.Cache
	schemaCache    cache.Cache
}

func NewConfluentAvroCodec(_ any, schemaRegistry SchemaRegistry) (*ConfluentAvroCodec, error) {
	schemaIDCache, err := cache.New(&cache.Config{
		MaxCost:     1 << 20,
		NumCounters: 1e5,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating schema ID cache: %w", err)
	}

	schemaCache, err := cache.New(&cache.Config{
		MaxCost:     1 << 20,
		NumCounters: 1e5,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("creating schema cache: %w", err)
	}

	return &ConfluentAvroCodec{
		schemaRegistry: schemaRegistry,
		subjectSuffix:  "-value",
		schemaIDCache:  schemaIDCache,
		schemaCache:    schemaCache,
	}, nil
}

func (c *ConfluentAvroCodec) Encode(value any) ([]byte, error) {
	avroValue, err := convertToAvroStruct(value)
	if err != nil {
		return nil, fmt.Errorf("converting to Avro struct: %w", err)
	}

	schemaName, err := schemaNameForMessage(value)
	if err != nil {
		return nil, err
	}

	schemaID, err := c.getOrRegisterSchemaID(schemaName)
	if err != nil {
		return nil, fmt.Errorf("getting schema ID: %w", err)
	}

	schema, err := c.schemaByID(schemaID)
	if err != nil {
		return nil, fmt.Errorf("getting schema by ID: %w", err)
	}

	avroData, err := avro.Marshal(schema, avroValue)
	if err != nil {
		return nil, fmt.Errorf("encoding to Avro: %w", err)
	}

	result := make([]byte, 5+len(avroData))
	result[0] = 0 // Magic byte
	binary.BigEndian.PutUint32(result[1:5], uint32(schemaID))
	copy(result[5:], avroData)

	return result, nil
}

func (c *ConfluentAvroCodec) Decode(data []byte) (any, error) {
	if len(data) < 5 {
		return nil, fmt.Errorf("invalid Avro data: too short")
	}
	if data[0] != 0 {
		return nil, fmt.Errorf("invalid magic byte: expected 0, got %d", data[0])
	}

	schemaID := int(binary.BigEndian.Uint32(data[1:5]))
	schema, err := c.schemaByID(schemaID)
	if err != nil {
		return nil, fmt.Errorf("getting schema by ID: %w", err)
	}

	named, ok := schema.(avro.NamedSchema)
	if !ok {
		return nil, fmt.Errorf("schema %d is not a record schema", schemaID)
	}

	instance := newAvroInstanceForSchema(named.Name())
	if err := avro.Unmarshal(schema, data[5:], instance); err != nil {
		return nil, fmt.Errorf("decoding Avro data: %w", err)
	}

	return instance, nil
}

// getOrRegisterSchemaID resolves the subject's schema ID, registering the
// static schema when the registry has no version yet.
func (c *ConfluentAvroCodec) getOrRegisterSchemaID(schemaName string) (int, error) {
	ctx := context.Background()
	subject := subjectForSchema(schemaName) + c.subjectSuffix

	if cached, found := c.schemaIDCache.Get(ctx, subject); found {
		if id, ok := cached.(int); ok {
			return id, nil
		}
	}

	registered, err := c.schemaRegistry.GetLatestSchema(subject)
	if err == nil && registered != nil {
		c.schemaIDCache.Set(ctx, subject, registered.ID(), _schemaCacheTTL)
		return registered.ID(), nil
	}

	schemaText, err := staticSchemaText(schemaName)
	if err != nil {
		return 0, err
	}

	created, err := c.schemaRegistry.CreateSchema(subject, schemaText, srclient.Avro)
	if err != nil {
		return 0, fmt.Errorf("registering schema: %w", err)
	}

	c.schemaIDCache.Set(ctx, subject, created.ID(), _schemaCacheTTL)
	return created.ID(), nil
}

func (c *ConfluentAvroCodec) schemaByID(schemaID int) (avro.Schema, error) {
	ctx := context.Background()
	key := fmt.Sprintf("schema_%d", schemaID)

	if cached, found := c.schemaCache.Get(ctx, key); found {
		if schema, ok := cached.(avro.Schema); ok {
			return schema, nil
		}
	}

	registered, err := c.schemaRegistry.GetSchema(schemaID)
	if err != nil {
		return nil, fmt.Errorf("fetching schema from registry: %w", err)
	}

	schema, err := avro.Parse(registered.Schema())
	if err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}

	c.schemaCache.Set(ctx, key, schema, _codecCacheTTL)
	return schema, nil
}

func subjectForSchema(schemaName string) string {
	switch schemaName {
	case "AuditEntry":
		return "audit_entries"
	case "Asset":
		return "assets"
	case "Category":
		return "categories"
	default:
		return schemaName
	}
}

func staticSchemaText(schemaName string) (string, error) {
	switch schemaName {
	case "AuditEntry":
		return auditEntrySchema, nil
	case "Asset":
		return assetSchema, nil
	case "Category":
		return categorySchema, nil
	default:
		return "", fmt.Errorf("no static schema for %s", schemaName)
	}
}

func newAvroInstanceForSchema(schemaName string) any {
	switch schemaName {
	case "Asset":
		return &AvroAsset{}
	case "Category":
		return &AvroCategory{}
	default:
		return &AvroAuditEntry{}
	}
}
