package avro

import (
	"encoding/json"
	"time"

	"asset-server/internal/core/domain"
)

// Avro-compatible message structs matching the registered schemas. Open-ended
// maps (payloads, metadata, schema snapshots) travel as JSON strings so the
// Avro schemas stay flat.

type AvroAuditEntry struct {
	ID          string    `avro:"id"`
	Actor       *string   `avro:"actor"`
	Action      string    `avro:"action"`
	AssetID     *int64    `avro:"asset_id"`
	RelatedUser *string   `avro:"related_user"`
	Details     string    `avro:"details"`
	Metadata    string    `avro:"metadata"`
	Timestamp   time.Time `avro:"timestamp"`
}

type AvroAsset struct {
	ID                 int64      `avro:"id"`
	ExternalID         string     `avro:"external_id"`
	CategoryID         string     `avro:"category_id"`
	Payload            string     `avro:"payload"`
	Status             string     `avro:"status"`
	AssignedTo         *string    `avro:"assigned_to"`
	Description        string     `avro:"description"`
	PurchaseValue      *string    `avro:"purchase_value"`
	PurchaseDate       *time.Time `avro:"purchase_date"`
	DepreciationMethod *string    `avro:"depreciation_method"`
	UsefulLifeYears    *int       `avro:"useful_life_years"`
	Version            int64      `avro:"version"`
	CreatedAt          time.Time  `avro:"created_at"`
	UpdatedAt          time.Time  `avro:"updated_at"`
}

type AvroCategory struct {
	ID        string    `avro:"id"`
	Name      string    `avro:"name"`
	Fields    string    `avro:"fields"`
	Schema    string    `avro:"schema"`
	Version   int64     `avro:"version"`
	CreatedAt time.Time `avro:"created_at"`
	UpdatedAt time.Time `avro:"updated_at"`
}

// ToAvroAuditEntry converts a domain.AuditEntry for serialization.
func ToAvroAuditEntry(entry domain.AuditEntry) *AvroAuditEntry {
	avroEntry := &AvroAuditEntry{
		ID:        string(entry.ID),
		Action:    string(entry.Action),
		Details:   entry.Details,
		Metadata:  serializeToJSON(entry.Metadata),
		Timestamp: entry.Timestamp.Time,
	}

	if entry.Actor != nil {
		actor := string(*entry.Actor)
		avroEntry.Actor = &actor
	}
	if entry.AssetID != nil {
		assetID := int64(*entry.AssetID)
		avroEntry.AssetID = &assetID
	}
	if entry.RelatedUser != nil {
		relatedUser := string(*entry.RelatedUser)
		avroEntry.RelatedUser = &relatedUser
	}

	return avroEntry
}

// ToAvroAsset converts a domain.Asset for serialization.
func ToAvroAsset(asset domain.Asset) *AvroAsset {
	avroAsset := &AvroAsset{
		ID:          int64(asset.ID),
		ExternalID:  string(asset.ExternalID),
		CategoryID:  string(asset.CategoryID),
		Payload:     serializeToJSON(asset.Payload),
		Status:      string(asset.Status),
		Description: asset.Description,
		Version:     int64(asset.Version),
		CreatedAt:   asset.CreatedAt.Time,
		UpdatedAt:   asset.UpdatedAt.Time,
	}

	if asset.AssignedTo != nil {
		assignedTo := string(*asset.AssignedTo)
		avroAsset.AssignedTo = &assignedTo
	}
	if asset.Purchase != nil {
		value := asset.Purchase.Value.String()
		date := asset.Purchase.Date
		method := asset.Purchase.DepreciationMethod
		years := asset.Purchase.UsefulLifeYears
		avroAsset.PurchaseValue = &value
		avroAsset.PurchaseDate = &date
		avroAsset.DepreciationMethod = &method
		avroAsset.UsefulLifeYears = &years
	}

	return avroAsset
}

// ToAvroCategory converts a domain.Category for serialization.
func ToAvroCategory(category domain.Category) *AvroCategory {
	return &AvroCategory{
		ID:        string(category.ID),
		Name:      category.Name,
		Fields:    serializeToJSON(category.Fields),
		Schema:    serializeToJSON(category.Schema),
		Version:   int64(category.Version),
		CreatedAt: category.CreatedAt.Time,
		UpdatedAt: category.UpdatedAt.Time,
	}
}

func serializeToJSON(value any) string {
	if value == nil {
		return "{}"
	}

	data, err := json.Marshal(value)
	if err != nil {
		return "{}"
	}

	return string(data)
}
