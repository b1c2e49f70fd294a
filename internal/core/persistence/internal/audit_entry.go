package internal

import (
	"encoding/json"
	"time"

	"asset-server/internal/core/domain"
	"asset-server/internal/infra/utils"

	"gorm.io/datatypes"
)

type AuditEntry struct {
	ID          string         `json:"id" gorm:"primaryKey"`
	Actor       *string        `json:"actor,omitempty" gorm:"index"`
	Action      string         `json:"action" gorm:"index;not null"`
	AssetID     *uint64        `json:"asset_id,omitempty" gorm:"index"`
	RelatedUser *string        `json:"related_user,omitempty"`
	Details     string         `json:"details"`
	Metadata    datatypes.JSON `json:"metadata"`
	Timestamp   time.Time      `json:"timestamp" gorm:"index"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}

func (e AuditEntry) ToDomain() domain.AuditEntry {
	var metadata map[string]any
	json.Unmarshal(e.Metadata, &metadata)

	entry := domain.AuditEntry{
		ID:        domain.ID(e.ID),
		Action:    domain.Action(e.Action),
		AssetID:   e.AssetID,
		Details:   e.Details,
		Metadata:  metadata,
		Timestamp: utils.Time{Time: e.Timestamp},
	}

	if e.Actor != nil {
		actor := domain.ID(*e.Actor)
		entry.Actor = &actor
	}
	if e.RelatedUser != nil {
		relatedUser := domain.ID(*e.RelatedUser)
		entry.RelatedUser = &relatedUser
	}

	return entry
}

func FromAuditEntry(value domain.AuditEntry) AuditEntry {
	metadata, _ := json.Marshal(value.Metadata)

	entity := AuditEntry{
		ID:        value.ID.String(),
		Action:    string(value.Action),
		AssetID:   value.AssetID,
		Details:   value.Details,
		Metadata:  metadata,
		Timestamp: value.Timestamp.Time,
	}

	if value.Actor != nil {
		actor := value.Actor.String()
		entity.Actor = &actor
	}
	if value.RelatedUser != nil {
		relatedUser := value.RelatedUser.String()
		entity.RelatedUser = &relatedUser
	}

	return entity
}
