package internal

import (
	"time"

	"asset-server/internal/core/domain"
)

type AuditEntryResponse struct {
	ID          string         `json:"id"`
	Actor       *string        `json:"actor,omitempty"`
	Action      string         `json:"action"`
	AssetID     *uint64        `json:"asset_id,omitempty"`
	RelatedUser *string        `json:"related_user,omitempty"`
	Details     string         `json:"details"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

func ToAuditEntryResponse(entry domain.AuditEntry) AuditEntryResponse {
	response := AuditEntryResponse{
		ID:        entry.ID.String(),
		Action:    string(entry.Action),
		AssetID:   entry.AssetID,
		Details:   entry.Details,
		Metadata:  entry.Metadata,
		Timestamp: entry.Timestamp.Time,
	}

	if entry.Actor != nil {
		actor := entry.Actor.String()
		response.Actor = &actor
	}
	if entry.RelatedUser != nil {
		related := entry.RelatedUser.String()
		response.RelatedUser = &related
	}

	return response
}
