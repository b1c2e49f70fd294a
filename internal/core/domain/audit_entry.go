package domain

import (
	"errors"
	"time"

	"asset-server/internal/infra/utils"
)

var ErrMissingAction = errors.New("audit entry requires an action")

// AuditEntry is one immutable record of a state-changing action. Everything
// except Action is optional; system actions carry no actor.
type AuditEntry struct {
	ID          ID
	Actor       *ID
	Action      Action
	AssetID     *uint64
	RelatedUser *ID
	Details     string
	Metadata    map[string]any
	Timestamp   utils.Time
}

func NewAuditEntryBuilder() *auditEntryBuilder {
	return &auditEntryBuilder{}
}

type auditEntryBuilder struct {
	actions []auditEntryHandler
}

type auditEntryHandler func(e *AuditEntry) error

func (b *auditEntryBuilder) WithActor(value *ID) *auditEntryBuilder {
	b.actions = append(b.actions, func(e *AuditEntry) error {
		e.Actor = value
		return nil
	})
	return b
}

func (b *auditEntryBuilder) WithAction(value Action) *auditEntryBuilder {
	b.actions = append(b.actions, func(e *AuditEntry) error {
		e.Action = value
		return nil
	})
	return b
}

func (b *auditEntryBuilder) WithAsset(value uint64) *auditEntryBuilder {
	b.actions = append(b.actions, func(e *AuditEntry) error {
		e.AssetID = &value
		return nil
	})
	return b
}

func (b *auditEntryBuilder) WithRelatedUser(value *ID) *auditEntryBuilder {
	b.actions = append(b.actions, func(e *AuditEntry) error {
		e.RelatedUser = value
		return nil
	})
	return b
}

func (b *auditEntryBuilder) WithDetails(value string) *auditEntryBuilder {
	b.actions = append(b.actions, func(e *AuditEntry) error {
		e.Details = value
		return nil
	})
	return b
}

func (b *auditEntryBuilder) WithMetadata(value map[string]any) *auditEntryBuilder {
	b.actions = append(b.actions, func(e *AuditEntry) error {
		e.Metadata = value
		return nil
	})
	return b
}

func (b *auditEntryBuilder) Build() (AuditEntry, error) {
	result := AuditEntry{
		ID:        ID(utils.GenerateUUID()),
		Metadata:  map[string]any{},
		Timestamp: utils.Time{Time: time.Now()},
	}
	for _, a := range b.actions {
		if err := a(&result); err != nil {
			return AuditEntry{}, err
		}
	}

	if result.Action == "" {
		return AuditEntry{}, ErrMissingAction
	}

	return result, nil
}
