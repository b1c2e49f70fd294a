package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"asset-server/internal/core/domain"
	"asset-server/internal/infra/async"
	"asset-server/internal/infra/pubsub"
)

// ActivityTopic is the internal broker topic carrying live audit entries to
// dashboard subscribers.
const ActivityTopic async.BrokerTopicName = "audit-activity"

func NewAuditService(
	repository AuditRepository,
	broker async.InternalBroker,
	publisher pubsub.Publisher,
) *SimpleAuditService {
	return &SimpleAuditService{
		repository: repository,
		broker:     broker,
		publisher:  publisher,
	}
}

var _ AuditService = (*SimpleAuditService)(nil)

// SimpleAuditService appends audit entries and serves the query side.
//
// Durability policy: entries attached to an asset mutation are persisted in
// the mutation's own transaction by the asset repository; standalone
// entries (scans, exports, worker findings) are persisted synchronously
// here. Announce is the best-effort side channel: it feeds the live
// activity websocket and the kafka stream, and its failures never fail the
// operation being audited.
type SimpleAuditService struct {
	repository AuditRepository
	broker     async.InternalBroker
	publisher  pubsub.Publisher
}

func (s *SimpleAuditService) Record(ctx context.Context, entry domain.AuditEntry) error {
	if entry.Action == "" {
		return domain.ErrMissingAction
	}

	if err := s.repository.Append(ctx, entry); err != nil {
		slog.Error("appending audit entry",
			slog.String("action", string(entry.Action)),
			slog.String("error", err.Error()))
		return fmt.Errorf("appending audit entry: %w", err)
	}

	s.Announce(ctx, entry)
	return nil
}

// Announce publishes an already-persisted entry to the live feed and the
// kafka stream. Best-effort only.
func (s *SimpleAuditService) Announce(ctx context.Context, entry domain.AuditEntry) {
	if s.broker != nil {
		err := s.broker.Publish(ctx, ActivityTopic, async.BrokerMessage{
			Event: string(entry.Action),
			Value: entry,
		})
		if err != nil && !errors.Is(err, async.ErrTopicNotFound) {
			slog.Warn("publishing activity message", slog.String("error", err.Error()))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, pubsub.Key(entry.ID), entry); err != nil {
			slog.Warn("publishing audit entry to stream", slog.String("error", err.Error()))
		}
	}
}

func (s *SimpleAuditService) Query(ctx context.Context, filter AuditFilter, pagination Pagination) ([]domain.AuditEntry, int, error) {
	entries, total, err := s.repository.Query(ctx, filter, pagination)
	if err != nil {
		slog.Error("querying audit entries", slog.String("error", err.Error()))
		return nil, 0, fmt.Errorf("querying audit entries: %w", err)
	}

	return entries, total, nil
}
