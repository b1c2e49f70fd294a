package persistence

import (
	"context"
	"fmt"
	"strings"

	"asset-server/internal/core/domain"
	"asset-server/internal/core/persistence/internal"
	"asset-server/internal/core/usecases"
	"asset-server/internal/infra/sql"
)

func NewAuditRepository(orm sql.ORM) (*SimpleAuditRepository, error) {
	if err := orm.AutoMigrate(&internal.AuditEntry{}); err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SimpleAuditRepository{orm: orm}, nil
}

var _ usecases.AuditRepository = (*SimpleAuditRepository)(nil)

// SimpleAuditRepository is append-and-query only. Entries are immutable;
// there is no update or delete path.
type SimpleAuditRepository struct {
	orm sql.ORM
}

func (r *SimpleAuditRepository) Append(ctx context.Context, entry domain.AuditEntry) error {
	entity := internal.FromAuditEntry(entry)
	if err := r.orm.WithContext(ctx).Create(&entity).Error(); err != nil {
		return fmt.Errorf("database insert: %w", err)
	}

	return nil
}

func (r *SimpleAuditRepository) Query(ctx context.Context, filter usecases.AuditFilter, pagination usecases.Pagination) ([]domain.AuditEntry, int, error) {
	query := r.orm.WithContext(ctx).Model(&internal.AuditEntry{})

	if filter.Actor != "" {
		query = query.Where("actor = ?", filter.Actor.String())
	}
	if filter.Action != "" {
		query = query.Where("action = ?", string(filter.Action))
	}
	if filter.AssetID != 0 {
		query = query.Where("asset_id = ?", filter.AssetID)
	}
	if filter.From != nil {
		query = query.Where("timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("timestamp <= ?", *filter.To)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(details) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error(); err != nil {
		return nil, 0, fmt.Errorf("database count: %w", err)
	}

	var entities []internal.AuditEntry
	err := query.
		Order("timestamp DESC").
		Limit(pagination.Limit).
		Offset(pagination.Offset).
		Find(&entities).
		Error()
	if err != nil {
		return nil, 0, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.AuditEntry, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain()
	}

	return result, int(total), nil
}
