package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"asset-server/internal/core/domain"
	"asset-server/internal/core/persistence/internal"
	"asset-server/internal/core/usecases"
	"asset-server/internal/infra/sql"
	"asset-server/internal/infra/utils"
)

// externalIDRetries bounds the regeneration attempts when a generated
// external ID collides with an existing row.
const externalIDRetries = 3

func NewAssetRepository(orm sql.ORM) (*SimpleAssetRepository, error) {
	if err := orm.AutoMigrate(&internal.Asset{}, &internal.AuditEntry{}); err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SimpleAssetRepository{orm: orm}, nil
}

var _ usecases.AssetRepository = (*SimpleAssetRepository)(nil)

// SimpleAssetRepository persists assets together with their audit entries.
// Every mutation and its entries share one transaction, so an asset change
// is never visible without its audit trail.
type SimpleAssetRepository struct {
	orm sql.ORM
}

func (r *SimpleAssetRepository) Create(ctx context.Context, asset domain.Asset, entry domain.AuditEntry) (domain.Asset, error) {
	var entity internal.Asset

	for attempt := 0; ; attempt++ {
		entity = internal.FromAsset(asset)
		err := r.orm.WithContext(ctx).Transaction(func(tx sql.ORM) error {
			if err := tx.Create(&entity).Error(); err != nil {
				return err
			}

			auditEntity := internal.FromAuditEntry(entry)
			auditEntity.AssetID = &entity.ID
			return tx.Create(&auditEntity).Error()
		})

		if errors.Is(err, sql.ErrDuplicatedKey) && attempt < externalIDRetries {
			slog.Warn("external ID collision, regenerating",
				slog.String("external_id", entity.ExternalID),
				slog.Int("attempt", attempt+1))
			asset.ExternalID = domain.ID(utils.GenerateUUID())
			continue
		}
		if err != nil {
			return domain.Asset{}, fmt.Errorf("database insert: %w", err)
		}

		break
	}

	return entity.ToDomain(), nil
}

func (r *SimpleAssetRepository) Update(ctx context.Context, asset domain.Asset, entries []domain.AuditEntry) error {
	err := r.orm.WithContext(ctx).Transaction(func(tx sql.ORM) error {
		entity := internal.FromAsset(asset)
		if err := tx.Save(&entity).Error(); err != nil {
			return err
		}

		for _, entry := range entries {
			auditEntity := internal.FromAuditEntry(entry)
			auditEntity.AssetID = &entity.ID
			if err := tx.Create(&auditEntity).Error(); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("database update: %w", err)
	}

	return nil
}

func (r *SimpleAssetRepository) Get(ctx context.Context, id uint64) (domain.Asset, error) {
	var entity internal.Asset
	err := r.orm.
		WithContext(ctx).
		First(&entity, "id = ?", id).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Asset{}, usecases.ErrAssetNotFound
	}
	if err != nil {
		return domain.Asset{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleAssetRepository) GetByExternalID(ctx context.Context, externalID domain.ID) (domain.Asset, error) {
	var entity internal.Asset
	err := r.orm.
		WithContext(ctx).
		Where("external_id = ?", externalID.String()).
		First(&entity).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Asset{}, usecases.ErrAssetNotFound
	}
	if err != nil {
		return domain.Asset{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleAssetRepository) FindByFilter(ctx context.Context, filter usecases.CoreFilter) ([]domain.Asset, error) {
	query := r.orm.WithContext(ctx)

	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID.String())
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Assigned != nil {
		if *filter.Assigned {
			query = query.Where("assigned_to IS NOT NULL")
		} else {
			query = query.Where("assigned_to IS NULL")
		}
	}

	var entities []internal.Asset
	err := query.
		Order("created_at DESC").
		Find(&entities).
		Error()
	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.Asset, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain()
	}

	return result, nil
}
