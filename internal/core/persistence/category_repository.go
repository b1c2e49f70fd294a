package persistence

import (
	"context"
	"errors"
	"fmt"

	"asset-server/internal/core/domain"
	"asset-server/internal/core/persistence/internal"
	"asset-server/internal/core/usecases"
	"asset-server/internal/infra/sql"
)

func NewCategoryRepository(orm sql.ORM) (*SimpleCategoryRepository, error) {
	if err := orm.AutoMigrate(&internal.Category{}); err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SimpleCategoryRepository{orm: orm}, nil
}

var _ usecases.CategoryRepository = (*SimpleCategoryRepository)(nil)

type SimpleCategoryRepository struct {
	orm sql.ORM
}

func (r *SimpleCategoryRepository) Create(ctx context.Context, category domain.Category) error {
	entity := internal.FromCategory(category)
	err := r.orm.WithContext(ctx).Create(&entity).Error()
	if errors.Is(err, sql.ErrDuplicatedKey) {
		return usecases.ErrCategoryDuplicated
	}
	if err != nil {
		return fmt.Errorf("database insert: %w", err)
	}

	return nil
}

func (r *SimpleCategoryRepository) Get(ctx context.Context, id domain.ID) (domain.Category, error) {
	var entity internal.Category
	err := r.orm.
		WithContext(ctx).
		First(&entity, "id = ?", id.String()).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Category{}, usecases.ErrCategoryNotFound
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleCategoryRepository) GetByName(ctx context.Context, name string) (domain.Category, error) {
	var entity internal.Category
	err := r.orm.
		WithContext(ctx).
		Where("name = ?", name).
		First(&entity).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.Category{}, usecases.ErrCategoryNotFound
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	var entities []internal.Category
	err := r.orm.
		WithContext(ctx).
		Order("name ASC").
		Find(&entities).
		Error()
	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.Category, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain()
	}

	return result, nil
}

func (r *SimpleCategoryRepository) Update(ctx context.Context, category domain.Category) error {
	entity := internal.FromCategory(category)
	if err := r.orm.WithContext(ctx).Save(&entity).Error(); err != nil {
		return fmt.Errorf("database update: %w", err)
	}

	return nil
}
