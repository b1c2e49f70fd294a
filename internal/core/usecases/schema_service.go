package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"asset-server/internal/core/domain"
	"asset-server/internal/infra/cache"
)

const _schemaCacheTTL = 5 * time.Minute

func NewSchemaService(repository CategoryRepository, snapshots cache.Cache) *SimpleSchemaService {
	return &SimpleSchemaService{
		repository: repository,
		snapshots:  snapshots,
	}
}

var _ SchemaService = (*SimpleSchemaService)(nil)

// SimpleSchemaService owns the category → field definition mapping and the
// cached schema snapshots. Field edits regenerate the snapshot inside the
// same repository update, so readers see either the pre-edit or post-edit
// schema, never a partial one.
type SimpleSchemaService struct {
	repository CategoryRepository
	snapshots  cache.Cache
}

func (s *SimpleSchemaService) CreateCategory(ctx context.Context, category domain.Category) error {
	err := s.repository.Create(ctx, category)
	if errors.Is(err, ErrCategoryDuplicated) {
		slog.Warn("category duplicated", slog.String("name", category.Name))
		return ErrCategoryDuplicated
	}
	if err != nil {
		slog.Error("creating category", slog.String("error", err.Error()))
		return fmt.Errorf("creating category: %w", err)
	}

	return nil
}

func (s *SimpleSchemaService) GetCategory(ctx context.Context, id domain.ID) (domain.Category, error) {
	category, err := s.repository.Get(ctx, id)
	if errors.Is(err, ErrCategoryNotFound) {
		return domain.Category{}, ErrCategoryNotFound
	}
	if err != nil {
		slog.Error("getting category", slog.String("error", err.Error()))
		return domain.Category{}, fmt.Errorf("getting category: %w", err)
	}

	return category, nil
}

func (s *SimpleSchemaService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repository.FindAll(ctx)
	if err != nil {
		slog.Error("listing categories", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	return categories, nil
}

func (s *SimpleSchemaService) DefineField(ctx context.Context, categoryID domain.ID, field domain.FieldDefinition) error {
	category, err := s.repository.Get(ctx, categoryID)
	if err != nil {
		return err
	}

	if err := category.DefineField(field.Key, field.Label, field.Type, field.Required); err != nil {
		slog.Warn("rejecting field definition",
			slog.String("category_id", categoryID.String()),
			slog.String("key", field.Key),
			slog.String("error", err.Error()))
		return err
	}

	return s.persistSchemaChange(ctx, category)
}

func (s *SimpleSchemaService) UpdateField(ctx context.Context, categoryID domain.ID, key, label string, required bool) error {
	category, err := s.repository.Get(ctx, categoryID)
	if err != nil {
		return err
	}

	if err := category.UpdateField(key, label, required); err != nil {
		return err
	}

	return s.persistSchemaChange(ctx, category)
}

func (s *SimpleSchemaService) RemoveField(ctx context.Context, categoryID domain.ID, key string) error {
	category, err := s.repository.Get(ctx, categoryID)
	if err != nil {
		return err
	}

	if err := category.RemoveField(key); err != nil {
		return err
	}

	return s.persistSchemaChange(ctx, category)
}

// GetSchema returns the cached snapshot for a category.
func (s *SimpleSchemaService) GetSchema(ctx context.Context, categoryID domain.ID) (domain.SchemaSnapshot, error) {
	cached, err := s.snapshots.GetOrSet(ctx, schemaCacheKey(categoryID), _schemaCacheTTL, func() (any, error) {
		category, err := s.repository.Get(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		return category.Schema, nil
	})
	if errors.Is(err, ErrCategoryNotFound) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		slog.Error("loading schema snapshot",
			slog.String("category_id", categoryID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	snapshot, ok := cached.(domain.SchemaSnapshot)
	if !ok {
		return nil, fmt.Errorf("unexpected cache entry type %T", cached)
	}

	return snapshot, nil
}

func (s *SimpleSchemaService) persistSchemaChange(ctx context.Context, category domain.Category) error {
	category.Version++
	if err := s.repository.Update(ctx, category); err != nil {
		slog.Error("persisting schema change",
			slog.String("category_id", category.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("updating category: %w", err)
	}

	s.snapshots.Delete(ctx, schemaCacheKey(category.ID))
	slog.Info("schema regenerated",
		slog.String("category_id", category.ID.String()),
		slog.Int("field_count", len(category.Fields)))

	return nil
}

func schemaCacheKey(categoryID domain.ID) string {
	return "schema:" + categoryID.String()
}
