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

func NewUserRepository(orm sql.ORM) (*SimpleUserRepository, error) {
	if err := orm.AutoMigrate(&internal.User{}); err != nil {
		return nil, fmt.Errorf("auto migrating: %w", err)
	}

	return &SimpleUserRepository{orm: orm}, nil
}

var _ usecases.UserRepository = (*SimpleUserRepository)(nil)

type SimpleUserRepository struct {
	orm sql.ORM
}

func (r *SimpleUserRepository) Create(ctx context.Context, user domain.User) error {
	entity := internal.FromUser(user)
	err := r.orm.WithContext(ctx).Create(&entity).Error()
	if errors.Is(err, sql.ErrDuplicatedKey) {
		return usecases.ErrUserDuplicated
	}
	if err != nil {
		return fmt.Errorf("database insert: %w", err)
	}

	return nil
}

func (r *SimpleUserRepository) Get(ctx context.Context, id domain.ID) (domain.User, error) {
	var entity internal.User
	err := r.orm.
		WithContext(ctx).
		First(&entity, "id = ?", id.String()).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.User{}, usecases.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleUserRepository) GetByName(ctx context.Context, name string) (domain.User, error) {
	var entity internal.User
	err := r.orm.
		WithContext(ctx).
		Where("name = ?", name).
		First(&entity).
		Error()

	if errors.Is(err, sql.ErrRecordNotFound) {
		return domain.User{}, usecases.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("database query: %w", err)
	}

	return entity.ToDomain(), nil
}

func (r *SimpleUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	var entities []internal.User
	err := r.orm.
		WithContext(ctx).
		Order("name ASC").
		Find(&entities).
		Error()
	if err != nil {
		return nil, fmt.Errorf("database query: %w", err)
	}

	result := make([]domain.User, len(entities))
	for i, entity := range entities {
		result[i] = entity.ToDomain()
	}

	return result, nil
}
