package usecases

import (
	"context"
	"errors"
	"io"
	"time"

	"asset-server/internal/core/domain"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryDuplicated = errors.New("category already exists")
	ErrAssetNotFound      = errors.New("asset not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserDuplicated     = errors.New("user already exists")
)

type Pagination struct {
	Limit  int
	Offset int
}

//go:generate mockgen -source=api.go -destination=../../../test/unit/doubles/core/usecases/api_mock.go -package=usecases

type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) error
	Get(ctx context.Context, id domain.ID) (domain.Category, error)
	GetByName(ctx context.Context, name string) (domain.Category, error)
	FindAll(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category domain.Category) error
}

// AssetRepository is the transaction boundary for asset mutations: a
// mutation and its audit entries commit or roll back as one unit.
type AssetRepository interface {
	Create(ctx context.Context, asset domain.Asset, entry domain.AuditEntry) (domain.Asset, error)
	Update(ctx context.Context, asset domain.Asset, entries []domain.AuditEntry) error
	Get(ctx context.Context, id uint64) (domain.Asset, error)
	GetByExternalID(ctx context.Context, externalID domain.ID) (domain.Asset, error)
	FindByFilter(ctx context.Context, filter CoreFilter) ([]domain.Asset, error)
}

// CoreFilter holds the core-attribute criteria a repository resolves in SQL.
// Dynamic-field criteria are applied afterwards by the query translator.
type CoreFilter struct {
	CategoryID domain.ID
	Status     *domain.Status
	Assigned   *bool
}

type AuditRepository interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	Query(ctx context.Context, filter AuditFilter, pagination Pagination) ([]domain.AuditEntry, int, error)
}

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	Get(ctx context.Context, id domain.ID) (domain.User, error)
	GetByName(ctx context.Context, name string) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
}

type SchemaService interface {
	CreateCategory(ctx context.Context, category domain.Category) error
	GetCategory(ctx context.Context, id domain.ID) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	DefineField(ctx context.Context, categoryID domain.ID, field domain.FieldDefinition) error
	UpdateField(ctx context.Context, categoryID domain.ID, key, label string, required bool) error
	RemoveField(ctx context.Context, categoryID domain.ID, key string) error
	GetSchema(ctx context.Context, categoryID domain.ID) (domain.SchemaSnapshot, error)
}

type AssetService interface {
	CreateAsset(ctx context.Context, input CreateAssetInput) (domain.Asset, error)
	UpdateAsset(ctx context.Context, id uint64, patch AssetPatch) (domain.Asset, error)
	GetAsset(ctx context.Context, id uint64) (domain.Asset, error)
	GetByScanCode(ctx context.Context, code string, actor *domain.ID) (domain.Asset, error)
	ListAssets(ctx context.Context, filter AssetFilter, pagination Pagination) ([]domain.Asset, int, error)
}

type ImportService interface {
	Import(ctx context.Context, categoryID domain.ID, r io.Reader, actor *domain.ID) (ImportReport, error)
	Export(ctx context.Context, categoryID domain.ID, w io.Writer, actor *domain.ID) error
}

type AuditService interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
	Announce(ctx context.Context, entry domain.AuditEntry)
	Query(ctx context.Context, filter AuditFilter, pagination Pagination) ([]domain.AuditEntry, int, error)
}

// AuditFilter narrows audit queries; zero values mean "any".
type AuditFilter struct {
	Actor   domain.ID
	Action  domain.Action
	AssetID uint64
	From    *time.Time
	To      *time.Time
	Search  string
}
