//go:build wireinject
// +build wireinject

package wire

import (
	"time"

	"asset-server/internal/core/httpapi"
	"asset-server/internal/core/persistence"
	"asset-server/internal/core/usecases"
	"asset-server/internal/infra/async"

	"github.com/google/wire"
)

var SchemaServiceSet = wire.NewSet(
	provideCache,
	persistence.NewCategoryRepository,
	wire.Bind(new(usecases.CategoryRepository), new(*persistence.SimpleCategoryRepository)),
	usecases.NewSchemaService,
	wire.Bind(new(usecases.SchemaService), new(*usecases.SimpleSchemaService)),
)

var AuditServiceSet = wire.NewSet(
	providePubSubFactory,
	providePublisherFactory,
	provideAuditPublisher,
	persistence.NewAuditRepository,
	wire.Bind(new(usecases.AuditRepository), new(*persistence.SimpleAuditRepository)),
	usecases.NewAuditService,
	wire.Bind(new(usecases.AuditService), new(*usecases.SimpleAuditService)),
)

var AssetServiceSet = wire.NewSet(
	SchemaServiceSet,
	AuditServiceSet,
	persistence.NewAssetRepository,
	wire.Bind(new(usecases.AssetRepository), new(*persistence.SimpleAssetRepository)),
	persistence.NewUserRepository,
	wire.Bind(new(usecases.UserRepository), new(*persistence.SimpleUserRepository)),
	usecases.NewAssetService,
	wire.Bind(new(usecases.AssetService), new(*usecases.SimpleAssetService)),
)

func InitializeCategoryController() (*httpapi.CategoryController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		SchemaServiceSet,
		httpapi.NewCategoryController,
	)
	return nil, nil
}

func InitializeAssetController(broker async.InternalBroker) (*httpapi.AssetController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		AssetServiceSet,
		httpapi.NewAssetController,
	)
	return nil, nil
}

func InitializeAuditController(broker async.InternalBroker) (*httpapi.AuditController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		AuditServiceSet,
		httpapi.NewAuditController,
	)
	return nil, nil
}

func InitializeUserController() (*httpapi.UserController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		persistence.NewUserRepository,
		wire.Bind(new(usecases.UserRepository), new(*persistence.SimpleUserRepository)),
		httpapi.NewUserController,
	)
	return nil, nil
}

func InitializeImportController(broker async.InternalBroker) (*httpapi.ImportController, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		AssetServiceSet,
		usecases.NewImportService,
		wire.Bind(new(usecases.ImportService), new(*usecases.CSVImportService)),
		httpapi.NewImportController,
	)
	return nil, nil
}

func InitializeActivityWebSocketController(broker async.InternalBroker) (*httpapi.ActivityWebSocketController, error) {
	wire.Build(
		httpapi.NewActivityWebSocketController,
	)
	return nil, nil
}

func InitializeWarrantyWorker(broker async.InternalBroker, ticker *time.Ticker) (*usecases.WarrantyWorker, error) {
	wire.Build(
		provideAppConfig,
		provideDatabase,
		AuditServiceSet,
		persistence.NewAssetRepository,
		wire.Bind(new(usecases.AssetRepository), new(*persistence.SimpleAssetRepository)),
		provideWarrantyWorker,
	)
	return nil, nil
}
