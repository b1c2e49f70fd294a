package wire

import (
	"os"
	"time"

	"asset-server/cmd/config"
	"asset-server/internal/core/usecases"
	"asset-server/internal/infra/avro"
	"asset-server/internal/infra/cache"
	"asset-server/internal/infra/pubsub"
	"asset-server/internal/infra/sql"
)

// auditStreamTopic carries persisted audit entries to downstream consumers
// in confluent avro framing.
const auditStreamTopic pubsub.Topic = "asset-audit-entries"

func provideAppConfig() config.AppConfig {
	return config.LoadConfig()
}

func provideDatabase(config config.AppConfig) sql.ORM {
	env, ok := os.LookupEnv("ENV")
	if !ok {
		env = "production"
	}

	if env == "local" {
		orm, err := sql.NewMemoryORM()
		if err != nil {
			panic(err)
		}

		return orm
	}

	orm, err := sql.NewPostgresORM(config.Postgresql.DSN)
	if err != nil {
		panic(err)
	}

	return orm
}

func provideCache() (cache.Cache, error) {
	return cache.New(cache.DefaultConfig())
}

func providePubSubFactory(config config.AppConfig) *pubsub.Factory {
	env, ok := os.LookupEnv("ENV")
	if !ok {
		env = "production"
	}

	return pubsub.NewFactory(pubsub.FactoryOptions{
		Environment:       env,
		KafkaBrokers:      config.Kafka.Brokers,
		ConsumerGroup:     config.Kafka.Group,
		SchemaRegistryURL: config.Kafka.SchemaRegistry,
	})
}

func providePublisherFactory(factory *pubsub.Factory) pubsub.PublisherFactory {
	return factory.GetPublisherFactory()
}

func provideAuditPublisher(factory pubsub.PublisherFactory) (pubsub.Publisher, error) {
	return factory.New(auditStreamTopic, &avro.AvroAuditEntry{})
}

func provideWarrantyWorker(
	ticker *time.Ticker,
	assets usecases.AssetRepository,
	audit usecases.AuditService,
	config config.AppConfig,
) *usecases.WarrantyWorker {
	return usecases.NewWarrantyWorker(ticker, assets, audit, config.Warranty.Schedule, config.Warranty.WindowDays)
}
