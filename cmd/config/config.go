package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var loadConfigOnce sync.Once
var configInstance AppConfig

func LoadConfig() AppConfig {
	loadConfigOnce.Do(func() {
		viper.SetEnvPrefix("asset_server")
		viper.AutomaticEnv()
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.SetConfigName("server")
		viper.AddConfigPath("config")
		viper.AddConfigPath("/config")
		if err := viper.ReadInConfig(); err != nil {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
		configInstance = AppConfig{
			General: GeneralConfig{
				LogLevel: viper.GetString("general.log_level"),
			},
			Server: ServerConfig{
				Addr: viper.GetString("server.addr"),
			},
			Postgresql: PostgresqlConfig{
				DSN: viper.GetString("database.dsn"),
			},
			Kafka: KafkaConfig{
				Brokers:        viper.GetStringSlice("kafka.brokers"),
				Group:          viper.GetString("kafka.group"),
				SchemaRegistry: viper.GetString("kafka.schema_registry"),
			},
			Warranty: WarrantyConfig{
				Schedule:   viper.GetString("warranty.schedule"),
				WindowDays: viper.GetInt("warranty.window_days"),
			},
		}
		if configInstance.Server.Addr == "" {
			configInstance.Server.Addr = ":3000"
		}
	})

	return configInstance
}

type AppConfig struct {
	General    GeneralConfig
	Server     ServerConfig
	Kafka      KafkaConfig
	Postgresql PostgresqlConfig
	Warranty   WarrantyConfig
}

type GeneralConfig struct {
	LogLevel string
}

type ServerConfig struct {
	Addr string
}

type KafkaConfig struct {
	Brokers        []string
	Group          string
	SchemaRegistry string
}

type PostgresqlConfig struct {
	DSN string
}

// WarrantyConfig drives the warranty scan worker: a five-field cron
// schedule and the lookahead window in days.
type WarrantyConfig struct {
	Schedule   string
	WindowDays int
}
