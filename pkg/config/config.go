package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Port                   string `mapstructure:"PORT"`
	GRPCPort               string `mapstructure:"GRPC_PORT"`
	ServiceName            string `mapstructure:"SERVICE_NAME"`
	StorageDriver          string `mapstructure:"STORAGE_DRIVER"`
	PostgresUsername       string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPassword       string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDatabase       string `mapstructure:"POSTGRES_DATABASE"`
	PostgresSSLMode        string `mapstructure:"POSTGRES_SSLMODE"`
	PostgresHost           string `mapstructure:"POSTGRES_HOST"`
	PostgresPort           string `mapstructure:"POSTGRES_PORT"`
	SQLitePath             string `mapstructure:"SQLITE_PATH"`
	RabbitMQURL            string `mapstructure:"RABBITMQ_URL"`
	SessionStorage         string `mapstructure:"SESSION_STORAGE"`
	AWSEndpoint            string `mapstructure:"AWS_ENDPOINT"`
	AWSBucket              string `mapstructure:"AWS_BUCKET"`
	AWSDefaultRegion       string `mapstructure:"AWS_DEFAULT_REGION"`
	AWSAccessKey           string `mapstructure:"AWS_ACCESS_KEY"`
	AWSSecretKey           string `mapstructure:"AWS_SECRET_KEY"`
	CategoryDeletePolicy   string `mapstructure:"CATEGORY_DELETE_POLICY"`
	RequireIdentityHeaders bool   `mapstructure:"REQUIRE_IDENTITY_HEADERS"`
	CookieSecure           bool   `mapstructure:"COOKIE_SECURE"`
}

var keys = []string{
	"PORT",
	"GRPC_PORT",
	"SERVICE_NAME",
	"STORAGE_DRIVER",
	"POSTGRES_USERNAME",
	"POSTGRES_PASSWORD",
	"POSTGRES_DATABASE",
	"POSTGRES_SSLMODE",
	"POSTGRES_HOST",
	"POSTGRES_PORT",
	"SQLITE_PATH",
	"RABBITMQ_URL",
	"SESSION_STORAGE",
	"AWS_ENDPOINT",
	"AWS_BUCKET",
	"AWS_DEFAULT_REGION",
	"AWS_ACCESS_KEY",
	"AWS_SECRET_KEY",
	"CATEGORY_DELETE_POLICY",
	"REQUIRE_IDENTITY_HEADERS",
	"COOKIE_SECURE",
}

func Read() *AppConfig {
	appConfig, err := Load(".env")
	if err != nil {
		panic(fmt.Errorf("fatal error unmarshalling config: %w", err))
	}
	return appConfig
}

// Load reads file (if it exists) and then the environment, which wins.
func Load(file string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()

	bindEnvVariables(v)
	setDefaults(v)

	var appConfig AppConfig
	if err := v.Unmarshal(&appConfig); err != nil {
		return nil, err
	}

	return &appConfig, nil
}

// PostgresDSN builds a lib/pq connection string.
func (c *AppConfig) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUsername, c.PostgresPassword, c.PostgresDatabase, c.PostgresSSLMode,
	)
}

func bindEnvVariables(v *viper.Viper) {
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GRPC_PORT", "9090")
	v.SetDefault("SERVICE_NAME", "inventory")
	v.SetDefault("STORAGE_DRIVER", "postgres")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("SQLITE_PATH", "inventory.db")
	v.SetDefault("SESSION_STORAGE", "memory")
	v.SetDefault("CATEGORY_DELETE_POLICY", "keep")
	v.SetDefault("REQUIRE_IDENTITY_HEADERS", true)
	v.SetDefault("COOKIE_SECURE", false)
}
