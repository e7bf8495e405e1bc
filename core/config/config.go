package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"temperature-consumer/core/broker"
	"temperature-consumer/core/logger"
	"temperature-consumer/core/server"
	"temperature-consumer/core/storage"
	"temperature-consumer/core/workerpool"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Kafka holds configuration for the topic consumer.
	Kafka broker.Config `mapstructure:"kafka"`
	// Consumer holds configuration for the worker pool processing payloads.
	Consumer workerpool.Config `mapstructure:"consumer"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Export holds configuration for the periodic snapshot export.
	Export ExportConfig `mapstructure:"export"`
}

// ExportConfig holds configuration for publishing snapshots to object storage.
type ExportConfig struct {
	// Enabled turns on the periodic export in the start command.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Interval is the time between two exports.
	Interval time.Duration `mapstructure:"interval" default:"1m"`
	// Object is the object name the snapshot is written to.
	Object string `mapstructure:"object" default:"snapshots/latest.json"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. KAFKA_GROUP_ID -> kafka.group_id)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return &config, nil
}

// Validate checks every section used by the consumer service.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("server: %w", err))
	}
	if err := c.Kafka.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("kafka: %w", err))
	}
	if err := c.Consumer.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("consumer: %w", err))
	}
	if c.Export.Enabled {
		if c.Export.Interval <= 0 {
			errs = append(errs, fmt.Errorf("export: interval must be positive, got %s", c.Export.Interval))
		}
		if strings.TrimSpace(c.Export.Object) == "" {
			errs = append(errs, errors.New("export: object must not be empty"))
		}
	}
	return errors.Join(errs...)
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
