// Package config provides configuration management for the temperature consumer.
//
// It uses Viper to read environment variables (optionally seeded from a .env
// file through godotenv). Defaults are declared next to each field with a
// `default` struct tag and registered by reflection, so every key is also
// reachable through AutomaticEnv.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, shutdown timeout (SERVER_PORT, SERVER_API_KEY, ...)
//   - Log: level and format (LOG_LEVEL, LOG_FORMAT)
//   - Kafka: brokers, topic, group id, batch bounds (KAFKA_BROKERS="a:9092,b:9092", ...)
//   - Consumer: worker threads and queue size (CONSUMER_THREADS, CONSUMER_QUEUE_SIZE)
//   - Storage: S3/MinIO credentials and bucket
//   - Export: periodic snapshot export (EXPORT_ENABLED, EXPORT_INTERVAL, EXPORT_OBJECT)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
