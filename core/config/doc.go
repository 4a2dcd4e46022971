// Package config provides configuration management for the ledger tool.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Run: reconciliation engine options (grouping, markets, columns)
//   - Cache: market price cache directory and TTL
//   - Detail: detail fetcher retry settings
//   - Providers: inventory/price/detail provider endpoints
//   - Server: HTTP status server settings
//   - Database: MySQL connection details for the ledger store
//   - Storage: S3/MinIO credentials and bucket for report archiving
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Run.GroupBy)
package config
