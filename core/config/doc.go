// Package config provides configuration management for the CSV importer.
//
// It utilizes Viper for loading configuration from an optional config.yaml,
// a .env file and environment variables. Defaults come from struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, emulator type, body limit)
//   - Database: driver and connection details (MySQL, PostgreSQL, SQLite)
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//   - Import: profile file, chunk size, policies and CSV dialect
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Import.MaxItemsPerInsert)
package config
