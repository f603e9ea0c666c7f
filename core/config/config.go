package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"csv-importer/core/database"
	"csv-importer/core/logger"
	"csv-importer/core/server"
	"csv-importer/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Import holds defaults applied to every import run.
	Import ImportConfig `mapstructure:"import"`
}

// ImportConfig holds the import defaults. Profiles may override the policies.
type ImportConfig struct {
	// ProfilesFile is the YAML file with import profile definitions.
	ProfilesFile string `mapstructure:"profiles_file" default:"profiles.yaml"`
	// MaxItemsPerInsert bounds the rows of one bulk INSERT.
	MaxItemsPerInsert int `mapstructure:"max_items_per_insert" default:"10000"`
	// CollisionPolicy is last_write_wins, first_write_wins or reject.
	CollisionPolicy string `mapstructure:"collision_policy" default:"last_write_wins"`
	// RequiredPolicy is abort or skip_record.
	RequiredPolicy string `mapstructure:"required_policy" default:"abort"`
	// SourcePrefix is the storage prefix listed for CSV sources.
	SourcePrefix string `mapstructure:"source_prefix" default:"sources/"`
	// ReportPrefix is the storage prefix run reports are written under.
	ReportPrefix string `mapstructure:"report_prefix" default:"reports/"`
	// Delimiter is the CSV field separator.
	Delimiter string `mapstructure:"delimiter" default:","`
	// HasHeader skips the first CSV line.
	HasHeader bool `mapstructure:"has_header" default:"false"`
}

// LoadConfig loads configuration from config.yaml, the .env file and
// environment variables, in increasing order of precedence.
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

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	return &config, nil
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
