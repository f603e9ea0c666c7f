package cmd

import (
	"fmt"

	"csv-importer/core/config"
	"csv-importer/core/database"
	"csv-importer/core/logger"
	"csv-importer/core/storage"
	"csv-importer/feature/imports"
	"csv-importer/feature/profile"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB
	client storage.Client
}

func loadRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return &runtime{cfg: cfg, logger: l}, nil
}

func (r *runtime) connectDatabase() error {
	db, err := database.Connect(r.cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	r.db = db
	return nil
}

func (r *runtime) connectStorage() error {
	client, err := storage.NewClient(r.cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}
	r.client = client
	return nil
}

func (r *runtime) registry() (*profile.Registry, error) {
	reg, err := profile.Load(r.cfg.Import.ProfilesFile, r.cfg.Server.Emulator)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}
	return reg, nil
}

func (r *runtime) importService() (*imports.Service, error) {
	reg, err := r.registry()
	if err != nil {
		return nil, err
	}
	return imports.NewService(r.db, r.client, r.cfg.Storage.Bucket, reg, r.cfg.Import, r.logger)
}
