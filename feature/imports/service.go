package imports

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"csv-importer/core/config"
	"csv-importer/core/csvsource"
	"csv-importer/core/database"
	"csv-importer/core/reconcile"
	"csv-importer/core/storage"
	"csv-importer/feature/profile"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"
)

// RunOptions qualifies a single run.
type RunOptions struct {
	// DryRun classifies rows without writing.
	DryRun bool
	// Source labels the input in the report (file path or object key).
	Source string
}

// Service runs profile imports against the database.
type Service struct {
	db       *gorm.DB
	client   storage.Client
	bucket   string
	registry *profile.Registry
	settings config.ImportConfig
	csvOpts  csvsource.Options
	logger   *zap.Logger

	mu     sync.Mutex
	guards map[string]*semaphore.Weighted
}

// NewService creates the import service. db and client may be nil; the
// operations needing them then fail with ErrDatabaseUnavailable or
// ErrStorageUnavailable.
func NewService(db *gorm.DB, client storage.Client, bucket string, registry *profile.Registry, settings config.ImportConfig, logger *zap.Logger) (*Service, error) {
	if registry == nil {
		return nil, errors.New("profile registry is required")
	}
	delimiter, err := csvsource.ParseDelimiter(settings.Delimiter)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:       db,
		client:   client,
		bucket:   bucket,
		registry: registry,
		settings: settings,
		csvOpts:  csvsource.Options{Delimiter: delimiter, HasHeader: settings.HasHeader},
		logger:   logger,
		guards:   make(map[string]*semaphore.Weighted),
	}, nil
}

// Profiles returns the registered profiles.
func (s *Service) Profiles() []profile.Profile {
	return s.registry.List()
}

// Profile returns one registered profile.
func (s *Service) Profile(name string) (profile.Profile, error) {
	return s.registry.Get(name)
}

// Sync reconciles the CSV in r with the profile's table. The report is
// returned even when the run fails part way.
func (s *Service) Sync(ctx context.Context, name string, r io.Reader, opts RunOptions) (*Report, error) {
	return s.run(ctx, ModeSync, name, r, opts)
}

// Bulk inserts every CSV row in r without reconciling against the table.
func (s *Service) Bulk(ctx context.Context, name string, r io.Reader, opts RunOptions) (*Report, error) {
	return s.run(ctx, ModeBulk, name, r, opts)
}

func (s *Service) run(ctx context.Context, mode, name string, r io.Reader, opts RunOptions) (*Report, error) {
	p, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}
	cfg, err := p.Config(s.defaults())
	if err != nil {
		return nil, err
	}
	cfg.DryRun = opts.DryRun

	if s.db == nil {
		return nil, ErrDatabaseUnavailable
	}
	if r == nil {
		return nil, ErrNoInput
	}

	if !opts.DryRun {
		release, err := s.acquire(cfg.Table)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Profile:   p.Name,
		Table:     p.Table,
		Mode:      mode,
		Source:    opts.Source,
		DryRun:    opts.DryRun,
		StartedAt: time.Now(),
	}
	l := s.logger.With(
		zap.String("run_id", report.RunID),
		zap.String("profile", p.Name),
		zap.String("mode", mode),
		zap.Bool("dry_run", opts.DryRun),
	)
	l.Info("Import started", zap.String("source", opts.Source))

	src, err := csvsource.New(r, s.csvOpts)
	if err != nil {
		report.finish(reconcile.Result{}, err)
		return report, err
	}

	store := database.NewTableStore(s.db)
	var result reconcile.Result
	switch mode {
	case ModeBulk:
		result, err = s.bulk(ctx, cfg, store, src, l)
	default:
		result, err = s.sync(ctx, p, cfg, store, src, l)
	}
	report.finish(result, err)

	if err != nil {
		l.Error("Import failed", zap.Any("result", result), zap.Error(err))
	} else {
		l.Info("Import finished", zap.Any("result", result), zap.Int64("duration_ms", report.DurationMS))
	}

	s.archive(ctx, report, l)
	return report, err
}

func (s *Service) sync(ctx context.Context, p profile.Profile, cfg reconcile.Config, store *database.TableStore, src reconcile.RowSource, l *zap.Logger) (reconcile.Result, error) {
	var (
		importer reconcile.Importer
		err      error
	)
	if p.UsesBulk() {
		importer, err = reconcile.NewBulk(cfg, store, reconcile.WithLogger(l))
	} else {
		importer, err = reconcile.NewOneByOne(cfg, store, reconcile.WithLogger(l))
	}
	if err != nil {
		return reconcile.Result{}, err
	}

	rec, err := reconcile.NewReconciler(cfg, store, importer, reconcile.WithLogger(l))
	if err != nil {
		return reconcile.Result{}, err
	}
	return rec.Reconcile(ctx, src)
}

func (s *Service) bulk(ctx context.Context, cfg reconcile.Config, store *database.TableStore, src reconcile.RowSource, l *zap.Logger) (reconcile.Result, error) {
	b, err := reconcile.NewBulk(cfg, store, reconcile.WithLogger(l))
	if err != nil {
		return reconcile.Result{}, err
	}
	n, err := b.Import(ctx, src)
	return reconcile.Result{New: n}, err
}

// OpenSource opens a CSV object from the bucket.
func (s *Service) OpenSource(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.client == nil {
		return nil, ErrStorageUnavailable
	}
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open source %s: %w", key, err)
	}
	return obj, nil
}

// ListSources lists the CSV objects (plain or gzip) under the configured
// source prefix.
func (s *Service) ListSources(ctx context.Context) ([]storage.ObjectSummary, error) {
	if s.client == nil {
		return nil, ErrStorageUnavailable
	}
	objects, err := storage.ListKeys(ctx, s.client, s.bucket, s.settings.SourcePrefix, "")
	if err != nil {
		return nil, err
	}
	sources := objects[:0]
	for _, o := range objects {
		key := strings.ToLower(o.Key)
		if strings.HasSuffix(key, ".csv") || strings.HasSuffix(key, ".csv.gz") {
			sources = append(sources, o)
		}
	}
	return sources, nil
}

// Check compares the profile with the live table schema.
func (s *Service) Check(name string) (*SchemaReport, error) {
	p, err := s.registry.Get(name)
	if err != nil {
		return nil, err
	}
	return CheckSchema(s.db, p)
}

// archive writes the report to object storage. Failures are only logged.
func (s *Service) archive(ctx context.Context, report *Report, l *zap.Logger) {
	if s.client == nil {
		return
	}
	key := path.Join(s.settings.ReportPrefix, report.StartedAt.Format("2006-01-02"),
		fmt.Sprintf("%s-%s-%s.json", report.Profile, report.Mode, report.RunID))

	// The run's context may already be cancelled; the report is still wanted.
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	report.Archived = key
	if err := storage.PutJSON(actx, s.client, s.bucket, key, report); err != nil {
		report.Archived = ""
		l.Warn("Failed to archive import report", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) acquire(table string) (func(), error) {
	s.mu.Lock()
	sem, ok := s.guards[table]
	if !ok {
		sem = semaphore.NewWeighted(1)
		s.guards[table] = sem
	}
	s.mu.Unlock()

	if !sem.TryAcquire(1) {
		return nil, fmt.Errorf("%w: %s", ErrRunInProgress, table)
	}
	return func() { sem.Release(1) }, nil
}

func (s *Service) defaults() profile.Defaults {
	return profile.Defaults{
		MaxChunkSize:    s.settings.MaxItemsPerInsert,
		CollisionPolicy: s.settings.CollisionPolicy,
		RequiredPolicy:  s.settings.RequiredPolicy,
	}
}
