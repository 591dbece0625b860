package checkpoint

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	cerrors "github.com/meshforest/forest/pkg/errors"
	"github.com/meshforest/forest/pkg/telemetry"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

// DBConfig holds snapshot-database connection configuration.
type DBConfig struct {
	Type     string // sqlite, postgres, or mysql
	Host     string
	Port     int
	Database string
	User     string
	Password string
	MaxConns int
}

// NewGormDB opens a GORM connection for the configured backend, attaching
// the OpenTelemetry tracing plugin when telemetry is enabled, the same way
// the reference repository layer conditionally wires it in.
func NewGormDB(cfg *DBConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Type {
	case "sqlite", "":
		dsn := cfg.Database
		if dsn == "" {
			dsn = ":memory:"
		}
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dsn := fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database,
		)
		dialector = postgres.Open(dsn)
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=Local",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		)
		dialector = mysql.Open(dsn)
	default:
		return nil, cerrors.New(cerrors.CodeConfigError, fmt.Sprintf("unsupported database type: %s", cfg.Type))
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to open snapshot database", err)
	}

	if telemetry.Enabled() {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to enable snapshot telemetry", err)
		}
	}

	if cfg.Type != "sqlite" && cfg.Type != "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to get underlying sql.DB", err)
		}
		maxConns := cfg.MaxConns
		if maxConns <= 0 {
			maxConns = 10
		}
		sqlDB.SetMaxOpenConns(maxConns)
		sqlDB.SetMaxIdleConns(maxConns / 2)
		sqlDB.SetConnMaxLifetime(time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to ping snapshot database", err)
		}
	}

	if err := db.AutoMigrate(&Snapshot{}); err != nil {
		return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to migrate snapshot schema", err)
	}

	return db, nil
}

// SnapshotRepository stores and retrieves forest-snapshot metadata. It
// never touches per-element combinatorial state; that stays a pure
// in-memory contract handled by BlobStore.
type SnapshotRepository interface {
	Save(ctx context.Context, s *Snapshot) error
	Get(ctx context.Context, name string) (*Snapshot, error)
	List(ctx context.Context) ([]*Snapshot, error)
	Delete(ctx context.Context, name string) error
}

// GormSnapshotRepository implements SnapshotRepository over a gorm.DB,
// usable with the sqlite, postgres, or mysql dialects interchangeably.
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository wraps an already-opened, migrated gorm.DB.
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// Save upserts a snapshot by name.
func (r *GormSnapshotRepository) Save(ctx context.Context, s *Snapshot) error {
	var existing Snapshot
	err := r.db.WithContext(ctx).Where("name = ?", s.Name).First(&existing).Error
	switch {
	case err == nil:
		s.ID = existing.ID
		if err := r.db.WithContext(ctx).Save(s).Error; err != nil {
			return cerrors.Wrap(cerrors.CodeIOError, "failed to update snapshot", err)
		}
	case err == gorm.ErrRecordNotFound:
		if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
			return cerrors.Wrap(cerrors.CodeIOError, "failed to create snapshot", err)
		}
	default:
		return cerrors.Wrap(cerrors.CodeIOError, "failed to look up snapshot", err)
	}
	return nil
}

// Get retrieves a snapshot by name.
func (r *GormSnapshotRepository) Get(ctx context.Context, name string) (*Snapshot, error) {
	var s Snapshot
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&s).Error
	if err == gorm.ErrRecordNotFound {
		return nil, cerrors.Wrap(cerrors.CodeNotFound, fmt.Sprintf("snapshot %q not found", name), err)
	}
	if err != nil {
		return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to get snapshot", err)
	}
	return &s, nil
}

// List returns all recorded snapshots, newest first.
func (r *GormSnapshotRepository) List(ctx context.Context) ([]*Snapshot, error) {
	var out []*Snapshot
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, cerrors.Wrap(cerrors.CodeIOError, "failed to list snapshots", err)
	}
	return out, nil
}

// Delete removes a snapshot record by name.
func (r *GormSnapshotRepository) Delete(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Where("name = ?", name).Delete(&Snapshot{})
	if res.Error != nil {
		return cerrors.Wrap(cerrors.CodeIOError, "failed to delete snapshot", res.Error)
	}
	if res.RowsAffected == 0 {
		return cerrors.New(cerrors.CodeNotFound, fmt.Sprintf("snapshot %q not found", name))
	}
	return nil
}

// UnderlyingDB returns the raw *sql.DB, exposed for health checks and
// graceful shutdown the way the reference Repositories.DB does.
func (r *GormSnapshotRepository) UnderlyingDB() (*sql.DB, error) {
	return r.db.DB()
}
