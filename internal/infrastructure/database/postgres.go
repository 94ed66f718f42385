package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log"
	"os"
	"time"

	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/meeting-actions/pkg/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// NewPostgresDB opens the pool described by cfg.Database and pings it once.
// Timestamps are written in UTC and driver errors are translated to gorm
// sentinels such as gorm.ErrDuplicatedKey.
func NewPostgresDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
		Logger:         queryLogger(cfg),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pool, err := sqlDB(db)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(cfg.Database.MaxConns)
	pool.SetMaxIdleConns(cfg.Database.MinConns)
	pool.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	log.Printf("✅ Connected to postgres at %s:%s/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	return db, nil
}

// queryLogger reports slow queries, and in production only errors
func queryLogger(cfg *config.Config) logger.Interface {
	level := logger.Warn
	if cfg.IsProduction() {
		level = logger.Error
	}
	return logger.New(log.New(os.Stdout, "", log.LstdFlags), logger.Config{
		SlowThreshold:             cfg.Database.SlowQuery,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}

func sqlDB(db *gorm.DB) (*sql.DB, error) {
	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	return pool, nil
}

// Migrations returns the embedded sql-migrate source
func Migrations() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{FileSystem: migrationFiles, Root: "migrations"}
}

// Migrate runs the embedded migrations in direction. steps caps how many
// are applied or rolled back; 0 means all of them.
func Migrate(db *gorm.DB, direction migrate.MigrationDirection, steps int) (int, error) {
	pool, err := sqlDB(db)
	if err != nil {
		return 0, err
	}
	n, err := migrate.ExecMax(pool, "postgres", Migrations(), direction, steps)
	if err != nil {
		return n, fmt.Errorf("migrate: %w", err)
	}
	return n, nil
}

// AutoMigrate applies every pending migration at startup
func AutoMigrate(db *gorm.DB) error {
	n, err := Migrate(db, migrate.Up, 0)
	if err != nil {
		return err
	}
	log.Printf("🔄 Applied %d pending migrations", n)
	return nil
}

// Pinger adapts db to the health check probe
func Pinger(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		pool, err := sqlDB(db)
		if err != nil {
			return err
		}
		return pool.PingContext(ctx)
	}
}

// CloseDB closes the pool
func CloseDB(db *gorm.DB) error {
	pool, err := sqlDB(db)
	if err != nil {
		return err
	}
	if err := pool.Close(); err != nil {
		return fmt.Errorf("close postgres: %w", err)
	}
	log.Println("👋 Database connection closed")
	return nil
}
