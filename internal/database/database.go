// Package database opens the gorm connections the roster is read from.
package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gridwalk/racesim/internal/config"
)

// memoryDSN is shared-cache so every pooled connection sees the same tables.
const memoryDSN = "file::memory:?cache=shared"

var sqlitePragmas = []string{
	"PRAGMA user_version = 1;",
	"PRAGMA journal_mode = MEMORY;",
	"PRAGMA synchronous = OFF;",
	"PRAGMA cache_size = -32000;",
	"PRAGMA temp_store = MEMORY;",
}

// Manager opens the configured roster database.
type Manager struct {
	DB     *gorm.DB
	Logger zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{Logger: log}
}

// Connect opens the database named by cfg.Source ("sqlite" or "postgres")
// and pings it.
func (m *Manager) Connect(cfg config.RosterConfig) error {
	var err error
	switch cfg.Source {
	case "sqlite":
		m.DB, err = OpenSqlite(cfg.SqlitePath)
		if err == nil {
			if cfg.SqlitePath == "" {
				m.Logger.Info().Msg("Using local SQLite DB in memory")
			} else {
				m.Logger.Info().Str("path", cfg.SqlitePath).Msg("Using local SQLite DB")
			}
		}
	case "postgres":
		m.Logger.Debug().Str("host", cfg.Postgres.Host).Str("database", cfg.Postgres.Database).Msg("Connecting to Postgres DB")
		m.DB, err = OpenPostgres(cfg.Postgres)
	default:
		return fmt.Errorf("unsupported roster database %q", cfg.Source)
	}
	if err != nil {
		return err
	}

	sqlDB, err := m.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to validate connection: %w", err)
	}
	m.Logger.Info().Str("dialect", m.DB.Dialector.Name()).Msg("Connected to database")
	return nil
}

// Close releases the underlying pool.
func (m *Manager) Close() error {
	if m.DB == nil {
		return nil
	}
	sqlDB, err := m.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// OpenPostgres returns a connection to the Postgres database.
func OpenPostgres(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// OpenSqlite returns a connection to a SQLite database.
// If path is empty, uses an in-memory database.
func OpenSqlite(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = memoryDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	for _, pragma := range sqlitePragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	return db, nil
}
