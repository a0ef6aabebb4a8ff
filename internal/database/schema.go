package database

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/alexivanou/cityshare-api/internal/config"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// TableColumns lists, per table, the columns added after the table was first introduced.
// A table missing any of them predates a migration that has not been applied yet.
var TableColumns = map[string][]string{
	"users":               {"google_id", "github_id", "is_content_creator", "cookie_consent", "cookie_consent_at"},
	"cities":              {"downloadable", "download_count", "description"},
	"city_images":         {"is_primary", "sort_order"},
	"hall_of_fame_cache":  {"is_primary", "city_id"},
	"comments":            nil,
	"likes":               nil,
	"favorites":           nil,
	"follows":             nil,
	"notifications":       {"actor_id", "city_id"},
	"api_keys":            {"key_prefix", "last_used_at"},
	"moderation_settings": nil,
}

// SchemaEnsurer verifies at most once per table per process that the table and its registered
// columns exist, applying pending migrations when they do not. DDL only ever comes from the
// versioned migration files.
type SchemaEnsurer struct {
	db      *sqlx.DB
	dbType  config.DBType
	migrate func() error
	logger  *zap.Logger

	mu      sync.RWMutex
	ensured map[string]bool
	group   singleflight.Group
}

// NewSchemaEnsurer creates an ensurer that applies migrations with Migrate(db, cfg).
func NewSchemaEnsurer(db *sqlx.DB, cfg config.DBConfig, logger *zap.Logger) *SchemaEnsurer {
	return newSchemaEnsurer(db, cfg.Type, func() error { return Migrate(db, cfg) }, logger)
}

func newSchemaEnsurer(db *sqlx.DB, dbType config.DBType, migrate func() error, logger *zap.Logger) *SchemaEnsurer {
	return &SchemaEnsurer{
		db:      db,
		dbType:  dbType,
		migrate: migrate,
		logger:  logger,
		ensured: make(map[string]bool),
	}
}

// EnsureTable is idempotent and cheap after the first successful call for table.
func (s *SchemaEnsurer) EnsureTable(ctx context.Context, table string) error {
	if s.isEnsured(table) {
		return nil
	}

	_, err, _ := s.group.Do(table, func() (any, error) {
		if s.isEnsured(table) {
			return nil, nil
		}
		if err := s.ensure(ctx, table); err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.ensured[table] = true
		s.mu.Unlock()
		return nil, nil
	})
	return err
}

// EnsureAll runs EnsureTable for every registered table in a stable order.
func (s *SchemaEnsurer) EnsureAll(ctx context.Context) error {
	tables := make([]string, 0, len(TableColumns))
	for table := range TableColumns {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		if err := s.EnsureTable(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

func (s *SchemaEnsurer) isEnsured(table string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ensured[table]
}

func (s *SchemaEnsurer) ensure(ctx context.Context, table string) error {
	columns, ok := TableColumns[table]
	if !ok {
		return fmt.Errorf("unknown table %q", table)
	}

	exists, err := s.tableExists(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to check table %s: %w", table, err)
	}
	if !exists {
		s.logger.Info("Table missing, applying migrations", zap.String("table", table))
		if err := s.applyMigrations(); err != nil {
			return err
		}
		if exists, err = s.tableExists(ctx, table); err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("table %s still missing after migrations", table)
		}
	}

	missing, err := s.missingColumns(ctx, table, columns)
	if err != nil {
		return fmt.Errorf("failed to check columns of %s: %w", table, err)
	}
	if len(missing) == 0 {
		return nil
	}

	s.logger.Info("Columns missing, applying migrations", zap.String("table", table), zap.Strings("columns", missing))
	if err := s.applyMigrations(); err != nil {
		return err
	}
	if missing, err = s.missingColumns(ctx, table, columns); err != nil {
		return fmt.Errorf("failed to check columns of %s: %w", table, err)
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns %v after migrations", table, missing)
	}
	return nil
}

func (s *SchemaEnsurer) applyMigrations() error {
	if err := s.migrate(); err != nil {
		// a concurrent process got there first
		if IsAlreadyExists(err) {
			s.logger.Warn("Migration raced with another process", zap.Error(err))
			return nil
		}
		return err
	}
	return nil
}

func (s *SchemaEnsurer) tableExists(ctx context.Context, table string) (bool, error) {
	var q string
	if s.dbType == config.DBTypePostgreSQL {
		q = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`
	} else {
		q = `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	}
	var count int
	if err := s.db.GetContext(ctx, &count, q, table); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *SchemaEnsurer) missingColumns(ctx context.Context, table string, columns []string) ([]string, error) {
	if len(columns) == 0 {
		return nil, nil
	}

	var q string
	if s.dbType == config.DBTypePostgreSQL {
		q = `SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = $1`
	} else {
		q = `SELECT name FROM pragma_table_info(?)`
	}
	var present []string
	if err := s.db.SelectContext(ctx, &present, q, table); err != nil {
		return nil, err
	}

	have := make(map[string]bool, len(present))
	for _, c := range present {
		have[c] = true
	}
	var missing []string
	for _, c := range columns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	return missing, nil
}
