package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	apperrors "github.com/julianstephens/loomra/internal/errors"
	"github.com/julianstephens/loomra/internal/logger"
	"github.com/julianstephens/loomra/internal/migration"
	"github.com/julianstephens/loomra/internal/storage/sqlstore"
	"github.com/julianstephens/loomra/migrations"
)

// Store is the SQLite Provider backed by a single database file.
type Store struct {
	sqlstore.Store
	path string
}

// NewStore returns an unopened store for the database at path.
func NewStore(path string) *Store {
	return &Store{
		Store: sqlstore.Store{Dialect: sqlstore.DialectSQLite},
		path:  path,
	}
}

func (s *Store) open() error {
	// foreign keys are off by default in SQLite
	db, err := sql.Open("sqlite", s.path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.DB = db
	return nil
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if s.DB == nil {
		if err := s.open(); err != nil {
			return err
		}
	}

	if _, err := s.ApplyMigrations(func(msg string) { logger.Info(msg) }); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Open connects to an existing database without checking its schema version.
func (s *Store) Open() error {
	if s.DB != nil {
		return nil
	}
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return apperrors.ErrNotInitialized
	}
	return s.open()
}

func (s *Store) Load() error {
	if err := s.Open(); err != nil {
		return err
	}
	return s.runner().ValidateVersion()
}

func (s *Store) Close() error {
	if s.DB != nil {
		err := s.DB.Close()
		s.DB = nil
		return err
	}
	return nil
}

func (s *Store) runner() *migration.Runner {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		// the embedded tree is fixed at build time
		panic(fmt.Sprintf("sqlite migrations missing from build: %v", err))
	}
	return migration.NewRunner(s.DB, subFS, migration.DriverSQLite)
}

// ApplyMigrations brings the schema up to date and returns the number of
// migrations applied.
func (s *Store) ApplyMigrations(logFn func(string)) (int, error) {
	if s.DB == nil {
		return 0, apperrors.ErrNotInitialized
	}
	return s.runner().ApplyMigrations(logFn)
}

// SchemaStatus compares the connected database with the embedded migrations.
func (s *Store) SchemaStatus() (migration.Status, error) {
	if s.DB == nil {
		return migration.Status{}, apperrors.ErrNotInitialized
	}
	return s.runner().Status()
}

func (s *Store) GetConfigPath() string {
	return s.path
}
