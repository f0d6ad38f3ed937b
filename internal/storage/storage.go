package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/loomra/internal/storage/postgres"
	"github.com/julianstephens/loomra/internal/storage/sqlite"
)

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
)

// New picks the adapter for target: a PostgreSQL URL or DSN opens the
// postgres store, anything else is a SQLite file path ("~" is expanded).
func New(target string) (Provider, error) {
	if postgres.IsConnString(target) {
		if _, err := postgres.ValidateConnString(target); err != nil {
			return nil, err
		}
		return postgres.New(target), nil
	}

	path, err := ExpandPath(target)
	if err != nil {
		return nil, err
	}
	return sqlite.NewStore(path), nil
}

// NewPostgres opens a connection string taken from a trusted source (the
// keyring or the environment), where an embedded password is allowed.
func NewPostgres(connStr string) Provider {
	return postgres.New(connStr)
}

// HasEmbeddedCredentials reports whether a PostgreSQL connection string carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	_, err := postgres.ValidateConnString(connStr)
	return errors.Is(err, postgres.ErrEmbeddedCredentials)
}

// ExpandPath resolves a leading "~" to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
