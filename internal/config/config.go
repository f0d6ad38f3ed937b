// Package config resolves the runtime configuration: which store to open and
// how the calendar is laid out (week start, timezone).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/julianstephens/loomra/internal/constants"
	"github.com/julianstephens/loomra/internal/keyring"
	"github.com/julianstephens/loomra/internal/storage"
	"github.com/julianstephens/loomra/internal/storage/postgres"
	"github.com/julianstephens/loomra/internal/utils"
)

// Source records where the storage target came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
	SourceDefault Source = "default"
)

// Options are the raw values of the global flags (kong fills them, env included).
type Options struct {
	Config    string
	WeekStart string
	Timezone  string
	Debug     bool
}

// Config is the resolved runtime configuration.
type Config struct {
	Target    string
	Source    Source
	WeekStart time.Weekday
	Location  *time.Location
	ConfigDir string
	Debug     bool
}

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none)
// without overriding variables already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Resolve builds the Config. The storage target is the first of: an explicit
// --config, LOOMRA_DB_CONNECTION, the keyring connection string, the default
// SQLite path. lookupKeyring may be nil to skip the keyring.
func Resolve(opts Options, lookupKeyring func() (string, bool)) (Config, error) {
	cfg := Config{Debug: opts.Debug}

	weekStart := opts.WeekStart
	if weekStart == "" {
		weekStart = constants.DefaultWeekStart.String()
	}
	wd, err := utils.ParseWeekday(weekStart)
	if err != nil {
		return Config{}, fmt.Errorf("invalid week start: %w", err)
	}
	cfg.WeekStart = wd

	loc, err := utils.LoadLocation(opts.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("invalid timezone %q: %w", opts.Timezone, err)
	}
	cfg.Location = loc

	switch {
	case opts.Config != "" && opts.Config != constants.DefaultConfigPath:
		cfg.Target, cfg.Source = opts.Config, SourceFlag
	case os.Getenv(constants.EnvDBConnection) != "":
		cfg.Target, cfg.Source = os.Getenv(constants.EnvDBConnection), SourceEnv
	default:
		if lookupKeyring != nil {
			if connStr, ok := lookupKeyring(); ok {
				cfg.Target, cfg.Source = connStr, SourceKeyring
				break
			}
		}
		cfg.Target, cfg.Source = constants.DefaultConfigPath, SourceDefault
	}

	if cfg.IsPostgres() {
		cfg.ConfigDir, err = storage.ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	} else {
		cfg.Target, err = storage.ExpandPath(cfg.Target)
		cfg.ConfigDir = filepath.Dir(cfg.Target)
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load is Resolve with the OS keyring.
func Load(opts Options) (Config, error) {
	return Resolve(opts, keyring.Lookup)
}

// IsPostgres reports whether Target is a PostgreSQL connection string.
func (c Config) IsPostgres() bool {
	return postgres.IsConnString(c.Target)
}

// OpenStore returns the storage provider for the target. Connection strings
// given on the command line must not carry a password; the keyring and the
// environment are allowed to.
func (c Config) OpenStore() (storage.Provider, error) {
	if c.IsPostgres() && c.Source != SourceFlag {
		return storage.NewPostgres(c.Target), nil
	}
	if c.IsPostgres() && storage.HasEmbeddedCredentials(c.Target) {
		return nil, fmt.Errorf("%w: store it with '%s keyring set' or export %s instead",
			postgres.ErrEmbeddedCredentials, constants.AppName, constants.EnvDBConnection)
	}
	return storage.New(c.Target)
}

// Describe renders the target for display without leaking a password.
func (c Config) Describe() string {
	if c.IsPostgres() {
		return strings.TrimSpace(keyring.MaskPassword(c.Target)) + " (" + string(c.Source) + ")"
	}
	return c.Target + " (" + string(c.Source) + ")"
}
