// Package sqlstore implements the habit and completion queries shared by the
// SQLite and PostgreSQL backends. Queries are written with ? placeholders and
// rebound for the target dialect.
package sqlstore

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/julianstephens/loomra/internal/errors"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

const timestampLayout = time.RFC3339Nano

// Store runs the shared queries against DB. Backends embed it and set DB once
// their connection is open.
type Store struct {
	DB      *sql.DB
	Dialect Dialect
}

func (s *Store) db() (*sql.DB, error) {
	if s.DB == nil {
		return nil, apperrors.ErrNotInitialized
	}
	return s.DB, nil
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func (s *Store) rebind(query string) string {
	if s.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(query string, args ...any) (sql.Result, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}
	return db.Exec(s.rebind(query), args...)
}

func (s *Store) query(query string, args ...any) (*sql.Rows, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}
	return db.Query(s.rebind(query), args...)
}

func (s *Store) queryRow(query string, args ...any) (*sql.Row, error) {
	db, err := s.db()
	if err != nil {
		return nil, err
	}
	return db.QueryRow(s.rebind(query), args...), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func parseTime(field, value string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", field, err)
	}
	return t, nil
}

func parseNullTime(field string, value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	t, err := parseTime(field, value.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
