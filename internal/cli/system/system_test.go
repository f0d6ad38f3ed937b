package system

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/loomra/internal/cli"
	"github.com/julianstephens/loomra/internal/config"
	"github.com/julianstephens/loomra/internal/scheduler"
	"github.com/julianstephens/loomra/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) (*cli.Context, string, *bytes.Buffer) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	cfg := config.Config{Target: dbPath, Source: config.SourceFlag, WeekStart: time.Monday, Location: time.UTC}
	ctx := cli.NewContext(store, scheduler.New(time.Monday, time.UTC), cfg)
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, dbPath, out
}
