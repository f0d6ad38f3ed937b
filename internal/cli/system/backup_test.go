package system

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/loomra/internal/backup"
	"github.com/julianstephens/loomra/internal/config"
	"github.com/julianstephens/loomra/internal/models"
)

func TestBackupCreateListRestore(t *testing.T) {
	ctx, dbPath, out := setupTestContext(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := ctx.Store.AddHabit(models.Habit{ID: "h1", Name: "Read", StartDate: "2024-01-01"}); err != nil {
		t.Fatalf("AddHabit() failed: %v", err)
	}

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	backups, err := backup.NewManager(dbPath).List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("List() = %v, %v; want one backup", backups, err)
	}
	name := filepath.Base(backups[0].Path)

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(out.String(), name) {
		t.Errorf("list output = %q, missing %s", out.String(), name)
	}

	if err := ctx.Store.DeleteHabit("h1"); err != nil {
		t.Fatalf("DeleteHabit() failed: %v", err)
	}

	// declining leaves the database alone
	ctx.In = strings.NewReader("n\n")
	out.Reset()
	if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
		t.Fatalf("declined restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("output = %q, want cancellation", out.String())
	}

	ctx.In = strings.NewReader("yes\n")
	if err := (&BackupRestoreCmd{BackupFile: name}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if err := ctx.Store.Load(); err != nil {
		t.Fatalf("reload after restore failed: %v", err)
	}
	if _, err := ctx.Store.GetHabitByName("Read"); err != nil {
		t.Errorf("restored habit missing: %v", err)
	}
}

func TestBackupRestoreUnknownFile(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if err := (&BackupRestoreCmd{BackupFile: "loomra-nope.db", Yes: true}).Run(ctx); err == nil {
		t.Error("restore of an unknown file succeeded")
	}
}

func TestBackupRefusesPostgres(t *testing.T) {
	ctx, _, _ := setupTestContext(t)
	ctx.Config = config.Config{Target: "postgres://user@localhost/loomra", Source: config.SourceFlag}
	if err := (&BackupCreateCmd{}).Run(ctx); err == nil {
		t.Error("backup create on PostgreSQL succeeded")
	}
}
