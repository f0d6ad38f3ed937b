package system

import (
	"fmt"

	"github.com/julianstephens/loomra/internal/cli"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	// an outdated schema must not stop us from opening the database
	if err := ctx.Store.Open(); err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer ctx.Store.Close()

	// migrations rewrite tables in place
	ctx.PerformAutomaticBackup()

	count, err := ctx.Store.ApplyMigrations(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
