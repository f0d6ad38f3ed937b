package main

import (
	"github.com/alecthomas/kong"

	"github.com/julianstephens/loomra/internal/cli"
	"github.com/julianstephens/loomra/internal/cli/system"
	"github.com/julianstephens/loomra/internal/config"
	"github.com/julianstephens/loomra/internal/constants"
	apperrors "github.com/julianstephens/loomra/internal/errors"
	"github.com/julianstephens/loomra/internal/logger"
	"github.com/julianstephens/loomra/internal/scheduler"
)

var CLI struct {
	Version   kong.VersionFlag
	Config    string `help:"SQLite database path or PostgreSQL connection string. Connection strings given here must NOT embed a password; use LOOMRA_DB_CONNECTION or the OS keyring instead." type:"string" default:"${default_config}" env:"LOOMRA_CONFIG"`
	WeekStart string `help:"First day of the week for weekly quotas and streaks." default:"monday" env:"LOOMRA_WEEK_START"`
	Timezone  string `help:"IANA timezone used to decide what 'today' is." default:"Local" env:"LOOMRA_TIMEZONE"`
	Debug     bool   `help:"Log debug output to stderr." env:"LOOMRA_DEBUG"`

	Init     system.InitCmd    `cmd:"" help:"Initialize loomra storage."`
	Migrate  system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Tui      system.TuiCmd     `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Habit    cli.HabitCmd      `cmd:"" help:"Manage habits."`
	Log      cli.LogCmd        `cmd:"" help:"Complete, skip or clear a habit for a day."`
	Today    cli.TodayCmd      `cmd:"" help:"Show a day's habits grouped by status."`
	Status   cli.StatusCmd     `cmd:"" help:"Show a status calendar."`
	Streak   cli.StreakCmd     `cmd:"" help:"Show current and best streaks."`
	Validate cli.ValidateCmd   `cmd:"" help:"Check habits and completion records for conflicts."`
	Doctor   cli.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Keyring  system.KeyringCmd `cmd:"" help:"Manage the database connection string in the OS keyring."`
	Backup   system.BackupCmd  `cmd:"" help:"Manage SQLite database backups."`
	Serve    system.ServeCmd   `cmd:"" help:"Serve a read-only JSON view over HTTP."`
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		apperrors.Fatal(err)
	}

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit scheduling and streak tracking"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"listen_addr":    constants.DefaultListenAddr,
		},
	)

	cfg, err := config.Load(config.Options{
		Config:    CLI.Config,
		WeekStart: CLI.WeekStart,
		Timezone:  CLI.Timezone,
		Debug:     CLI.Debug,
	})
	if err != nil {
		apperrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir}); err != nil {
		apperrors.Fatal(err)
	}
	logger.Debug("Configuration resolved", "store", cfg.Describe(), "week_start", cfg.WeekStart, "timezone", cfg.Location)

	store, err := cfg.OpenStore()
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	appCtx := cli.NewContext(store, scheduler.New(cfg.WeekStart, cfg.Location), cfg)
	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		apperrors.Fatal(err)
	}
}
