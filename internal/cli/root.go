package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/loomra/internal/backup"
	"github.com/julianstephens/loomra/internal/config"
	"github.com/julianstephens/loomra/internal/logger"
	"github.com/julianstephens/loomra/internal/scheduler"
	"github.com/julianstephens/loomra/internal/service"
	"github.com/julianstephens/loomra/internal/storage"
)

type Context struct {
	Store     storage.Provider
	Scheduler *scheduler.Scheduler
	Service   *service.Service
	Config    config.Config
	// Out receives command output; nil means stdout.
	Out io.Writer
	// In supplies confirmations; nil means stdin.
	In io.Reader
}

// NewContext wires the service layer over store and sched.
func NewContext(store storage.Provider, sched *scheduler.Scheduler, cfg config.Config) *Context {
	return &Context{
		Store:     store,
		Scheduler: sched,
		Service:   service.New(store, sched),
		Config:    cfg,
	}
}

func (c *Context) Writer() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Reader() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Writer(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Writer(), args...)
}

// Load opens the store, checking the schema version.
func (c *Context) Load() error {
	return c.Store.Load()
}

func (c *Context) Print(args ...any) {
	fmt.Fprint(c.Writer(), args...)
}

// PerformAutomaticBackup snapshots a SQLite store. Failures are logged, never returned.
func (c *Context) PerformAutomaticBackup() {
	if c.Config.IsPostgres() {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
