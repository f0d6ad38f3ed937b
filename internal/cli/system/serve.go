package system

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/loomra/internal/cli"
	"github.com/julianstephens/loomra/internal/constants"
	"github.com/julianstephens/loomra/internal/httpapi"
	"github.com/julianstephens/loomra/internal/logger"
)

type ServeCmd struct {
	Addr string `help:"Listen address." default:"${listen_addr}" env:"LOOMRA_LISTEN_ADDR"`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	if err := ctx.Load(); err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.serve(sigCtx, ctx)
}

// serve blocks until the server fails or ctx is cancelled, then shuts down.
func (c *ServeCmd) serve(runCtx context.Context, ctx *cli.Context) error {
	addr := c.Addr
	if addr == "" {
		addr = constants.DefaultListenAddr
	}
	srv := httpapi.New(ctx.Service).Server(addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	ctx.Printf("Serving %s read-only view on http://%s\n", constants.AppName, addr)
	logger.Info("HTTP server started", "addr", addr, "store", ctx.Config.Describe())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-runCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}
