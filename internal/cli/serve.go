package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/blockout/internal/constants"
	"github.com/julianstephens/blockout/internal/lockfile"
	"github.com/julianstephens/blockout/internal/logger"
	"github.com/julianstephens/blockout/internal/server"
	"github.com/julianstephens/blockout/internal/storage/remote"
)

type ServeCmd struct {
	Addr string `help:"Address to listen on." default:"${serve_addr}"`
}

func (c *ServeCmd) Run(ctx *Context) error {
	store, err := ctx.LoadedStore()
	if err != nil {
		return err
	}
	if _, ok := store.(*remote.Store); ok {
		return fmt.Errorf("cannot serve a remote store, point --config at local storage")
	}

	ln, err := net.Listen("tcp", c.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}
	defer ln.Close()

	port := ln.Addr().(*net.TCPAddr).Port
	release, err := lockfile.Acquire(lockfile.Path(ctx.ConfigDir()), port)
	if err != nil {
		return err
	}
	defer func() {
		if err := release(); err != nil {
			logger.Warn("Failed to remove lockfile", "error", err)
		}
	}()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx.printf("Serving %s on http://%s%s/\n", store.GetConfigPath(), ln.Addr(), constants.APIPrefix)
	logger.Info("Server started", "addr", ln.Addr().String(), "storage", store.GetConfigPath())

	if err := server.New(store).Serve(sigCtx, ln); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}
