package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"flockwatch/internal/components"
	"flockwatch/internal/config"
)

func Run() error {
	cfg, err := config.Load()
	if err != nil {
		components.SetupLogger("local").Error("load config failed", "err", err)
		return err
	}
	logger := components.SetupLogger(cfg.Env)

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	comps, err := components.InitComponents(appCtx, cfg, logger)
	if err != nil {
		logger.Error("could not init components", "err", err)
		return err
	}

	// a failing server cancels gctx, which stops the workers too
	g, gctx := errgroup.WithContext(appCtx)

	g.Go(func() error {
		defer logger.Info("http server stopped")
		return comps.HttpServer.Run(gctx)
	})

	if comps.EventForwarder != nil {
		g.Go(func() error {
			comps.EventForwarder.Run(gctx)
			return nil
		})
	}

	if comps.FeedRefresher != nil {
		g.Go(func() error {
			comps.FeedRefresher.Run(gctx)
			return nil
		})
	}

	quitChan := make(chan os.Signal, 1)
	signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quitChan:
		logger.Info("captured signal, initiating shutdown", "signal", sig.String())
	case <-gctx.Done():
		logger.Warn("background task exited, initiating shutdown")
	}
	cancel()

	runErr := g.Wait()
	if runErr != nil {
		logger.Error("http server failed", "err", runErr)
	}

	logger.Info("shutting down the services...")
	comps.ShutdownAll()
	logger.Info("gracefully shutting down the servers")

	return runErr
}
