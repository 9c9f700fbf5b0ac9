package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-needle-survey/internal/server"
	"github.com/goliatone/go-needle-survey/pkg/renderers/html"
	"github.com/goliatone/go-needle-survey/pkg/wizard"
)

const sweepInterval = time.Minute

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the survey wizard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func (a *app) serve(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := a.submissionClient(ctx)
	if err != nil {
		return err
	}
	renderer, err := html.New(
		html.WithTitle(a.cfg.Study.Title),
		html.WithIntro(a.cfg.Study.Intro),
	)
	if err != nil {
		return err
	}

	store := server.NewSessionStore(func() *wizard.Controller {
		return wizard.New(client, wizard.WithLogger(a.logger))
	}, a.cfg.Server.SessionTTL, server.WithStoreLogger(a.logger))

	srv, err := server.New(ctx, store, server.WithLogger(a.logger), server.WithRenderer(renderer))
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("survey server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return store.Run(gctx, sweepInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutting down", zap.Duration("grace", a.cfg.Server.ShutdownGrace))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownGrace)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
