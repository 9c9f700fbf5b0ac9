package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-needle-survey/internal/logging"
	"github.com/goliatone/go-needle-survey/pkg/renderers/html"
	"github.com/goliatone/go-needle-survey/pkg/renderers/tui"
	"github.com/goliatone/go-needle-survey/pkg/wizard"
)

func newTUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the survey in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}
}

func (a *app) runTUI(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	defer stop()

	logger, err := a.promptLogger()
	if err != nil {
		return err
	}
	a.logger = logger

	client, err := a.submissionClient(ctx)
	if err != nil {
		return err
	}
	controller := wizard.New(client, wizard.WithLogger(a.logger))

	title := a.cfg.Study.Title
	if title == "" {
		title = html.DefaultTitle
	}
	runner, err := tui.NewRunner(controller, tui.WithLogger(a.logger), tui.WithTitle(title))
	if err != nil {
		return err
	}
	if err := runner.Run(ctx); err != nil && !errors.Is(err, tui.ErrAborted) {
		return err
	}
	return nil
}

// promptLogger keeps stderr quiet while prompts are on screen: below warn is
// dropped unless --log-level asked for it.
func (a *app) promptLogger() (*zap.Logger, error) {
	if a.logLevel != "" {
		return a.logger, nil
	}
	level, err := zapcore.ParseLevel(a.cfg.Log.Level)
	if err == nil && level >= zapcore.WarnLevel {
		return a.logger, nil
	}
	return logging.New(zapcore.WarnLevel.String(), a.cfg.Log.Format)
}
