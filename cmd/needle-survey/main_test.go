package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "tui"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("expected %s subcommand, got %v", name, err)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil || root.PersistentFlags().Lookup("log-level") == nil {
		t.Fatalf("expected persistent config and log-level flags")
	}
}

func TestSetupLoadsConfigAndLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.yaml")
	if err := os.WriteFile(path, []byte("study:\n  title: Pilot\nlog:\n  level: info\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	a := &app{configPath: path, logLevel: "error"}
	if err := a.setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if a.cfg.Study.Title != "Pilot" || a.cfg.Log.Level != "error" {
		t.Fatalf("unexpected config: %+v", a.cfg)
	}
	if a.logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug logging should be disabled at error level")
	}
}

func TestPromptLoggerRaisesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	a := &app{configPath: path}
	if err := a.setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	logger, err := a.promptLogger()
	if err != nil {
		t.Fatalf("prompt logger: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info logging should be off while prompting")
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("warnings should still be logged")
	}
}

func TestPromptLoggerKeepsExplicitLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "survey.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	a := &app{configPath: path, logLevel: "debug"}
	if err := a.setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	logger, err := a.promptLogger()
	if err != nil {
		t.Fatalf("prompt logger: %v", err)
	}
	if logger != a.logger || !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("expected the --log-level logger to be kept")
	}
}

func TestSetupRejectsBadConfig(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml"), "tui"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected missing config error")
	}
}
