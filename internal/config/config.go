package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-needle-survey/pkg/submission"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "NEEDLE_SURVEY_"

// Config is the runtime configuration shared by the serve and tui commands.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Study      StudyConfig      `yaml:"study"`
	Submission SubmissionConfig `yaml:"submission"`
	Log        LogConfig        `yaml:"log"`
}

type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

// StudyConfig holds the copy shown above the survey. Empty values fall back
// to the built-in study text.
type StudyConfig struct {
	Title string `yaml:"title"`
	Intro string `yaml:"intro"`
}

type SubmissionConfig struct {
	Transport string       `yaml:"transport"`
	Endpoint  string       `yaml:"endpoint"`
	Sheets    SheetsConfig `yaml:"sheets"`
}

type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	Range           string `yaml:"range"`
	CredentialsFile string `yaml:"credentials_file"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			ShutdownGrace: 5 * time.Second,
			SessionTTL:    2 * time.Hour,
		},
		Submission: SubmissionConfig{
			Transport: submission.TransportAppsScript,
			Sheets:    SheetsConfig{Range: submission.DefaultSheetsRange},
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration in layers: defaults, then the YAML file at
// path (optional), then variables from envFiles (".env" when none are named;
// missing files are ignored), then NEEDLE_SURVEY_* environment overrides.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	if err := loadEnvFiles(envFiles...); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("ADDR", &c.Server.Addr)
	if err := dur("SHUTDOWN_GRACE", &c.Server.ShutdownGrace); err != nil {
		return err
	}
	if err := dur("SESSION_TTL", &c.Server.SessionTTL); err != nil {
		return err
	}
	str("TITLE", &c.Study.Title)
	str("INTRO", &c.Study.Intro)
	str("TRANSPORT", &c.Submission.Transport)
	str("ENDPOINT", &c.Submission.Endpoint)
	str("SHEETS_ID", &c.Submission.Sheets.SpreadsheetID)
	str("SHEETS_RANGE", &c.Submission.Sheets.Range)
	str("SHEETS_CREDENTIALS", &c.Submission.Sheets.CredentialsFile)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	return nil
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return errors.New("config: server.addr is required")
	}
	if c.Server.SessionTTL <= 0 {
		return errors.New("config: server.session_ttl must be positive")
	}
	if c.Server.ShutdownGrace < 0 {
		return errors.New("config: server.shutdown_grace must not be negative")
	}
	switch strings.ToLower(c.Submission.Transport) {
	case "", submission.TransportAppsScript:
	case submission.TransportSheets:
		if strings.TrimSpace(c.Submission.Sheets.SpreadsheetID) == "" {
			return errors.New("config: submission.sheets.spreadsheet_id is required for the sheets transport")
		}
	default:
		return fmt.Errorf("config: unknown submission.transport %q", c.Submission.Transport)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("config: unknown log.format %q", c.Log.Format)
	}
	return nil
}

// SubmissionClientConfig converts the submission settings for submission.New.
func (c *Config) SubmissionClientConfig() submission.Config {
	return submission.Config{
		Transport: c.Submission.Transport,
		Endpoint:  c.Submission.Endpoint,
		Sheets: submission.SheetsConfig{
			SpreadsheetID:   c.Submission.Sheets.SpreadsheetID,
			Range:           c.Submission.Sheets.Range,
			CredentialsFile: c.Submission.Sheets.CredentialsFile,
		},
	}
}
