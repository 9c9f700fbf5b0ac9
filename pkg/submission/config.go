package submission

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Transport names accepted by New.
const (
	TransportAppsScript = "apps-script"
	TransportSheets     = "sheets"
)

// Config selects and parameterises a transport.
type Config struct {
	Transport string
	Endpoint  string
	Sheets    SheetsConfig
}

// SheetsConfig holds the Sheets transport settings.
type SheetsConfig struct {
	SpreadsheetID   string
	Range           string
	CredentialsFile string
}

// New builds the Client described by cfg. An empty transport selects the
// Apps Script endpoint. sheetsOptions replace the credential lookup for the
// Sheets transport and are ignored otherwise.
func New(ctx context.Context, cfg Config, logger *zap.Logger, sheetsOptions ...option.ClientOption) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Transport)) {
	case "", TransportAppsScript:
		return NewHTTPClient(WithEndpoint(cfg.Endpoint), WithLogger(logger)), nil
	case TransportSheets:
		service, err := newSheetsService(ctx, cfg.Sheets, sheetsOptions...)
		if err != nil {
			return nil, err
		}
		return NewSheetsClient(service, cfg.Sheets.SpreadsheetID, cfg.Sheets.Range, logger)
	default:
		return nil, fmt.Errorf("submission: unknown transport %q", cfg.Transport)
	}
}
