package submission

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/goliatone/go-needle-survey/pkg/model"
)

// DefaultSheetsRange is the append target when none is configured.
const DefaultSheetsRange = "Responses!A1"

// SheetsClient appends each response as one row of a spreadsheet through the
// Sheets v4 API. Column order follows model.RowHeader.
type SheetsClient struct {
	service       *sheets.Service
	spreadsheetID string
	writeRange    string
	logger        *zap.Logger
}

var _ Client = (*SheetsClient)(nil)

// NewSheetsClient wraps an existing Sheets service.
func NewSheetsClient(service *sheets.Service, spreadsheetID, writeRange string, logger *zap.Logger) (*SheetsClient, error) {
	if service == nil {
		return nil, errors.New("submission: sheets service is nil")
	}
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("submission: spreadsheet id is required")
	}
	if strings.TrimSpace(writeRange) == "" {
		writeRange = DefaultSheetsRange
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetsClient{
		service:       service,
		spreadsheetID: spreadsheetID,
		writeRange:    writeRange,
		logger:        logger,
	}, nil
}

// Submit appends response.Row() below the last row of the configured range.
func (c *SheetsClient) Submit(ctx context.Context, response model.SurveyResponse) error {
	row := response.Row()
	cells := make([]any, len(row))
	for i, value := range row {
		cells[i] = value
	}

	_, err := c.service.Spreadsheets.Values.
		Append(c.spreadsheetID, c.writeRange, &sheets.ValueRange{Values: [][]any{cells}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return transportError("append row", err)
	}

	c.logger.Info("survey response appended",
		zap.String("spreadsheet_id", c.spreadsheetID),
		zap.String("participant_id", response.Demographics.ParticipantID),
	)
	return nil
}

// newSheetsService authenticates with a service-account key when one is
// configured and falls back to application default credentials otherwise.
func newSheetsService(ctx context.Context, cfg SheetsConfig, extra ...option.ClientOption) (*sheets.Service, error) {
	opts := append([]option.ClientOption(nil), extra...)
	if len(extra) == 0 {
		if path := strings.TrimSpace(cfg.CredentialsFile); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("submission: read sheets credentials: %w", err)
			}
			creds, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope)
			if err != nil {
				return nil, fmt.Errorf("submission: parse sheets credentials: %w", err)
			}
			opts = append(opts, option.WithCredentials(creds))
		} else {
			client, err := google.DefaultClient(ctx, sheets.SpreadsheetsScope)
			if err != nil {
				return nil, fmt.Errorf("submission: default sheets credentials: %w", err)
			}
			opts = append(opts, option.WithHTTPClient(client))
		}
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("submission: sheets service: %w", err)
	}
	return service, nil
}
