// Package sheets implements the expense sink on top of the Google Sheets
// API. Each month token maps to one worksheet of the configured spreadsheet.
package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	apperrors "github.com/gsantin/spesebot/internal/errors"
	"github.com/gsantin/spesebot/internal/expense"
	"github.com/gsantin/spesebot/internal/sink"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	logger        *zap.Logger
}

var _ sink.Sink = (*Client)(nil)

// Config holds Google Sheets sink settings.
type Config struct {
	SpreadsheetID   string
	CredentialsFile string
	CredentialsJSON string
}

// New creates a Sheets client from service-account credentials. Credentials
// may be passed inline or as a file path; inline wins.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.SpreadsheetID == "" {
		return nil, apperrors.Wrap(nil, apperrors.ErrSinkUnavailable.Code, "missing spreadsheet id")
	}

	credentials := []byte(cfg.CredentialsJSON)
	if len(credentials) == 0 {
		if cfg.CredentialsFile == "" {
			return nil, apperrors.Wrap(nil, apperrors.ErrSinkUnavailable.Code, "missing service account credentials")
		}
		raw, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrSinkUnavailable.Code, "read service account file")
		}
		credentials = raw
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope),
	)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrSinkUnavailable.Code, "create sheets service")
	}

	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// Append writes one row to the worksheet named by the month token. Values go
// through USER_ENTERED so the spreadsheet parses the price as a number.
func (c *Client) Append(ctx context.Context, month string, rec expense.Record) error {
	vr := &gsheet.ValueRange{
		Values: [][]interface{}{rec.Row()},
	}

	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, fmt.Sprintf("%s!A:E", month), vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrSinkAppend.Code, fmt.Sprintf("append to worksheet %s", month))
	}

	c.logger.Info("expense appended",
		zap.String("month", month),
		zap.String("name", rec.Name),
		zap.String("price", rec.Price.StringFixed(2)))
	return nil
}

// EnsureWorksheet adds a worksheet named after the month token if it does
// not exist yet. The API rejects duplicate titles, which is how idempotency
// is detected.
func (c *Client) EnsureWorksheet(ctx context.Context, month string) error {
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: month},
			},
		}},
	}

	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return nil
		}
		return apperrors.Wrap(err, apperrors.ErrSinkUnavailable.Code, fmt.Sprintf("ensure worksheet %s", month))
	}

	c.logger.Info("worksheet created", zap.String("month", month))
	return nil
}
