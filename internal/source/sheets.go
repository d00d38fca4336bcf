package source

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"prismadash/internal"
	"prismadash/internal/config"
)

// SheetsClient reads ranges of a private spreadsheet through the Google
// Sheets API. SheetRef.Location is the A1 range, e.g. "Dados!A:AZ".
type SheetsClient struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewSheetsClient(ctx context.Context, cfg config.Config) (*SheetsClient, error) {
	if err := cfg.Require("GOOGLE_CLIENT_ID", cfg.GoogleClientID); err != nil {
		return nil, err
	}
	if err := cfg.Require("GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret); err != nil {
		return nil, err
	}
	if err := cfg.Require("GOOGLE_REFRESH_TOKEN", cfg.GoogleRefreshToken); err != nil {
		return nil, err
	}
	if err := cfg.Require("SHEETS_SPREADSHEET_ID", cfg.SheetsSpreadsheetID); err != nil {
		return nil, err
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.GoogleRedirectURI,
		Scopes:       []string{sheets.SpreadsheetsReadonlyScope},
	}

	tokenSource := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.GoogleRefreshToken})
	svc, err := sheets.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &SheetsClient{service: svc, spreadsheetID: cfg.SheetsSpreadsheetID}, nil
}

func (c *SheetsClient) FetchSheet(ctx context.Context, ref SheetRef) (internal.Dataset, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, ref.Location).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return internal.Dataset{}, fmt.Errorf("sheet %s: %w", ref.Name, err)
	}
	table, err := valuesToTable(resp.Values)
	if err != nil {
		return internal.Dataset{}, fmt.Errorf("sheet %s: %w", ref.Name, err)
	}
	return DecodeTable(ref.Name, table), nil
}

func valuesToTable(values [][]interface{}) (internal.Table, error) {
	if len(values) == 0 {
		return internal.Table{}, errors.New("empty range")
	}
	toStrings := func(row []interface{}) []string {
		out := make([]string, len(row))
		for i, v := range row {
			if v == nil {
				continue
			}
			out[i] = fmt.Sprint(v)
		}
		return out
	}

	t := internal.Table{Columns: toStrings(values[0]), Rows: make([][]string, 0, len(values)-1)}
	for _, row := range values[1:] {
		t.Rows = append(t.Rows, toStrings(row))
	}
	return t, nil
}
