// Package sheets implements the store contract on top of a Google
// Sheets spreadsheet: one sheet tab per partition, row 1 as headers,
// every following row as one positional record.
package sheets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/depot-ledger/depot-ledger/internal/store"
)

// Store talks to one spreadsheet. It caches sheet ids by title since
// row deletion addresses sheets by numeric id rather than title; the
// cache refreshes whenever a title is not found.
type Store struct {
	svc           *sheetsapi.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// New creates a Sheets-backed store for the given spreadsheet.
// Credentials resolve through the standard Google client options
// (service account file or application default credentials).
func New(ctx context.Context, spreadsheetID string, opts ...option.ClientOption) (*Store, error) {
	svc, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: creating service: %w", err)
	}
	return &Store{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

func (s *Store) Partitions(ctx context.Context) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Get(s.spreadsheetID).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: listing partitions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh.Properties == nil {
			continue
		}
		names = append(names, sh.Properties.Title)
		s.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
	}
	return names, nil
}

func (s *Store) CreatePartition(ctx context.Context, name string) error {
	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: name},
			},
		}},
	}
	resp, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: creating partition %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range resp.Replies {
		if r.AddSheet != nil && r.AddSheet.Properties != nil {
			s.sheetIDs[r.AddSheet.Properties.Title] = r.AddSheet.Properties.SheetId
		}
	}
	return nil
}

func (s *Store) Headers(ctx context.Context, name string) ([]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rangeRef(name, "1:1")).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: reading headers of %q: %w", name, err)
	}
	if len(resp.Values) == 0 {
		return []string{}, nil
	}

	headers := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		headers = append(headers, fmt.Sprint(cell))
	}
	return headers, nil
}

func (s *Store) AppendHeaders(ctx context.Context, name string, headers []string) error {
	existing, err := s.Headers(ctx, name)
	if err != nil {
		return err
	}

	cells := make([]any, len(headers))
	for i, h := range headers {
		cells[i] = h
	}
	target := rangeRef(name, columnLetter(len(existing)+1)+"1")
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, target, &sheetsapi.ValueRange{
		Values: [][]any{cells},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: appending headers to %q: %w", name, err)
	}
	return nil
}

func (s *Store) FetchAllRows(ctx context.Context, name string) ([]store.Row, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rangeRef(name, "")).
		ValueRenderOption("UNFORMATTED_VALUE").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets: fetching rows of %q: %w", name, err)
	}
	if len(resp.Values) < 2 {
		return []store.Row{}, nil
	}

	headers := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		headers[i] = fmt.Sprint(cell)
	}

	rows := make([]store.Row, 0, len(resp.Values)-1)
	for _, values := range resp.Values[1:] {
		row := make(store.Row, len(headers))
		for i, h := range headers {
			if i < len(values) {
				row[h] = values[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) AppendRow(ctx context.Context, name string, values []any) error {
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, rangeRef(name, "A1"), &sheetsapi.ValueRange{
		Values: [][]any{values},
	}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: appending row to %q: %w", name, err)
	}
	return nil
}

func (s *Store) OverwriteRow(ctx context.Context, name string, index int, values []any) error {
	// Data row 0 lives on sheet row 2, below the header row.
	target := rangeRef(name, fmt.Sprintf("A%d", index+2))
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, target, &sheetsapi.ValueRange{
		Values: [][]any{values},
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: overwriting row %d of %q: %w", index, name, err)
	}
	return nil
}

func (s *Store) DeleteRow(ctx context.Context, name string, index int) error {
	sheetID, err := s.sheetID(ctx, name)
	if err != nil {
		return err
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(index + 1),
					EndIndex:   int64(index + 2),
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("sheets: deleting row %d of %q: %w", index, name, err)
	}
	return nil
}

// sheetID resolves a sheet tab's numeric id, refreshing the cache on a
// miss so tabs created by other clients are still found.
func (s *Store) sheetID(ctx context.Context, name string) (int64, error) {
	s.mu.Lock()
	id, ok := s.sheetIDs[name]
	s.mu.Unlock()
	if ok {
		return id, nil
	}

	if _, err := s.Partitions(ctx); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok = s.sheetIDs[name]
	if !ok {
		return 0, fmt.Errorf("sheets: partition not found: %s", name)
	}
	return id, nil
}

// rangeRef builds an A1 range reference with the sheet title quoted,
// since partition titles are not ASCII.
func rangeRef(title, ref string) string {
	quoted := "'" + strings.ReplaceAll(title, "'", "''") + "'"
	if ref == "" {
		return quoted
	}
	return quoted + "!" + ref
}

// columnLetter converts a 1-based column number to its A1 letters.
func columnLetter(n int) string {
	var letters []byte
	for n > 0 {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
		n /= 26
	}
	return string(letters)
}
