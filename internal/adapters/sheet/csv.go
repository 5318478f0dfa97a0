package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// CSVAppender appends rows to a local CSV file that stands in for the
// practice's booking spreadsheet. The file's first row is the header row;
// if the file does not exist it is created with the given headers.
type CSVAppender struct {
	mu      sync.Mutex
	path    string
	headers []string
}

// NewCSVAppender creates a CSVAppender for the given file path.
// PRE: path is writable; defaultHeaders is non-empty
// POST: Returns a ready appender; the file is created lazily on first write
func NewCSVAppender(path string, defaultHeaders []string) *CSVAppender {
	return &CSVAppender{path: path, headers: defaultHeaders}
}

// Headers returns the sheet's header row, reading it from the file when
// present and falling back to the configured defaults.
// PRE: none
// POST: Returns a non-empty header row
func (a *CSVAppender) Headers(ctx context.Context) ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	f, err := os.Open(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return a.headers, nil
		}
		return nil, fmt.Errorf("open sheet: %w", err)
	}
	defer f.Close()

	record, err := csv.NewReader(f).Read()
	if err != nil {
		return nil, fmt.Errorf("read sheet headers: %w", err)
	}
	return record, nil
}

// AppendRow appends one row to the sheet, writing the header row first if
// the file is new.
// PRE: len(row) equals the header count
// POST: Row is durably appended
func (a *CSVAppender) AppendRow(ctx context.Context, row []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	info, err := os.Stat(a.path)
	writeHeader := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open sheet for append: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(a.headers); err != nil {
			return fmt.Errorf("write sheet headers: %w", err)
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("append sheet row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	slog.Info("sheet_row_appended", "path", a.path, "cells", len(row))
	return nil
}
