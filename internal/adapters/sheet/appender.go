package sheet

import "context"

// Appender appends rows to a spreadsheet whose first row is a header row.
// Implementations map each row cell-for-cell onto the sheet's headers.
type Appender interface {
	// Headers returns the sheet's header row.
	Headers(ctx context.Context) ([]string, error)
	// AppendRow appends one row; len(row) must equal len(headers).
	AppendRow(ctx context.Context, row []string) error
}
