package stores

import (
	"context"
	"errors"
	"strings"
)

// Store gives the batch runner access to machine inputs and report outputs.
type Store interface {
	// ListInputs returns the identifiers of all input records.
	ListInputs(ctx context.Context) ([]string, error)

	// ReadInput returns the raw content of an input record.
	ReadInput(ctx context.Context, id string) ([]byte, error)

	// WriteReport stores the report text produced for an input record.
	WriteReport(ctx context.Context, id string, text string) error

	// Reset discards all previously written reports.
	Reset(ctx context.Context) error
}

// ReportSuffix is appended to the input stem to name its report.
const ReportSuffix = "_result.txt"

// ErrInvalidID is returned for identifiers that would escape the store.
var ErrInvalidID = errors.New("invalid input identifier")

// ReportName returns the report name for an input: everything before the
// first dot, followed by ReportSuffix. "machine.1.json" becomes
// "machine_result.txt".
func ReportName(id string) string {
	stem := id
	if i := strings.IndexByte(id, '.'); i >= 0 {
		stem = id[:i]
	}
	return stem + ReportSuffix
}
