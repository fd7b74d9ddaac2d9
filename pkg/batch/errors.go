package batch

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Stage names the step of the per-file pipeline that failed.
type Stage string

const (
	// StageRead indicates the input could not be read from the store.
	StageRead Stage = "read"

	// StageDecode indicates the input is not a well-formed machine record.
	StageDecode Stage = "decode"

	// StageWrite indicates the report could not be written.
	StageWrite Stage = "write"
)

// FileError reports why a single input was skipped. A FileError never
// aborts the batch.
type FileError struct {
	// ID is the input identifier.
	ID string `json:"id"`

	// Stage is the pipeline step that failed.
	Stage Stage `json:"stage"`

	// Err is the underlying error.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s failed", e.ID, e.Stage)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.ID, e.Stage, e.Err)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *FileError) Unwrap() error {
	return e.Err
}

// MarshalJSON includes the error message, which Err alone would lose.
func (e *FileError) MarshalJSON() ([]byte, error) {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return json.Marshal(struct {
		ID      string `json:"id"`
		Stage   Stage  `json:"stage"`
		Message string `json:"message"`
	}{e.ID, e.Stage, msg})
}

func newFileError(id string, stage Stage, err error) *FileError {
	return &FileError{ID: id, Stage: stage, Err: err}
}

// AsFileError extracts a FileError from an error chain.
func AsFileError(err error) (*FileError, bool) {
	var fe *FileError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// FailedAt reports whether err is a FileError raised at the given stage.
func FailedAt(err error, stage Stage) bool {
	fe, ok := AsFileError(err)
	return ok && fe.Stage == stage
}
