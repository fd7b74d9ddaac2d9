package machine

import (
	"errors"
	"fmt"
)

// StructuralError reports a machine record that cannot be evaluated because
// a required section is missing or has the wrong shape.
type StructuralError struct {
	// Source is the record name, usually the input file name.
	Source string `json:"source,omitempty"`

	// Path is the dotted location of the offending field.
	Path string `json:"path,omitempty"`

	// Message describes the problem.
	Message string `json:"message"`

	// Err is the underlying parse error, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	if e.Source != "" {
		msg = fmt.Sprintf("%s: %s", e.Source, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return "structural error: " + msg
}

// Unwrap returns the underlying error.
func (e *StructuralError) Unwrap() error {
	return e.Err
}

func structural(path, format string, args ...interface{}) *StructuralError {
	return &StructuralError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// IsStructural returns true if err is or wraps a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}
