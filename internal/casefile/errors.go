package casefile

import (
	"errors"
	"fmt"

	"ames-casefile/internal/model"
)

// Kinds of FormatError. Use errors.Is to tell them apart.
var (
	ErrUnexpectedKeyword = errors.New("unexpected keyword")
	ErrFieldCount        = errors.New("wrong field count")
	ErrBadNumber         = errors.New("unparseable number")
	ErrMissingTerminator = errors.New("missing section terminator")
	ErrUnknownZone       = errors.New("unknown zone name")
	ErrBadValue          = errors.New("bad value")
	ErrDuplicateName     = errors.New("duplicate name")

	ErrUnknownNoLoadNames = model.ErrUnknownNoLoadNames
)

// FormatError is a fatal problem with the case text. Line is the 1-based
// physical line number, or 0 when the problem is not tied to one line.
type FormatError struct {
	Source string
	Line   int
	Msg    string
	Err    error
}

func (e *FormatError) Error() string {
	src := e.Source
	if src == "" {
		src = "<input>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", src, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", src, e.Msg)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Warning is a non-fatal diagnostic. It never changes what gets parsed.
type Warning struct {
	Source  string `json:"source,omitempty"`
	Line    int    `json:"line,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", w.Source, w.Line, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Source, w.Message)
}
