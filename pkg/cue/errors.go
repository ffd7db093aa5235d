package cue

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTime      = errors.New("invalid MM:SS:FF time")
	ErrUnknownCommand   = errors.New("unknown cue command")
	ErrMalformedCommand = errors.New("malformed cue command")
	ErrNoTrack          = errors.New("command appears before any TRACK")
)

// LineError describes a cue sheet line that could not be used. Such lines are skipped; the rest of the sheet
// still loads.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
