package netcalc

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFamily       = errors.New("unknown address family")
	ErrInvalidSyntax       = errors.New("invalid syntax")
	ErrFamilyMismatch      = errors.New("address family mismatch")
	ErrInvalidPrefixLength = errors.New("invalid prefix length")
	ErrInvalidRange        = errors.New("invalid range")
)

// ConversionError describes the first token that could not be converted.
// Position is 1-based among the tokens produced by Tokenize and is zero when
// the failure is not tied to a token (unknown family).
type ConversionError struct {
	Err      error
	Token    string
	Position int
}

func (e *ConversionError) Error() string {
	switch {
	case e.Position > 0:
		return fmt.Sprintf("%v: token %d %q", e.Err, e.Position, e.Token)
	case e.Token != "":
		return fmt.Sprintf("%v: %q", e.Err, e.Token)
	default:
		return e.Err.Error()
	}
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Kind returns a stable identifier for the failure, suitable for API clients.
func (e *ConversionError) Kind() string {
	switch {
	case errors.Is(e.Err, ErrUnknownFamily):
		return "UnknownFamily"
	case errors.Is(e.Err, ErrFamilyMismatch):
		return "FamilyMismatch"
	case errors.Is(e.Err, ErrInvalidPrefixLength):
		return "InvalidPrefixLength"
	case errors.Is(e.Err, ErrInvalidRange):
		return "InvalidRange"
	default:
		return "InvalidSyntax"
	}
}

func tokenError(err error, token string) *ConversionError {
	return &ConversionError{Err: err, Token: token}
}
