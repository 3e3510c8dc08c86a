package common

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrPrecondition is matched by every *PreconditionError via errors.Is.
var ErrPrecondition = errors.New("precondition violated")

// ErrInput is matched by every *InputError via errors.Is.
var ErrInput = errors.New("invalid input")

// PreconditionError reports a value object that could not be constructed because
// one of its fields was missing or out of range.
type PreconditionError struct {
	// Field names the offending field, e.g. "shadow.map_size".
	Field string
	// Reason is a short human readable description of the violated constraint.
	Reason string
}

// Preconditionf builds a *PreconditionError for field with a formatted reason.
//
// Parameters:
//   - field: the name of the offending field
//   - format: fmt-style format string for the reason
//   - args: format arguments
//
// Returns:
//   - error: the *PreconditionError
func Preconditionf(field, format string, args ...any) error {
	return &PreconditionError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// InputError reports text that could not be parsed for a named field.
type InputError struct {
	Field string
	Text  string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: cannot parse %q: %v", e.Field, e.Text, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

func (e *InputError) Is(target error) bool {
	return target == ErrInput
}

// ParseFloat32 parses text as a 32-bit float for the named field.
//
// Parameters:
//   - field: the field name reported on failure
//   - text: the text to parse; surrounding whitespace is ignored
//
// Returns:
//   - float32: the parsed value
//   - error: *InputError if text is not a valid float32
func ParseFloat32(field, text string) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
	if err != nil {
		return 0, &InputError{Field: field, Text: text, Err: unwrapNumError(err)}
	}
	return float32(f), nil
}

// ParseInt parses text as a base 10 int for the named field.
//
// Parameters:
//   - field: the field name reported on failure
//   - text: the text to parse; surrounding whitespace is ignored
//
// Returns:
//   - int: the parsed value
//   - error: *InputError if text is not a valid int
func ParseInt(field, text string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, &InputError{Field: field, Text: text, Err: unwrapNumError(err)}
	}
	return i, nil
}

// ParseUint64 parses text as a base 10 uint64 for the named field.
func ParseUint64(field, text string) (uint64, error) {
	u, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, &InputError{Field: field, Text: text, Err: unwrapNumError(err)}
	}
	return u, nil
}

// ParseBool parses text as a boolean for the named field.
func ParseBool(field, text string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(text))
	if err != nil {
		return false, &InputError{Field: field, Text: text, Err: unwrapNumError(err)}
	}
	return b, nil
}

// FormatFloat32 formats f with the shortest representation that parses back to
// the same float32 bits.
//
// Parameters:
//   - f: the value to format
//
// Returns:
//   - string: the canonical text form
func FormatFloat32(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func unwrapNumError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}
