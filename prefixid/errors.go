package prefixid

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedPrefix is the sentinel wrapped by every *ParseError.
	ErrMalformedPrefix = errors.New("prefixid: malformed identifier prefix")
	// ErrTypeMismatch is the sentinel wrapped by every *TypeMismatchError.
	ErrTypeMismatch = errors.New("prefixid: identifier must be a string")
	// ErrNumericID is returned when a number is presented as an identifier.
	// Identifiers are never derived from numeric surrogates.
	ErrNumericID = errors.New("prefixid: identifier cannot be built from a number")
	// ErrNullID is returned when NULL is scanned into a required identifier.
	ErrNullID = errors.New("prefixid: null identifier")
	// ErrZeroID is returned when a zero ID is encoded or stored.
	ErrZeroID = errors.New("prefixid: zero identifier")
	// ErrInvalidPrefix is returned by Descriptor.Validate.
	ErrInvalidPrefix = errors.New("prefixid: invalid prefix")
)

// ParseError describes a candidate whose prefix matched none of the
// prefixes accepted by the target kind.
type ParseError struct {
	// TypeName is the display name of the target kind.
	TypeName string
	// Expected describes the accepted prefixes, e.g.
	// "identifier to start with `usr` or `user`".
	Expected string
	// Candidate is the rejected input.
	Candidate string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid `%s`, expected %s", e.TypeName, e.Expected)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedPrefix
}

// TypeMismatchError reports a non-string value presented at an encoding
// boundary where an identifier was expected.
type TypeMismatchError struct {
	TypeName string
	// Got names what was received: "number", "null", "bool", a YAML tag or a Go type.
	Got string
	// Err optionally narrows the failure, e.g. ErrNumericID.
	Err error
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("invalid `%s`, expected string, got %s", e.TypeName, e.Got)
}

// Unwrap exposes both ErrTypeMismatch and the narrower cause, if any.
func (e *TypeMismatchError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTypeMismatch, e.Err}
	}
	return []error{ErrTypeMismatch}
}

// expectedPrefixes renders the accepted prefix list for error messages.
func expectedPrefixes(accepted []string) string {
	quoted := make([]string, len(accepted))
	for i, p := range accepted {
		quoted[i] = "`" + p + "`"
	}
	return "identifier to start with " + strings.Join(quoted, " or ")
}
