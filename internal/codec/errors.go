// Package codec holds the decoding primitives shared by the wire types: error kinds with
// field paths, a strict JSON object reader, the one-or-many adapter and ordered candidate
// decoding for untagged unions.
package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error kinds. Every decode failure wraps exactly one of these.
var (
	ErrMalformedHex           = errors.New("malformed hex")
	ErrOddLengthByteString    = errors.New("odd-length byte string")
	ErrOverflow               = errors.New("value overflows target width")
	ErrNoMatchingVariant      = errors.New("no matching variant")
	ErrUnknownField           = errors.New("unknown field")
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	ErrMissingField           = errors.New("missing field")
	ErrTooManySlots           = errors.New("too many topic slots")
	ErrInvalidSyncBoolean     = errors.New("invalid sync boolean")

	// ErrMalformedJSON covers input that is not JSON of the expected shape at all.
	ErrMalformedJSON = errors.New("malformed json")
)

// DecodeError reports a decode failure together with the path of the offending field.
type DecodeError struct {
	Kind   error
	Path   string
	Detail string
	// Cause is set when the failure aggregates other failures, e.g. every rejected
	// candidate of an untagged union.
	Cause error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.Error())
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (")
		b.WriteString(e.Cause.Error())
		b.WriteString(")")
	}
	return b.String()
}

func (e *DecodeError) Unwrap() error { return e.Kind }

// Errorf builds a DecodeError of the given kind with no path yet.
func Errorf(kind error, format string, args ...any) error {
	return &DecodeError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// MissingField reports an absent required field.
func MissingField(name string) error {
	return &DecodeError{Kind: ErrMissingField, Path: name}
}

// UnknownField reports a key that is not legal at this position.
func UnknownField(name string) error {
	return &DecodeError{Kind: ErrUnknownField, Path: name}
}

// WithField prefixes the path of err with an object key. Errors that are not
// DecodeErrors (e.g. syntax errors from encoding/json) are converted so the path is kept.
func WithField(err error, key string) error {
	return prefix(err, key)
}

// WithIndex prefixes the path of err with an array index.
func WithIndex(err error, i int) error {
	return prefix(err, "["+strconv.Itoa(i)+"]")
}

func prefix(err error, seg string) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		return &DecodeError{Kind: ErrMalformedJSON, Path: seg, Detail: err.Error()}
	}
	out := *de
	switch {
	case out.Path == "":
		out.Path = seg
	case strings.HasPrefix(out.Path, "["):
		out.Path = seg + out.Path
	default:
		out.Path = seg + "." + out.Path
	}
	return &out
}

// PathOf returns the field path recorded in err, if any.
func PathOf(err error) string {
	var de *DecodeError
	if errors.As(err, &de) {
		return de.Path
	}
	return ""
}
