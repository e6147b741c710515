package abi

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrItemNotFound is returned by Contract lookups that match nothing.
	ErrItemNotFound = errors.New("abi: item not found")

	// ErrAmbiguousName is returned when a plain name matches several
	// overloads; disambiguate with the full signature form.
	ErrAmbiguousName = errors.New("abi: ambiguous name, use the full signature")
)

// UnknownTypeError reports a type string the codec does not support. It is
// raised while loading a schema, never during encode or decode.
type UnknownTypeError struct {
	TypeString string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("abi: unknown type %q", e.TypeString)
}

// SchemaError reports a structurally invalid ABI schema document.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "abi: invalid schema: " + e.Reason
}

func schemaErrorf(format string, args ...interface{}) error {
	return &SchemaError{Reason: fmt.Sprintf(format, args...)}
}

// DecodeError reports truncated or malformed encoded data, naming the type
// being decoded and the absolute byte offset at which decoding failed.
type DecodeError struct {
	Type   string
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("abi: cannot decode %s at byte offset %d: %s", e.Type, e.Offset, e.Reason)
}

// EncodeError reports an argument the encoder cannot represent as the
// declared type.
type EncodeError struct {
	Type   string
	Reason string
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("abi: cannot encode %s: %s", e.Type, e.Reason)
}

func encodeErrorf(t Type, format string, args ...interface{}) error {
	return &EncodeError{Type: t.String(), Reason: fmt.Sprintf(format, args...)}
}
