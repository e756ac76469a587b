package media

import (
	"errors"
	"fmt"
)

// --- Error Definitions ---
var (
	ErrInvalidInput = errors.New("no binary input provided")
	ErrEmptyBuffer  = errors.New("binary input is empty")
)

// UnsupportedTypeError reports an input value outside the recognized set
// of buffer shapes, carrying the observed type name for diagnostics.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported buffer type: %s", e.Type)
}

// The closed set of input shapes Normalize accepts. Callers pick the
// variant matching how the bytes arrived instead of handing over an
// ambiguous blob.

// RawBytes is a native byte slice.
type RawBytes []byte

// ByteArray is a sequence of integer byte values (e.g. decoded from a
// JSON array of numbers).
type ByteArray []int

// WrappedBytes is an envelope exposing its payload under a Data field,
// as produced by some serializers.
type WrappedBytes struct {
	Data []byte
}

// Normalize converts any of the recognized input shapes into a canonical
// byte slice. It is a pure transformation: nil input fails with
// ErrInvalidInput, a recognized shape with no content fails with
// ErrEmptyBuffer, and anything outside the set fails with
// *UnsupportedTypeError naming the observed type.
func Normalize(src any) ([]byte, error) {
	if src == nil {
		return nil, ErrInvalidInput
	}

	switch v := src.(type) {
	case RawBytes:
		if len(v) == 0 {
			return nil, ErrEmptyBuffer
		}
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil

	case []byte:
		if len(v) == 0 {
			return nil, ErrEmptyBuffer
		}
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil

	case ByteArray:
		if len(v) == 0 {
			return nil, ErrEmptyBuffer
		}
		out := make([]byte, len(v))
		for i, n := range v {
			if n < 0 || n > 255 {
				return nil, &UnsupportedTypeError{Type: fmt.Sprintf("ByteArray with out-of-range element %d", n)}
			}
			out[i] = byte(n)
		}
		return out, nil

	case WrappedBytes:
		if len(v.Data) == 0 {
			return nil, ErrEmptyBuffer
		}
		out := make([]byte, len(v.Data))
		copy(out, v.Data)
		return out, nil

	case *WrappedBytes:
		if v == nil {
			return nil, ErrInvalidInput
		}
		return Normalize(*v)

	default:
		return nil, &UnsupportedTypeError{Type: fmt.Sprintf("%T", src)}
	}
}
