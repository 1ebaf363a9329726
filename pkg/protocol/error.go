package protocol

import (
	"errors"
	"fmt"
)

// Decoding and encoding errors.
var (
	ErrTruncated           = errors.New("protocol: unexpected end of body")
	ErrMalformedLength     = errors.New("protocol: malformed length")
	ErrVarintOverflow      = errors.New("protocol: varint overflow")
	ErrInvalidDiscriminant = errors.New("protocol: invalid discriminant")
	ErrFrameTooLarge       = errors.New("protocol: frame too large")
	ErrNotCaptured         = errors.New("protocol: raw message has no captured body")
)

// DiscriminantError reports an enumerated field whose value has no mapping.
type DiscriminantError struct {
	Field string
	Value uint64
}

func (e *DiscriminantError) Error() string {
	return fmt.Sprintf("protocol: invalid discriminant %d for %s", e.Value, e.Field)
}

// Unwrap makes errors.Is(err, ErrInvalidDiscriminant) hold.
func (e *DiscriminantError) Unwrap() error {
	return ErrInvalidDiscriminant
}

func invalidDiscriminant(field string, v uint64) error {
	return &DiscriminantError{Field: field, Value: v}
}

// DecodeError wraps a body decoding failure with the frame it came from.
// Offset is the body offset at which decoding stopped.
type DecodeError struct {
	ID     MessageID
	Module ModuleID
	Offset int
	Err    error
}

func (e *DecodeError) Error() string {
	if e.ID == IDNetModule {
		return fmt.Sprintf("decode message %d module %d at offset %d: %v", e.ID, e.Module, e.Offset, e.Err)
	}
	return fmt.Sprintf("decode message %d at offset %d: %v", e.ID, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ErrorKind returns a short, stable label for err, suitable for metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrTruncated):
		return "truncated"
	case errors.Is(err, ErrMalformedLength):
		return "malformed_length"
	case errors.Is(err, ErrVarintOverflow):
		return "varint_overflow"
	case errors.Is(err, ErrInvalidDiscriminant):
		return "invalid_discriminant"
	case errors.Is(err, ErrFrameTooLarge):
		return "frame_too_large"
	case errors.Is(err, ErrNotCaptured):
		return "not_captured"
	default:
		return "other"
	}
}
