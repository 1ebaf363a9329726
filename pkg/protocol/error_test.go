package protocol

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "none"},
		{ErrTruncated, "truncated"},
		{ErrMalformedLength, "malformed_length"},
		{ErrVarintOverflow, "varint_overflow"},
		{invalidDiscriminant("X", 9), "invalid_discriminant"},
		{ErrFrameTooLarge, "frame_too_large"},
		{ErrNotCaptured, "not_captured"},
		{&DecodeError{ID: 1, Err: ErrTruncated}, "truncated"},
		{fmt.Errorf("relay: %w", ErrMalformedLength), "malformed_length"},
		{errors.New("boom"), "other"},
	}

	for _, tc := range tests {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestDecodeErrorMessage(t *testing.T) {
	err := &DecodeError{ID: IDItemOwner, Offset: 2, Err: ErrTruncated}
	want := "decode message 22 at offset 2: protocol: unexpected end of body"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = &DecodeError{ID: IDNetModule, Module: ModuleText, Offset: 0, Err: ErrTruncated}
	want = "decode message 82 module 1 at offset 0: protocol: unexpected end of body"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestDiscriminantError(t *testing.T) {
	err := invalidDiscriminant("TileModify.Kind", 40)
	if !errors.Is(err, ErrInvalidDiscriminant) {
		t.Error("errors.Is(err, ErrInvalidDiscriminant) = false")
	}
	if errors.Is(err, ErrTruncated) {
		t.Error("invalid discriminant reported as truncation")
	}
	want := "protocol: invalid discriminant 40 for TileModify.Kind"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
