package common

import (
	"errors"
	"fmt"
	"io"
)

// Error kinds. Every decode failure wraps exactly one of these so callers can
// branch with errors.Is.
var (
	// ErrTruncatedInput means fewer bytes were available than a length or
	// offset field demanded.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrInvalidPointer means a base-relative value was below the base, a
	// null pointer was dereferenced, or a rebased address fell outside its
	// owning buffer.
	ErrInvalidPointer = errors.New("invalid pointer")
	// ErrDecompression means the payload decompressor rejected its input.
	ErrDecompression = errors.New("decompression failure")
	// ErrIO means the underlying stream failed to seek or read.
	ErrIO = errors.New("i/o failure")
	// ErrCyclicGraph means a scene graph or texture list revisited a node
	// or exceeded the recursion limit.
	ErrCyclicGraph = errors.New("cyclic graph")
)

// IOError classifies a stream error: running out of input is reported as
// ErrTruncatedInput, anything else as ErrIO. The original error stays in the
// chain.
func IOError(context string, err error) error {
	if err == nil {
		return nil
	}
	if IsKind(err) {
		return fmt.Errorf("%s: %w", context, err)
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%s: %w: %w", context, ErrTruncatedInput, err)
	}
	return fmt.Errorf("%s: %w: %w", context, ErrIO, err)
}

// Errorf builds an error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

// IsKind reports whether err already carries one of the error kinds.
func IsKind(err error) bool {
	for _, kind := range []error{ErrTruncatedInput, ErrInvalidPointer, ErrDecompression, ErrIO, ErrCyclicGraph} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
