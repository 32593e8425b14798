// Copyright 2026 Tomas Øklund
// SPDX-License-Identifier: MIT

package tiffdir

import (
	"errors"
	"fmt"
)

var (
	// ErrNotTIFF is returned by NewReader when the header's byte order
	// marker or version number is not a recognized TIFF combination.
	ErrNotTIFF = errors.New("not a TIFF file")

	// ErrMalformedDirectory is returned when a directory declares a shape
	// that cannot be read: an empty or implausible entry count, an offset
	// that points inside the header or past the end of the source, or a
	// value too large to materialize.
	ErrMalformedDirectory = errors.New("malformed directory")

	// ErrTypeMismatch is returned when an entry's values are requested in
	// a representation that cannot decode the entry's type code. It is
	// reported before any value bytes are read.
	ErrTypeMismatch = errors.New("entry type mismatch")
)

func newNotTIFFErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotTIFF}, args...)...)
}

func newMalformedDirectoryErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrMalformedDirectory}, args...)...)
}

func newTypeMismatchErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrTypeMismatch}, args...)...)
}
