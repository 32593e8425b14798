// Copyright 2026 Tomas Øklund
// SPDX-License-Identifier: MIT

package tiffdir

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"go4.org/readerutil"
)

var errShortRead = errors.New("short read")

// 10 MB should be plenty for any directory value worth materializing.
const maxBufSize = 10 * 1024 * 1024

// source is the byte source established by the header: the underlying
// reader plus the byte order and generation every later read depends on.
// All reads are positioned, so iterators derived from the same source
// never share a cursor and may be driven independently.
type source struct {
	r     io.ReaderAt
	order binary.ByteOrder
	size  int64 // total size in bytes, or -1 when unknown
	big   bool  // BigTIFF generation
}

// sizeOf reports the total size of r if it can be determined cheaply,
// or -1.
func sizeOf(r io.ReaderAt) int64 {
	if sr, ok := r.(readerutil.SizeReaderAt); ok {
		return sr.Size()
	}
	if rr, ok := r.(io.Reader); ok {
		if size, ok := readerutil.Size(rr); ok {
			return size
		}
	}
	return -1
}

// readAtFull fills b from r at the absolute offset off. Short reads are
// normalized to io.ErrUnexpectedEOF; other errors pass through unchanged.
func readAtFull(r io.ReaderAt, b []byte, off int64) error {
	n, err := r.ReadAt(b, off)
	if n == len(b) {
		return nil
	}
	switch err {
	case nil:
		return errShortRead
	case io.EOF:
		return io.ErrUnexpectedEOF
	}
	return err
}

func (s *source) readAt(b []byte, off int64) error {
	return readAtFull(s.r, b, off)
}

// cursorAt returns a cursor reading sequentially from off toward the end
// of the source.
func (s *source) cursorAt(off int64) *cursor {
	end := int64(math.MaxInt64)
	if s.size >= 0 {
		end = s.size
	}
	if end < off {
		end = off
	}
	return &cursor{r: io.NewSectionReader(s.r, off, end-off), order: s.order}
}

// valueSection returns a reader over count values of the given width
// starting at off. Extents that do not fit in an int64 are clamped to the
// addressable range; reads then fail at the source's real end.
func (s *source) valueSection(off uint64, width int, count uint64) io.Reader {
	if off > math.MaxInt64 {
		return io.NewSectionReader(s.r, math.MaxInt64, 0)
	}
	n := uint64(width) * count
	if count > uint64(math.MaxInt64)/uint64(width) || n > uint64(math.MaxInt64-int64(off)) {
		n = uint64(math.MaxInt64 - int64(off))
	}
	return io.NewSectionReader(s.r, int64(off), int64(n))
}

// cursor reads fixed-width fields sequentially from one region of the
// source, applying its byte order. Each directory parse gets its own.
type cursor struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

// read returns n bytes from the cursor. The slice aliases the cursor's
// scratch buffer and is only valid until the next read.
func (c *cursor) read(n int) ([]byte, error) {
	if _, err := io.ReadFull(c.r, c.buf[:n]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return c.buf[:n], nil
}

func (c *cursor) read2() (uint16, error) {
	b, err := c.read(2)
	if err != nil {
		return 0, err
	}
	return c.order.Uint16(b), nil
}

func (c *cursor) read4() (uint32, error) {
	b, err := c.read(4)
	if err != nil {
		return 0, err
	}
	return c.order.Uint32(b), nil
}

func (c *cursor) read8() (uint64, error) {
	b, err := c.read(8)
	if err != nil {
		return 0, err
	}
	return c.order.Uint64(b), nil
}
