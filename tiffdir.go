// Copyright 2026 Tomas Øklund
// SPDX-License-Identifier: MIT

// Package tiffdir reads the directory structure of TIFF files lazily:
// the header, the chain of image file directories (IFDs) and the typed
// values of each directory entry. Directories are read one at a time as
// the chain is walked and entry values stay on disk until asked for, so
// a file is never loaded whole. Both classic TIFF and BigTIFF are
// handled, in either byte order.
package tiffdir

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	byteOrderLittleEndian = 0x4949 // "II"
	byteOrderBigEndian    = 0x4d4d // "MM"

	versionClassic uint16 = 42
	versionBigTIFF uint16 = 43
)

// Options configures NewReader. R is the only required field.
type Options struct {
	// R supplies the TIFF bytes. All reads are positioned, so any reader
	// whose ReadAt is safe for concurrent use (an *os.File, a
	// *bytes.Reader) can back several readers and iterators at once.
	R io.ReaderAt

	// Size is the total size of R in bytes. If zero, it is probed from R
	// where possible. When the size is unknown the bounds checks that
	// need it are skipped; reads then fail at the real end of the source.
	Size int64

	// Warnf is called for recoverable oddities, such as a directory chain
	// that loops back on itself. Default: discard.
	Warnf func(string, ...any)

	// LimitEntries caps the entry count a single directory may declare.
	// Default 5000.
	LimitEntries uint32

	// LimitIFDs caps the number of directories one chain walk will
	// produce. Default 1000.
	LimitIFDs uint32
}

// Reader exposes the directory chain of one TIFF source.
type Reader struct {
	src     *source
	opts    Options
	version uint16
	first   uint64
}

// NewReader reads and validates the TIFF header in opts.R. It fails with
// ErrNotTIFF if the byte order marker or version number is not a
// recognized TIFF combination; no directory bytes are read before those
// checks pass. The returned Reader has done no directory I/O yet.
func NewReader(opts Options) (*Reader, error) {
	if opts.R == nil {
		return nil, fmt.Errorf("no reader provided")
	}

	const (
		defaultLimitEntries = 5000
		defaultLimitIFDs    = 1000
	)
	if opts.LimitEntries == 0 {
		opts.LimitEntries = defaultLimitEntries
	}
	if opts.LimitIFDs == 0 {
		opts.LimitIFDs = defaultLimitIFDs
	}
	if opts.Warnf == nil {
		opts.Warnf = func(string, ...any) {}
	}

	size := opts.Size
	if size <= 0 {
		size = sizeOf(opts.R)
	}

	var hdr [8]byte
	if err := readAtFull(opts.R, hdr[:], 0); err != nil {
		return nil, err
	}

	// The two marker bytes are equal, so any fixed order reads them.
	var order binary.ByteOrder
	switch marker := binary.BigEndian.Uint16(hdr[:2]); marker {
	case byteOrderLittleEndian:
		order = binary.LittleEndian
	case byteOrderBigEndian:
		order = binary.BigEndian
	default:
		return nil, newNotTIFFErrorf("unrecognized byte order marker 0x%04x", marker)
	}

	src := &source{r: opts.R, order: order, size: size}

	var first uint64
	version := order.Uint16(hdr[2:4])
	switch version {
	case versionClassic:
		first = uint64(order.Uint32(hdr[4:8]))
	case versionBigTIFF:
		// The BigTIFF header continues with the offset size, a pad word
		// and an 8-byte first offset.
		if n := order.Uint16(hdr[4:6]); n != 8 {
			return nil, newNotTIFFErrorf("BigTIFF offset size %d", n)
		}
		if n := order.Uint16(hdr[6:8]); n != 0 {
			return nil, newNotTIFFErrorf("BigTIFF header padding %d", n)
		}
		var rest [8]byte
		if err := src.readAt(rest[:], 8); err != nil {
			return nil, err
		}
		src.big = true
		first = order.Uint64(rest[:])
	default:
		return nil, newNotTIFFErrorf("unrecognized version %d", version)
	}

	return &Reader{src: src, opts: opts, version: version, first: first}, nil
}

// ByteOrder returns the byte order declared by the header.
func (r *Reader) ByteOrder() binary.ByteOrder { return r.src.order }

// Version returns the header's version number: 42 for classic TIFF, 43
// for BigTIFF.
func (r *Reader) Version() uint16 { return r.version }

// BigTIFF reports whether the source uses the BigTIFF generation.
func (r *Reader) BigTIFF() bool { return r.src.big }

// FirstOffset returns the absolute offset of the first directory. Zero
// means the file has no directories.
func (r *Reader) FirstOffset() uint64 { return r.first }

// IFDs returns a new walk over the directory chain, positioned before
// the first directory. The walk reads nothing until its first Next call,
// and every call to IFDs starts over from the first directory.
func (r *Reader) IFDs() *IFDs {
	return &IFDs{
		src:     r.src,
		opts:    r.opts,
		next:    r.first,
		visited: make(map[uint64]struct{}),
	}
}
