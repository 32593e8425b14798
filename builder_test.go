// Copyright 2026 Tomas Øklund
// SPDX-License-Identifier: MIT

package tiffdir_test

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/toklund/tiffdir"

	qt "github.com/frankban/quicktest"
)

// tiffBuilder assembles TIFF byte layouts for tests: classic or BigTIFF,
// either byte order, arbitrary directory graphs including loops and
// broken shapes.
type tiffBuilder struct {
	order binary.ByteOrder
	big   bool
	buf   []byte
}

func newTIFF(order binary.ByteOrder) *tiffBuilder {
	return &tiffBuilder{order: order}
}

func newBigTIFF(order binary.ByteOrder) *tiffBuilder {
	return &tiffBuilder{order: order, big: true}
}

func (b *tiffBuilder) pos() uint64 { return uint64(len(b.buf)) }

func (b *tiffBuilder) fieldSize() int {
	if b.big {
		return 8
	}
	return 4
}

func (b *tiffBuilder) u8(vs ...uint8) *tiffBuilder {
	b.buf = append(b.buf, vs...)
	return b
}

func (b *tiffBuilder) u16(vs ...uint16) *tiffBuilder {
	var s [2]byte
	for _, v := range vs {
		b.order.PutUint16(s[:], v)
		b.buf = append(b.buf, s[:]...)
	}
	return b
}

func (b *tiffBuilder) u32(vs ...uint32) *tiffBuilder {
	var s [4]byte
	for _, v := range vs {
		b.order.PutUint32(s[:], v)
		b.buf = append(b.buf, s[:]...)
	}
	return b
}

func (b *tiffBuilder) u64(vs ...uint64) *tiffBuilder {
	var s [8]byte
	for _, v := range vs {
		b.order.PutUint64(s[:], v)
		b.buf = append(b.buf, s[:]...)
	}
	return b
}

// header writes the byte order marker, version and first-directory
// offset. Call it first; patch the offset later with setFirst if the
// directory position is not known yet.
func (b *tiffBuilder) header(first uint64) *tiffBuilder {
	if b.order == binary.LittleEndian {
		b.u8('I', 'I')
	} else {
		b.u8('M', 'M')
	}
	if b.big {
		b.u16(43, 8, 0)
		b.u64(first)
	} else {
		b.u16(42)
		b.u32(uint32(first))
	}
	return b
}

// ent describes one directory entry. A non-nil val is written into the
// value field (padded with zeros to the field width); otherwise off is
// written as the out-of-line value offset.
type ent struct {
	tag   uint16
	typ   tiffdir.EntryType
	count uint64
	val   []byte
	off   uint64
}

// dir appends a directory and returns the offset it was written at.
func (b *tiffBuilder) dir(next uint64, entries ...ent) uint64 {
	off := b.pos()
	if b.big {
		b.u64(uint64(len(entries)))
	} else {
		b.u16(uint16(len(entries)))
	}
	for _, e := range entries {
		b.u16(e.tag, uint16(e.typ))
		if b.big {
			b.u64(e.count)
		} else {
			b.u32(uint32(e.count))
		}
		field := make([]byte, b.fieldSize())
		if e.val != nil {
			copy(field, e.val)
		} else if b.big {
			b.order.PutUint64(field, e.off)
		} else {
			b.order.PutUint32(field, uint32(e.off))
		}
		b.u8(field...)
	}
	if b.big {
		b.u64(next)
	} else {
		b.u32(uint32(next))
	}
	return off
}

// blob appends raw out-of-line value bytes and returns their offset.
func (b *tiffBuilder) blob(p []byte) uint64 {
	off := b.pos()
	b.buf = append(b.buf, p...)
	return off
}

// setFirst patches the header's first-directory offset.
func (b *tiffBuilder) setFirst(off uint64) {
	if b.big {
		b.order.PutUint64(b.buf[8:], off)
	} else {
		b.order.PutUint32(b.buf[4:], uint32(off))
	}
}

// setNext patches the next-offset field of the directory at dirOff
// holding n entries.
func (b *tiffBuilder) setNext(dirOff uint64, n int, next uint64) {
	at := dirOff + 2 + uint64(n)*12
	if b.big {
		at = dirOff + 8 + uint64(n)*20
		b.order.PutUint64(b.buf[at:], next)
		return
	}
	b.order.PutUint32(b.buf[at:], uint32(next))
}

// encU16 encodes values back to back in the builder's byte order, for
// inline fields and blobs. encU32, encU64 and encRat do the same for
// their widths.
func (b *tiffBuilder) encU16(vals ...uint16) []byte {
	out := make([]byte, 0, 2*len(vals))
	var s [2]byte
	for _, v := range vals {
		b.order.PutUint16(s[:], v)
		out = append(out, s[:]...)
	}
	return out
}

func (b *tiffBuilder) encU32(vals ...uint32) []byte {
	out := make([]byte, 0, 4*len(vals))
	var s [4]byte
	for _, v := range vals {
		b.order.PutUint32(s[:], v)
		out = append(out, s[:]...)
	}
	return out
}

func (b *tiffBuilder) encU64(vals ...uint64) []byte {
	out := make([]byte, 0, 8*len(vals))
	var s [8]byte
	for _, v := range vals {
		b.order.PutUint64(s[:], v)
		out = append(out, s[:]...)
	}
	return out
}

func (b *tiffBuilder) encRat(pairs ...uint32) []byte {
	return b.encU32(pairs...)
}

func (b *tiffBuilder) bytes() []byte { return b.buf }

func (b *tiffBuilder) reader() *bytes.Reader { return bytes.NewReader(b.buf) }

// singleEntry finishes a builder that already has its header (and any
// blobs) with a one-entry directory, then reads that entry back.
func singleEntry(c *qt.C, b *tiffBuilder, e ent) tiffdir.Entry {
	c.Helper()
	d0 := b.dir(0, e)
	b.setFirst(d0)

	r, err := tiffdir.NewReader(tiffdir.Options{R: b.reader()})
	c.Assert(err, qt.IsNil)

	ifds := r.IFDs()
	c.Assert(ifds.Next(), qt.IsTrue, qt.Commentf("err: %v", ifds.Err()))
	entries := ifds.IFD().Entries()
	c.Assert(entries, qt.HasLen, 1)
	return entries[0]
}

// countingReaderAt records ReadAt traffic for assertions about laziness.
// It implements only io.ReaderAt, so the source size stays unknown
// unless the test passes one.
type countingReaderAt struct {
	r      io.ReaderAt
	reads  int
	maxEnd int64 // highest offset+len touched
}

func (r *countingReaderAt) ReadAt(p []byte, off int64) (int, error) {
	r.reads++
	if end := off + int64(len(p)); end > r.maxEnd {
		r.maxEnd = end
	}
	return r.r.ReadAt(p, off)
}
