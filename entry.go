// Copyright 2026 Tomas Øklund
// SPDX-License-Identifier: MIT

package tiffdir

import "fmt"

// Entry is one fixed-size record of a directory: a tag, a type code, a
// value count and the raw value field. Per the TIFF convention the value
// field holds the value bytes themselves when they fit, otherwise the
// absolute offset of the value bytes elsewhere in the source.
//
// An Entry is an immutable value; decoding never changes it, so its
// values can be re-read any number of times.
type Entry struct {
	src   *source
	tag   uint16
	typ   EntryType
	count uint64

	// The raw value field, undecoded. The first 4 bytes are meaningful in
	// classic TIFF, all 8 in BigTIFF.
	value [8]byte
}

// Tag returns the entry's tag number. Tag semantics are the caller's
// business; this package only carries the number.
func (e Entry) Tag() uint16 { return e.tag }

// Type returns the entry's type code, which may be unrecognized.
func (e Entry) Type() EntryType { return e.typ }

// Count returns the number of values the entry declares.
func (e Entry) Count() uint64 { return e.count }

// String formats the entry as "tag 256 SHORT[1]".
func (e Entry) String() string {
	return fmt.Sprintf("tag %d %s[%d]", e.tag, e.typ, e.count)
}

// ValueLocation says where an entry's value bytes live. When Inline is
// non-nil the bytes sit in the entry's own value field; otherwise Offset
// is their absolute position in the source.
type ValueLocation struct {
	Inline []byte
	Offset uint64
}

// IsInline reports whether the location is the inline variant.
func (l ValueLocation) IsInline() bool { return l.Inline != nil }

// ValueLocation resolves the inline rule for e: values whose total width
// fits in the value field (4 bytes classic, 8 BigTIFF) are stored inline,
// left-aligned; anything larger is stored at an offset. The resolution is
// computed from already-read fields and costs no I/O. It reports ok=false
// when the entry's type code is unrecognized, since the total width is
// then unknowable.
func (e Entry) ValueLocation() (ValueLocation, bool) {
	width, ok := e.typ.Size()
	if !ok {
		return ValueLocation{}, false
	}
	fieldSize := valueFieldSize(e.src.big)
	if e.count <= fieldSize/uint64(width) {
		return ValueLocation{Inline: e.value[:e.count*uint64(width)]}, true
	}
	return ValueLocation{Offset: e.valueFieldOffset()}, true
}

// valueFieldOffset interprets the raw value field as an absolute offset.
func (e Entry) valueFieldOffset() uint64 {
	if e.src.big {
		return e.src.order.Uint64(e.value[:8])
	}
	return uint64(e.src.order.Uint32(e.value[:4]))
}
