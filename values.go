// Copyright 2026 Tomas Øklund
// SPDX-License-Identifier: MIT

package tiffdir

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Value enumerates the representations an entry can decode into. Each
// representation decodes the type codes in its capability set; see
// typeSetFor. The terms are exact types so the decode dispatch in
// decodeValue is total.
type Value interface {
	uint8 | uint16 | uint32 | uint64 |
		int8 | int16 | int32 | int64 |
		float32 | float64 |
		Rational[uint32] | Rational[int32]
}

// typeSetFor returns the set of type codes the representation T may
// decode. Requesting any type code outside the set is a type mismatch,
// never a silent reinterpretation.
func typeSetFor[T Value]() typeSet {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return newTypeSet(TypeByte, TypeUndefined, TypeASCII)
	case uint16:
		return newTypeSet(TypeShort)
	case uint32:
		return newTypeSet(TypeLong)
	case uint64:
		return newTypeSet(TypeLong8, TypeIFD8)
	case int8:
		return newTypeSet(TypeSByte)
	case int16:
		return newTypeSet(TypeSShort)
	case int32:
		return newTypeSet(TypeSLong)
	case int64:
		return newTypeSet(TypeSLong8)
	case float32:
		return newTypeSet(TypeFloat)
	case float64:
		return newTypeSet(TypeDouble)
	case Rational[uint32]:
		return newTypeSet(TypeRational)
	case Rational[int32]:
		return newTypeSet(TypeSRational)
	}
	return 0
}

func decodeValue[T Value](b []byte, order binary.ByteOrder) T {
	var v T
	switch p := any(&v).(type) {
	case *uint8:
		*p = b[0]
	case *uint16:
		*p = order.Uint16(b)
	case *uint32:
		*p = order.Uint32(b)
	case *uint64:
		*p = order.Uint64(b)
	case *int8:
		*p = int8(b[0])
	case *int16:
		*p = int16(order.Uint16(b))
	case *int32:
		*p = int32(order.Uint32(b))
	case *int64:
		*p = int64(order.Uint64(b))
	case *float32:
		*p = math.Float32frombits(order.Uint32(b))
	case *float64:
		*p = math.Float64frombits(order.Uint64(b))
	case *Rational[uint32]:
		*p = Rational[uint32]{Num: order.Uint32(b[:4]), Den: order.Uint32(b[4:8])}
	case *Rational[int32]:
		*p = Rational[int32]{Num: int32(order.Uint32(b[:4])), Den: int32(order.Uint32(b[4:8]))}
	}
	return v
}

// ValueIter decodes the values of one entry into T lazily, in on-disk
// order. It is single use: a read failure exhausts it, and a finished
// iterator stays finished. Constructing a fresh one with Values restarts
// from the first value.
type ValueIter[T Value] struct {
	r     io.Reader
	order binary.ByteOrder
	width int
	n     uint64 // values not yet produced
	cur   T
	err   error
	buf   [8]byte
}

// Values returns an iterator over the values of e decoded as T. It fails
// with ErrTypeMismatch, before any value bytes are read, if T's
// capability set does not include the entry's type code.
func Values[T Value](e Entry) (*ValueIter[T], error) {
	if !typeSetFor[T]().has(e.typ) {
		var zero T
		return nil, newTypeMismatchErrorf("cannot decode %s as %T", e.typ, zero)
	}
	// In the capability set, so the type code is recognized.
	width, _ := e.typ.Size()
	loc, _ := e.ValueLocation()

	var r io.Reader
	if loc.IsInline() {
		r = bytes.NewReader(loc.Inline)
	} else {
		r = e.src.valueSection(loc.Offset, width, e.count)
	}
	return &ValueIter[T]{r: r, order: e.src.order, width: width, n: e.count}, nil
}

// Next advances to the next value. It returns false when all values have
// been produced or a read failed; Err tells the two apart.
func (it *ValueIter[T]) Next() bool {
	if it.err != nil || it.n == 0 {
		return false
	}
	if _, err := io.ReadFull(it.r, it.buf[:it.width]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		it.err = err
		it.n = 0
		return false
	}
	it.cur = decodeValue[T](it.buf[:it.width], it.order)
	it.n--
	return true
}

// Value returns the value produced by the last successful Next.
func (it *ValueIter[T]) Value() T { return it.cur }

// Err returns the read error that stopped iteration, if any.
func (it *ValueIter[T]) Err() error { return it.err }

// AllValues collects every value of e decoded as T. Entries whose total
// value size exceeds an internal cap are rejected as malformed rather
// than materialized.
func AllValues[T Value](e Entry) ([]T, error) {
	it, err := Values[T](e)
	if err != nil {
		return nil, err
	}
	if e.count > maxBufSize/uint64(it.width) {
		return nil, newMalformedDirectoryErrorf("%s: %d values of width %d exceed max %d bytes", e, e.count, it.width, uint64(maxBufSize))
	}
	vs := make([]T, 0, e.count)
	for it.Next() {
		vs = append(vs, it.Value())
	}
	if it.err != nil {
		return nil, it.err
	}
	return vs, nil
}

// Text decodes an ASCII entry as one string. The on-disk count includes a
// trailing NUL by convention; Text trims any trailing NULs and tolerates
// a missing terminator. Bytes that are not valid UTF-8 are decoded as
// Latin-1, which never fails.
func (e Entry) Text() (string, error) {
	b, err := e.textBytes()
	if err != nil {
		return "", err
	}
	return decodeText(bytes.TrimRight(b, "\x00")), nil
}

// Texts decodes an ASCII entry holding one or more NUL-terminated
// strings, one string per terminator.
func (e Entry) Texts() ([]string, error) {
	b, err := e.textBytes()
	if err != nil {
		return nil, err
	}
	b = bytes.TrimRight(b, "\x00")
	if len(b) == 0 {
		return nil, nil
	}
	parts := bytes.Split(b, []byte{0})
	ss := make([]string, len(parts))
	for i, p := range parts {
		ss[i] = decodeText(p)
	}
	return ss, nil
}

func (e Entry) textBytes() ([]byte, error) {
	if e.typ != TypeASCII {
		return nil, newTypeMismatchErrorf("cannot decode %s as text", e.typ)
	}
	if e.count > maxBufSize {
		return nil, newMalformedDirectoryErrorf("%s: value size %d exceeds max %d", e, e.count, uint64(maxBufSize))
	}
	loc, _ := e.ValueLocation()
	if loc.IsInline() {
		return loc.Inline, nil
	}
	if loc.Offset > math.MaxInt64 {
		return nil, io.ErrUnexpectedEOF
	}
	b := make([]byte, e.count)
	if err := e.src.readAt(b, int64(loc.Offset)); err != nil {
		return nil, err
	}
	return b, nil
}

func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	s, _ := charmap.ISO8859_1.NewDecoder().Bytes(b)
	return string(s)
}
