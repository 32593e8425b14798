// Copyright 2026 Tomas Øklund
// SPDX-License-Identifier: MIT

package tiffdir

import (
	"iter"
	"math"
)

// On-disk widths that differ between the classic and BigTIFF generations.

func headerSize(big bool) uint64 {
	if big {
		return 16
	}
	return 8
}

func entrySize(big bool) uint64 {
	if big {
		return 20
	}
	return 12
}

func countFieldSize(big bool) uint64 {
	if big {
		return 8
	}
	return 2
}

// valueFieldSize is also the width of a directory's next-offset field.
func valueFieldSize(big bool) uint64 {
	if big {
		return 8
	}
	return 4
}

// IFD is one image file directory: the offset it was read from, its
// entries in on-disk order and the offset of the next directory in the
// chain, 0 marking the end.
//
// Entries are read when the directory is, but their values stay on disk
// until decoded through Values, AllValues or Text.
type IFD struct {
	offset  uint64
	entries []Entry
	next    uint64
}

// Offset returns the absolute position this directory was read from.
func (d *IFD) Offset() uint64 { return d.offset }

// Entries returns the directory's entries in on-disk order. TIFF wants
// them sorted by tag, but this package preserves whatever order the file
// has.
func (d *IFD) Entries() []Entry { return d.entries }

// NextOffset returns the absolute position of the next directory, or 0
// for the last directory of the chain.
func (d *IFD) NextOffset() uint64 { return d.next }

// Tag returns the first entry carrying the given tag number.
func (d *IFD) Tag(tag uint16) (Entry, bool) {
	for _, e := range d.entries {
		if e.tag == tag {
			return e, true
		}
	}
	return Entry{}, false
}

// readIFD reads the directory at off: the entry count, that many
// fixed-size entry records, and the trailing next-directory offset.
func readIFD(src *source, off uint64, limitEntries uint32) (*IFD, error) {
	c := src.cursorAt(int64(off))

	var count uint64
	if src.big {
		n, err := c.read8()
		if err != nil {
			return nil, err
		}
		count = n
	} else {
		n, err := c.read2()
		if err != nil {
			return nil, err
		}
		count = uint64(n)
	}

	if count == 0 {
		return nil, newMalformedDirectoryErrorf("directory at offset %d has no entries", off)
	}
	if count > uint64(limitEntries) {
		return nil, newMalformedDirectoryErrorf("directory at offset %d declares %d entries, limit is %d", off, count, limitEntries)
	}
	if src.size >= 0 {
		span := countFieldSize(src.big) + count*entrySize(src.big) + valueFieldSize(src.big)
		if span > uint64(src.size)-off {
			return nil, newMalformedDirectoryErrorf("directory at offset %d needs %d bytes, %d remain", off, span, uint64(src.size)-off)
		}
	}

	entries := make([]Entry, 0, count)
	for range count {
		e, err := readEntry(src, c)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	var next uint64
	if src.big {
		n, err := c.read8()
		if err != nil {
			return nil, err
		}
		next = n
	} else {
		n, err := c.read4()
		if err != nil {
			return nil, err
		}
		next = uint64(n)
	}

	return &IFD{offset: off, entries: entries, next: next}, nil
}

// readEntry reads one fixed-size entry record at the cursor: tag, type
// code, count, raw value field.
func readEntry(src *source, c *cursor) (Entry, error) {
	tag, err := c.read2()
	if err != nil {
		return Entry{}, err
	}
	typ, err := c.read2()
	if err != nil {
		return Entry{}, err
	}
	var count uint64
	if src.big {
		count, err = c.read8()
	} else {
		var n uint32
		n, err = c.read4()
		count = uint64(n)
	}
	if err != nil {
		return Entry{}, err
	}

	e := Entry{src: src, tag: tag, typ: EntryType(typ), count: count}
	b, err := c.read(int(valueFieldSize(src.big)))
	if err != nil {
		return Entry{}, err
	}
	copy(e.value[:], b)
	return e, nil
}

// IFDs walks the directory chain, reading one directory per Next call.
// It is forward-only and single pass; Reader.IFDs returns a fresh walk.
// Every emitted offset is remembered, so a chain that loops back on
// itself terminates after emitting each distinct directory once.
type IFDs struct {
	src     *source
	opts    Options
	next    uint64
	visited map[uint64]struct{}
	cur     *IFD
	emitted uint32
	err     error
	done    bool
}

// Next reads the next directory in the chain. It returns false when the
// chain is exhausted or an error stopped it; Err tells the two apart.
func (s *IFDs) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	off := s.next
	if off == 0 {
		s.done = true
		return false
	}
	if s.emitted >= s.opts.LimitIFDs {
		s.err = newMalformedDirectoryErrorf("chain exceeds %d directories", s.opts.LimitIFDs)
		return false
	}
	if off < headerSize(s.src.big) {
		s.err = newMalformedDirectoryErrorf("directory offset %d points inside the header", off)
		return false
	}
	if off > math.MaxInt64 || (s.src.size >= 0 && off >= uint64(s.src.size)) {
		s.err = newMalformedDirectoryErrorf("directory offset %d is outside the file", off)
		return false
	}

	d, err := readIFD(s.src, off, s.opts.LimitEntries)
	if err != nil {
		s.err = err
		return false
	}

	s.visited[off] = struct{}{}
	s.cur = d
	s.emitted++

	next := d.next
	if _, seen := s.visited[next]; seen {
		s.opts.Warnf("tiffdir: directory chain loops back to offset %d, stopping", next)
		next = 0
	}
	s.next = next
	return true
}

// IFD returns the directory produced by the last successful Next.
func (s *IFDs) IFD() *IFD { return s.cur }

// Err returns the error that stopped the walk, if any. A chain that ends
// normally, including one cut short by a detected loop, leaves Err nil.
func (s *IFDs) Err() error { return s.err }

// All returns the remaining chain as a range-over-func sequence. A
// non-nil error is yielded once, with a nil directory, as the final
// element.
func (s *IFDs) All() iter.Seq2[*IFD, error] {
	return func(yield func(*IFD, error) bool) {
		for s.Next() {
			if !yield(s.cur, nil) {
				return
			}
		}
		if s.err != nil {
			yield(nil, s.err)
		}
	}
}
