// Copyright 2026 Tomas Øklund
// SPDX-License-Identifier: MIT

//go:generate go run main.go
package main

import (
	"encoding/binary"
	"log"
	"os"
	"path/filepath"
)

// Generates the checked-in TIFF fixtures under ../testdata. The golden
// tests assert the exact offsets written here, so changing a layout means
// updating them in both places.
func main() {
	outDir := filepath.Join("..", "testdata")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatal(err)
	}

	for name, build := range map[string]func() []byte{
		"classic-le.tif": func() []byte { return classic(binary.LittleEndian) },
		"classic-be.tif": func() []byte { return classic(binary.BigEndian) },
		"bigtiff-le.tif": bigtiff,
		"cycle-le.tif":   cycle,
	} {
		if err := os.WriteFile(filepath.Join(outDir, name), build(), 0o644); err != nil {
			log.Fatal(err)
		}
	}
}

// classic is a two-directory classic TIFF: a 640x480 main directory with
// a description and a resolution, then a 320x240 thumbnail directory.
func classic(order binary.ByteOrder) []byte {
	w := &writer{order: order}

	w.marker()
	w.u16(42)
	w.u32(8) // first directory

	// Directory 0 at offset 8, 4 entries, 54 bytes.
	w.u16(4)
	w.entry(256, 4, 1) // ImageWidth LONG
	w.u32(640)
	w.entry(257, 4, 1) // ImageLength LONG
	w.u32(480)
	w.entry(270, 2, 14) // ImageDescription ASCII, out of line
	w.u32(62)
	w.entry(282, 5, 1) // XResolution RATIONAL, out of line
	w.u32(76)
	w.u32(84) // next directory

	w.str("golden sample\x00") // offset 62
	w.u32(72)                  // offset 76
	w.u32(1)

	// Directory 1 at offset 84, 2 entries.
	w.u16(2)
	w.entry(256, 3, 1) // ImageWidth SHORT, inline left-aligned
	w.u16(320)
	w.pad(2)
	w.entry(257, 3, 1) // ImageLength SHORT
	w.u16(240)
	w.pad(2)
	w.u32(0)

	return w.buf
}

// bigtiff is a single-directory BigTIFF whose width only fits in the
// eight-byte value field.
func bigtiff() []byte {
	w := &writer{order: binary.LittleEndian, big: true}

	w.marker()
	w.u16(43)
	w.u16(8) // offset size
	w.u16(0)
	w.u64(16) // first directory

	// Directory 0 at offset 16, 3 entries, 76 bytes.
	w.u64(3)
	w.entry(256, 16, 1) // ImageWidth LONG8
	w.u64(4294967936)
	w.entry(270, 2, 11) // ImageDescription ASCII, out of line
	w.u64(92)
	w.entry(339, 3, 2) // SampleFormat SHORT x2, inline
	w.u16(1)
	w.u16(1)
	w.pad(4)
	w.u64(0) // last directory

	w.str("big golden\x00") // offset 92

	return w.buf
}

// cycle is a classic TIFF whose two directories point at each other.
func cycle() []byte {
	w := &writer{order: binary.LittleEndian}

	w.marker()
	w.u16(42)
	w.u32(8)

	// Directory 0 at offset 8.
	w.u16(1)
	w.entry(256, 3, 1)
	w.u16(1)
	w.pad(2)
	w.u32(26) // next directory

	// Directory 1 at offset 26, pointing back at directory 0.
	w.u16(1)
	w.entry(257, 3, 1)
	w.u16(2)
	w.pad(2)
	w.u32(8)

	return w.buf
}

type writer struct {
	order binary.ByteOrder
	big   bool
	buf   []byte
}

func (w *writer) marker() {
	if w.order == binary.LittleEndian {
		w.str("II")
	} else {
		w.str("MM")
	}
}

func (w *writer) u16(v uint16) {
	var s [2]byte
	w.order.PutUint16(s[:], v)
	w.buf = append(w.buf, s[:]...)
}

func (w *writer) u32(v uint32) {
	var s [4]byte
	w.order.PutUint32(s[:], v)
	w.buf = append(w.buf, s[:]...)
}

func (w *writer) u64(v uint64) {
	var s [8]byte
	w.order.PutUint64(s[:], v)
	w.buf = append(w.buf, s[:]...)
}

func (w *writer) pad(n int) {
	w.buf = append(w.buf, make([]byte, n)...)
}

func (w *writer) str(s string) {
	w.buf = append(w.buf, s...)
}

// entry writes the fixed head of a directory entry; the caller writes the
// value field right after it.
func (w *writer) entry(tag, typ uint16, count uint64) {
	w.u16(tag)
	w.u16(typ)
	if w.big {
		w.u64(count)
	} else {
		w.u32(uint32(count))
	}
}
