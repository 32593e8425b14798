// Copyright 2026 Tomas Øklund
// SPDX-License-Identifier: MIT

package tiffdir

import "fmt"

// EntryType is a TIFF entry type code. The codes through DOUBLE are
// defined by TIFF 6.0; LONG8, SLONG8 and IFD8 by the BigTIFF extension.
// Entries with codes outside this set can still be enumerated, but their
// values cannot be decoded.
type EntryType uint16

const (
	TypeByte      EntryType = 1
	TypeASCII     EntryType = 2
	TypeShort     EntryType = 3
	TypeLong      EntryType = 4
	TypeRational  EntryType = 5
	TypeSByte     EntryType = 6
	TypeUndefined EntryType = 7
	TypeSShort    EntryType = 8
	TypeSLong     EntryType = 9
	TypeSRational EntryType = 10
	TypeFloat     EntryType = 11
	TypeDouble    EntryType = 12
	TypeLong8     EntryType = 16
	TypeSLong8    EntryType = 17
	TypeIFD8      EntryType = 18
)

// Size in bytes of one value of each type.
var entryTypeSizes = map[EntryType]int{
	TypeByte:      1,
	TypeASCII:     1,
	TypeShort:     2,
	TypeLong:      4,
	TypeRational:  8,
	TypeSByte:     1,
	TypeUndefined: 1,
	TypeSShort:    2,
	TypeSLong:     4,
	TypeSRational: 8,
	TypeFloat:     4,
	TypeDouble:    8,
	TypeLong8:     8,
	TypeSLong8:    8,
	TypeIFD8:      8,
}

var entryTypeNames = map[EntryType]string{
	TypeByte:      "BYTE",
	TypeASCII:     "ASCII",
	TypeShort:     "SHORT",
	TypeLong:      "LONG",
	TypeRational:  "RATIONAL",
	TypeSByte:     "SBYTE",
	TypeUndefined: "UNDEFINED",
	TypeSShort:    "SSHORT",
	TypeSLong:     "SLONG",
	TypeSRational: "SRATIONAL",
	TypeFloat:     "FLOAT",
	TypeDouble:    "DOUBLE",
	TypeLong8:     "LONG8",
	TypeSLong8:    "SLONG8",
	TypeIFD8:      "IFD8",
}

// Size returns the byte width of one value of type t and whether t is a
// recognized type code.
func (t EntryType) Size() (int, bool) {
	n, ok := entryTypeSizes[t]
	return n, ok
}

// String returns the name the TIFF specification uses for t, or
// "EntryType(n)" for unrecognized codes.
func (t EntryType) String() string {
	if s, ok := entryTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("EntryType(%d)", uint16(t))
}

// typeSet is a bitmask over type codes, used for the capability sets that
// say which codes a representation may decode.
type typeSet uint32

func newTypeSet(types ...EntryType) typeSet {
	var s typeSet
	for _, t := range types {
		s |= 1 << t
	}
	return s
}

func (s typeSet) has(t EntryType) bool {
	return t < 32 && s&(1<<t) != 0
}
