package fat

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"
)

const (
	// attrLongName marks a directory entry as a VFAT long-name
	// component.
	attrLongName = 0x0F

	// lastLongEntry flags the long-name entry written first, which
	// carries the tail of the name and the highest ordinal.
	lastLongEntry = 0x40

	// unitsPerEntry is the number of UTF-16 code units one long-name
	// entry stores across its three name regions (5+6+2).
	unitsPerEntry = 13

	// maxLongNameLen is the Win95 limit on long file names.
	maxLongNameLen = 255

	// DirEntrySize is the on-disk size of every directory entry,
	// long-name entries included.
	DirEntrySize = 32
)

// legalShortNameChar reports whether c may appear in an 8.3 name
// field. Lowercase letters are excluded: short names are stored
// uppercase.
func legalShortNameChar(c rune) bool {
	switch {
	case c >= 'A' && c <= 'Z':
		return true
	case c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '(', ')', '-', '@', '^', '_', '`', '{', '}', '~':
		return true
	}
	return false
}

// NeedsLongName reports whether name cannot be stored as a plain 8.3
// directory entry and therefore needs a long-name chain. The special
// entries "." and ".." never do.
func NeedsLongName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	if strings.Count(name, ".") > 1 {
		return true
	}
	base, ext := name, ""
	if idx := strings.IndexByte(name, '.'); idx != -1 {
		base, ext = name[:idx], name[idx+1:]
	}
	if len(base) > 8 || len(ext) > 3 {
		return true
	}
	for _, c := range base + ext {
		if !legalShortNameChar(c) {
			return true
		}
	}
	return false
}

// LongEntryCount returns the number of 32-byte long-name entries the
// name occupies: zero if no long name is needed, otherwise one entry
// per started run of 13 UTF-16 code units.
func LongEntryCount(name string) int {
	if !NeedsLongName(name) {
		return 0
	}
	units := len(utf16.Encode([]rune(name)))
	return (units + unitsPerEntry - 1) / unitsPerEntry
}

// WriteLongEntries serializes the long-name chain for longName into
// buf starting at off and returns the number of bytes written. The
// entry holding the tail of the name is written first, carrying the
// highest ordinal with the last-entry flag; ordinals then descend to
// 1. The caller appends the matching short-name entry afterwards.
//
// The final partial chunk is terminated with 0x0000 and padded with
// 0xFFFF, per the VFAT convention. A name that exactly fills its
// entries carries neither.
func WriteLongEntries(buf []byte, off int, longName string, sn ShortName) int {
	units := utf16.Encode([]rune(longName))
	count := (len(units) + unitsPerEntry - 1) / unitsPerEntry

	padded := make([]uint16, count*unitsPerEntry)
	n := copy(padded, units)
	if n < len(padded) {
		padded[n] = 0x0000
		for i := n + 1; i < len(padded); i++ {
			padded[i] = 0xFFFF
		}
	}

	sum := sn.Checksum()
	for i := 0; i < count; i++ {
		ord := count - i
		e := buf[off+i*DirEntrySize:]
		seq := byte(ord)
		if i == 0 {
			seq |= lastLongEntry
		}
		chunk := padded[(ord-1)*unitsPerEntry : ord*unitsPerEntry]
		e[0] = seq
		putUCS2(e[1:11], chunk[0:5])
		e[11] = attrLongName
		e[12] = 0x00
		e[13] = sum
		putUCS2(e[14:26], chunk[5:11])
		binary.LittleEndian.PutUint16(e[26:28], 0x0000) // no cluster
		putUCS2(e[28:32], chunk[11:13])
	}
	return count * DirEntrySize
}

func putUCS2(dst []byte, units []uint16) {
	for i, u := range units {
		binary.LittleEndian.PutUint16(dst[i*2:], u)
	}
}
