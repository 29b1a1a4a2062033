package fat

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// ShortName is the 11-byte 8.3 directory entry name: an 8-byte base
// and a 3-byte extension, both space-padded and uppercase.
type ShortName [11]byte

var blankShortName = ShortName{' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}

// Checksum computes the one-byte checksum that binds a long-name
// chain to its short-name entry. It is a pure function of the 11
// padded name bytes.
func (sn ShortName) Checksum() uint8 {
	var sum uint8
	for _, c := range sn {
		sum = ((sum & 1) << 7) + (sum >> 1) + c
	}
	return sum
}

// String returns the display form, e.g. "FILE.TXT".
func (sn ShortName) String() string {
	base := strings.TrimRight(string(sn[:8]), " ")
	ext := strings.TrimRight(string(sn[8:]), " ")
	if ext == "" {
		return base
	}
	return base + "." + ext
}

// nameAllocator tracks the short names already handed out within one
// directory so that numeric tails stay unique.
type nameAllocator struct {
	used map[ShortName]struct{}
}

func newNameAllocator() *nameAllocator {
	return &nameAllocator{used: make(map[ShortName]struct{})}
}

// mapShortNameField uppercases and maps s onto the legal short-name
// byte set, dropping anything unrepresentable. Characters outside
// ASCII go through OEM code page 437, the code page short names are
// stored in. The second result reports whether any character was
// dropped.
func mapShortNameField(s string) ([]byte, bool) {
	var out []byte
	lossy := false
	for _, r := range s {
		r = unicode.ToUpper(r)
		if legalShortNameChar(r) {
			out = append(out, byte(r))
			continue
		}
		if r > 0x7F {
			if b, ok := charmap.CodePage437.EncodeRune(r); ok && b > 0x7F {
				out = append(out, b)
				continue
			}
		}
		lossy = true
	}
	return out, lossy
}

// Generate derives a directory-unique short name for longName. Names
// that survive uppercasing and mapping without loss or truncation are
// used as-is; otherwise a numeric tail ~1..~9999 disambiguates.
// The special entries "." and ".." pass through unchanged.
func (a *nameAllocator) Generate(longName string) (ShortName, error) {
	if longName == "." || longName == ".." {
		sn := blankShortName
		copy(sn[:], longName)
		return sn, nil
	}

	base, ext := longName, ""
	if idx := strings.LastIndexByte(longName, '.'); idx > 0 {
		base, ext = longName[:idx], longName[idx+1:]
	}

	mappedBase, lossyBase := mapShortNameField(base)
	mappedExt, lossyExt := mapShortNameField(ext)
	lossy := lossyBase || lossyExt
	if len(mappedBase) > 8 {
		mappedBase = mappedBase[:8]
		lossy = true
	}
	if len(mappedExt) > 3 {
		mappedExt = mappedExt[:3]
		lossy = true
	}

	if !lossy {
		sn := packShortName(mappedBase, mappedExt)
		if _, taken := a.used[sn]; !taken {
			a.used[sn] = struct{}{}
			return sn, nil
		}
	}

	for n := 1; n <= 9999; n++ {
		tail := "~" + strconv.Itoa(n)
		keep := 8 - len(tail)
		if keep > len(mappedBase) {
			keep = len(mappedBase)
		}
		sn := packShortName(append(mappedBase[:keep:keep], tail...), mappedExt)
		if _, taken := a.used[sn]; !taken {
			a.used[sn] = struct{}{}
			return sn, nil
		}
	}
	return ShortName{}, fmt.Errorf("%q: %w", longName, ErrShortNameExhausted)
}

func packShortName(base, ext []byte) ShortName {
	sn := blankShortName
	copy(sn[:8], base)
	copy(sn[8:], ext)
	return sn
}

// LabelName packs a volume label into short-name form: uppercase,
// space-padded to the full 11 bytes, no base/extension split.
func LabelName(label string) ShortName {
	sn := blankShortName
	copy(sn[:], strings.ToUpper(label))
	return sn
}
