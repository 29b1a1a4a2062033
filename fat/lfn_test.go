package fat

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNeedsLongName(t *testing.T) {
	t.Parallel()

	for _, entry := range []struct {
		name string
		want bool
	}{
		{".", false},
		{"..", false},
		{"FILE.TXT", false},
		{"SHORT.DAT", false},
		{"NAME~1.TXT", false},
		{"8CHARSAB.EXT", false},
		{"NODOT", false},
		{"A(1).TXT", false},

		{"file.txt", true},          // lowercase
		{"My Document.doc", true},   // space and lowercase
		{"NAME .TXT", true},         // space
		{"LONGFILENAME.TXT", true},  // base longer than 8
		{"FILE.TEXT", true},         // extension longer than 3
		{"A+B.TXT", true},           // illegal punctuation
		{"AR[1].TXT", true},         // illegal punctuation
		{"TWO.DOTS.X", true},        // more than one dot
		{"RÉSUMÉ.TXT", true}, // outside ASCII
	} {
		entry := entry // copy
		t.Run(entry.name, func(t *testing.T) {
			t.Parallel()
			if got := NeedsLongName(entry.name); got != entry.want {
				t.Errorf("NeedsLongName(%q) = %v, want %v", entry.name, got, entry.want)
			}
		})
	}
}

func TestLongEntryCount(t *testing.T) {
	t.Parallel()

	if got := LongEntryCount("FILE.TXT"); got != 0 {
		t.Errorf("LongEntryCount(FILE.TXT) = %d, want 0", got)
	}

	// Lowercase runs always need a long name, so the boundary policy
	// is isolated: one entry per started run of 13 UTF-16 units.
	for _, entry := range []struct {
		length int
		want   int
	}{
		{13, 1},
		{14, 2},
		{16, 2},
		{24, 2},
		{26, 2},
		{27, 3},
	} {
		entry := entry // copy
		name := strings.Repeat("a", entry.length)
		if got := LongEntryCount(name); got != entry.want {
			t.Errorf("LongEntryCount(%d chars) = %d, want %d", entry.length, got, entry.want)
		}
	}
}

func TestWriteLongEntries(t *testing.T) {
	t.Parallel()

	// 16 UTF-16 units, so two entries; the tail chunk "txt" is
	// written first with the last-entry flag.
	const longName = "longfilename.txt"
	a := newNameAllocator()
	sn, err := a.Generate(longName)
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 4*DirEntrySize)
	n := WriteLongEntries(buf, 0, longName, sn)
	if want := 2 * DirEntrySize; n != want {
		t.Fatalf("WriteLongEntries wrote %d bytes, want %d", n, want)
	}

	first, second := buf[0:32], buf[32:64]
	if got := first[0]; got != 0x42 {
		t.Errorf("first written sequence byte = %#02x, want 0x42 (ordinal 2, last-entry flag)", got)
	}
	if got := second[0]; got != 0x01 {
		t.Errorf("second written sequence byte = %#02x, want 0x01", got)
	}
	for _, e := range [][]byte{first, second} {
		if e[11] != attrLongName {
			t.Errorf("attribute byte = %#02x, want %#02x", e[11], attrLongName)
		}
		if e[12] != 0x00 {
			t.Errorf("reserved byte = %#02x, want 0x00", e[12])
		}
		if e[13] != sn.Checksum() {
			t.Errorf("checksum byte = %#02x, want %#02x", e[13], sn.Checksum())
		}
		if e[26] != 0 || e[27] != 0 {
			t.Errorf("cluster field = %#02x%02x, want zero", e[27], e[26])
		}
	}

	// ASCII characters appear as (char, 0x00) pairs. The entry with
	// ordinal 1 holds the head of the name.
	want := []byte{'l', 0, 'o', 0, 'n', 0, 'g', 0, 'f', 0}
	if diff := cmp.Diff(want, second[1:11]); diff != "" {
		t.Errorf("unexpected name chars 1-5: diff (-want +got):\n%s", diff)
	}

	// The tail chunk holds "txt", a 0x0000 terminator, then 0xFFFF
	// filler.
	wantTail := []byte{'t', 0, 'x', 0, 't', 0, 0x00, 0x00, 0xFF, 0xFF}
	if diff := cmp.Diff(wantTail, first[1:11]); diff != "" {
		t.Errorf("unexpected tail chunk: diff (-want +got):\n%s", diff)
	}
	for _, off := range []int{14, 16, 18, 20, 22, 24, 28, 30} {
		if first[off] != 0xFF || first[off+1] != 0xFF {
			t.Errorf("filler at offset %d = %02x%02x, want ffff", off, first[off], first[off+1])
		}
	}
}

func TestWriteLongEntriesExactFit(t *testing.T) {
	t.Parallel()

	// Exactly 13 units: one entry, no terminator, no filler.
	const name = "abcdefghijklm"
	a := newNameAllocator()
	sn, err := a.Generate(name)
	if err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 2*DirEntrySize)
	n := WriteLongEntries(buf, 0, name, sn)
	if n != DirEntrySize {
		t.Fatalf("WriteLongEntries wrote %d bytes, want %d", n, DirEntrySize)
	}
	if got := buf[0]; got != 0x41 {
		t.Errorf("sequence byte = %#02x, want 0x41", got)
	}
	if buf[30] != 'm' || buf[31] != 0 {
		t.Errorf("13th unit = %02x%02x, want 'm' in UCS-2", buf[31], buf[30])
	}
}
