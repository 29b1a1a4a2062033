package mbr

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mkvfat/mkvfat/chs"
)

func TestSector(t *testing.T) {
	t.Parallel()

	g := chs.Geometry{Cylinders: 512, Heads: 4, SectorsPerTrack: 32, SectorSize: 512}
	sector := Sector(TypeFAT16, g, 32, 65536)

	if sector[510] != 0x55 || sector[511] != 0xAA {
		t.Errorf("signature = %02x %02x, want 55 aa", sector[510], sector[511])
	}
	for i, b := range sector[:446] {
		if b != 0 {
			t.Fatalf("boot code area not zero at offset %d", i)
		}
	}

	want := []byte{
		0x80,             // bootable
		0x01, 0x01, 0x00, // first CHS: head 1, sector 1, cylinder 0
		TypeFAT16,
		0x00, 0xA0, 0x00, // last CHS: head 0, sector 32, cylinder 512
		0x20, 0x00, 0x00, 0x00, // first LBA 32
		0x00, 0x00, 0x01, 0x00, // 65536 sectors
	}
	if diff := cmp.Diff(want, sector[446:462]); diff != "" {
		t.Errorf("unexpected partition entry: diff (-want +got):\n%s", diff)
	}
}

func TestChsTupleSaturates(t *testing.T) {
	t.Parallel()

	g := chs.Geometry{Cylinders: 4096, Heads: 2, SectorsPerTrack: 18, SectorSize: 512}
	got := chsTuple(g, uint32(2000*2*18))
	want := [3]byte{0xFE, 0xFF, 0xFF}
	if got != want {
		t.Errorf("chsTuple beyond cylinder 1023 = %v, want %v", got, want)
	}
}
