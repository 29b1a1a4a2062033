// Package mbr builds a Master Boot Record sector holding a single
// partition entry, enough to place a FAT12/16 volume on a hard-disk
// style image.
package mbr

import (
	"bytes"
	"encoding/binary"

	"github.com/mkvfat/mkvfat/chs"
)

// Partition type identifiers for FAT volumes.
const (
	TypeFAT12 = 0x01
	TypeFAT16 = 0x06
)

// partitionEntry is the 16-byte on-disk partition table entry.
type partitionEntry struct {
	Status   uint8 // 0x80 = bootable
	FirstCHS [3]byte
	Type     uint8
	LastCHS  [3]byte
	FirstLBA uint32
	Sectors  uint32
}

// chsTuple packs a sector address into the 3-byte CHS form used by
// partition entries: head, then sector bits 0-5 with cylinder bits
// 8-9 in the top of the same byte, then cylinder bits 0-7.
func chsTuple(g chs.Geometry, lba uint32) [3]byte {
	spt := uint32(g.SectorsPerTrack)
	cylinder := lba / (spt * uint32(g.Heads))
	head := (lba / spt) % uint32(g.Heads)
	sector := lba%spt + 1
	if cylinder > 1023 {
		// Out of CHS range; the conventional saturation value.
		return [3]byte{0xFE, 0xFF, 0xFF}
	}
	return [3]byte{
		byte(head),
		byte(sector&0x3F) | byte(cylinder>>8)<<6,
		byte(cylinder),
	}
}

// Sector returns the 512-byte MBR placing one partition of the given
// type at firstLBA. The boot code area stays zero; the sector only
// serves partition placement.
func Sector(ptype uint8, g chs.Geometry, firstLBA, sectors uint32) [512]byte {
	buf := bytes.NewBuffer(make([]byte, 0, 512))
	// buf.Write never fails
	buf.Write(make([]byte, 446))
	entry := partitionEntry{
		Status:   0x80,
		FirstCHS: chsTuple(g, firstLBA),
		Type:     ptype,
		LastCHS:  chsTuple(g, firstLBA+sectors-1),
		FirstLBA: firstLBA,
		Sectors:  sectors,
	}
	binary.Write(buf, binary.LittleEndian, &entry)
	buf.Write(make([]byte, 3*16)) // remaining partition slots empty
	buf.Write([]byte{0x55, 0xAA})
	var b [512]byte
	copy(b[:], buf.Bytes())
	return b
}
