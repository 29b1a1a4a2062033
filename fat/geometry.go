package fat

import (
	"fmt"

	"github.com/mkvfat/mkvfat/chs"
)

// Type selects the width of the allocation table entries.
type Type int

const (
	FAT12 Type = 12
	FAT16 Type = 16
)

// Geometry describes one supported volume shape: the physical
// cylinder/head/sector layout plus the FAT parameters that go with
// it. The presets below are the standard PC formats.
type Geometry struct {
	Name string
	chs.Geometry

	Type              Type
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntries       uint16
	Media             uint8
	SectorsPerFAT     uint16
	HiddenSectors     uint32
}

var (
	Floppy360K = Geometry{
		Name:     "360K",
		Geometry: chs.Geometry{Cylinders: 40, Heads: 2, SectorsPerTrack: 9, SectorSize: 512},

		Type:              FAT12,
		SectorsPerCluster: 2,
		ReservedSectors:   1,
		NumFATs:           2,
		RootEntries:       112,
		Media:             0xFD,
		SectorsPerFAT:     2,
	}

	Floppy720K = Geometry{
		Name:     "720K",
		Geometry: chs.Geometry{Cylinders: 80, Heads: 2, SectorsPerTrack: 9, SectorSize: 512},

		Type:              FAT12,
		SectorsPerCluster: 2,
		ReservedSectors:   1,
		NumFATs:           2,
		RootEntries:       112,
		Media:             0xF9,
		SectorsPerFAT:     3,
	}

	Floppy1200K = Geometry{
		Name:     "1.2M",
		Geometry: chs.Geometry{Cylinders: 80, Heads: 2, SectorsPerTrack: 15, SectorSize: 512},

		Type:              FAT12,
		SectorsPerCluster: 1,
		ReservedSectors:   1,
		NumFATs:           2,
		RootEntries:       224,
		Media:             0xF9,
		SectorsPerFAT:     7,
	}

	Floppy1440K = Geometry{
		Name:     "1.44M",
		Geometry: chs.Geometry{Cylinders: 80, Heads: 2, SectorsPerTrack: 18, SectorSize: 512},

		Type:              FAT12,
		SectorsPerCluster: 1,
		ReservedSectors:   1,
		NumFATs:           2,
		RootEntries:       224,
		Media:             0xF0,
		SectorsPerFAT:     9,
	}

	Floppy2880K = Geometry{
		Name:     "2.88M",
		Geometry: chs.Geometry{Cylinders: 80, Heads: 2, SectorsPerTrack: 36, SectorSize: 512},

		Type:              FAT12,
		SectorsPerCluster: 2,
		ReservedSectors:   1,
		NumFATs:           2,
		RootEntries:       240,
		Media:             0xF0,
		SectorsPerFAT:     9,
	}

	// HardDisk32M is a small FAT16 hard-disk volume for content that
	// outgrows floppy media.
	HardDisk32M = Geometry{
		Name:     "32M",
		Geometry: chs.Geometry{Cylinders: 512, Heads: 4, SectorsPerTrack: 32, SectorSize: 512},

		Type:              FAT16,
		SectorsPerCluster: 4,
		ReservedSectors:   1,
		NumFATs:           2,
		RootEntries:       512,
		Media:             0xF8,
		SectorsPerFAT:     64,
	}
)

// presets are ordered smallest first; automatic selection picks the
// first one that fits.
var presets = []Geometry{
	Floppy360K,
	Floppy720K,
	Floppy1200K,
	Floppy1440K,
	Floppy2880K,
	HardDisk32M,
}

// GeometryByName resolves a preset by its display name, e.g. "1.44M".
func GeometryByName(name string) (Geometry, error) {
	for _, g := range presets {
		if g.Name == name {
			return g, nil
		}
	}
	return Geometry{}, fmt.Errorf("unknown geometry %q", name)
}

// clusterSize returns the number of bytes per allocation unit.
func (g Geometry) clusterSize() int {
	return int(g.SectorsPerCluster) * g.SectorSize
}

// rootDirSectors returns the size of the fixed root directory region.
func (g Geometry) rootDirSectors() int {
	return (int(g.RootEntries)*DirEntrySize + g.SectorSize - 1) / g.SectorSize
}

// dataClusters returns the number of allocation units available for
// file and subdirectory content.
func (g Geometry) dataClusters() int {
	dataSectors := g.TotalSectors() -
		int(g.ReservedSectors) -
		int(g.NumFATs)*int(g.SectorsPerFAT) -
		g.rootDirSectors()
	return dataSectors / int(g.SectorsPerCluster)
}

// fits reports whether a volume needing rootEntries root directory
// entries and clusters allocation units fits this geometry.
func (g Geometry) fits(rootEntries, clusters int) bool {
	return rootEntries <= int(g.RootEntries) && clusters <= g.dataClusters()
}
