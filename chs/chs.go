// Package chs models a disk image as an ordered sequence of cylinders,
// each holding one track per head, each track holding fixed-size
// sectors. Emulators and low-level floppy tools address media this way
// rather than as a flat byte stream.
package chs

import (
	"fmt"
	"io"
)

// Geometry describes the physical shape of a disk.
type Geometry struct {
	Cylinders       int
	Heads           int
	SectorsPerTrack int
	SectorSize      int
}

// Capacity returns the total number of bytes the geometry can hold.
func (g Geometry) Capacity() int64 {
	return int64(g.Cylinders) * int64(g.Heads) * int64(g.SectorsPerTrack) * int64(g.SectorSize)
}

// TotalSectors returns the number of sectors the geometry can hold.
func (g Geometry) TotalSectors() int {
	return g.Cylinders * g.Heads * g.SectorsPerTrack
}

// Track is the run of sectors under one head within one cylinder.
type Track struct {
	Sectors [][]byte
}

// Cylinder holds one track per head.
type Cylinder struct {
	Tracks []Track
}

// Disk is an immutable cylinder/head/sector-addressable disk image.
type Disk struct {
	Geom      Geometry
	Cylinders []Cylinder
}

// FromLinear splits a flat image into cylinders, heads and sectors.
// Images shorter than the geometry's capacity are padded with zero
// sectors; longer images are rejected.
func FromLinear(g Geometry, data []byte) (*Disk, error) {
	if int64(len(data)) > g.Capacity() {
		return nil, fmt.Errorf("image is %d bytes, geometry holds only %d", len(data), g.Capacity())
	}
	d := &Disk{
		Geom:      g,
		Cylinders: make([]Cylinder, g.Cylinders),
	}
	off := 0
	for c := range d.Cylinders {
		tracks := make([]Track, g.Heads)
		for h := range tracks {
			sectors := make([][]byte, g.SectorsPerTrack)
			for s := range sectors {
				sector := make([]byte, g.SectorSize)
				if off < len(data) {
					off += copy(sector, data[off:])
				}
				sectors[s] = sector
			}
			tracks[h] = Track{Sectors: sectors}
		}
		d.Cylinders[c] = Cylinder{Tracks: tracks}
	}
	return d, nil
}

// Sector returns the data block at the given cylinder, head and
// sector. The sector number is 1-based, matching CHS addressing.
func (d *Disk) Sector(c, h, s int) ([]byte, error) {
	if c < 0 || c >= d.Geom.Cylinders ||
		h < 0 || h >= d.Geom.Heads ||
		s < 1 || s > d.Geom.SectorsPerTrack {
		return nil, fmt.Errorf("no sector at C/H/S %d/%d/%d", c, h, s)
	}
	return d.Cylinders[c].Tracks[h].Sectors[s-1], nil
}

// WriteTo serializes the image in cylinder, head, sector order, which
// is the byte order of a raw image file.
func (d *Disk) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, cyl := range d.Cylinders {
		for _, track := range cyl.Tracks {
			for _, sector := range track.Sectors {
				n, err := w.Write(sector)
				written += int64(n)
				if err != nil {
					return written, err
				}
			}
		}
	}
	return written, nil
}
