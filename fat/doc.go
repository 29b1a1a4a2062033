// Package fat implements writing FAT12 and FAT16 file system images
// from a host directory tree, including the VFAT long file name
// extension, and emits them as cylinder/head/sector-addressable disk
// images for use with emulators and real FAT readers.
//
// Volume shapes are limited to the standard floppy formats (360K up
// to 2.88M, FAT12) and a 32M FAT16 hard-disk format. Long names are
// stored as chained 32-byte entries next to a generated, unique 8.3
// short name.
package fat
