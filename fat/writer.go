package fat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/spf13/afero"

	"github.com/mkvfat/mkvfat/chs"
)

type common struct {
	name         string // long name
	short        ShortName
	modTime      time.Time
	size         uint32
	firstCluster uint16
}

// Time packs the modification time into DOS format: 2-second
// resolution.
func (c *common) Time() uint16 {
	t := c.modTime
	if t.Year() < 1980 {
		return 0
	}
	return uint16(t.Hour())<<11 |
		uint16(t.Minute())<<5 |
		uint16(t.Second()/2)
}

// Date packs the modification date into DOS format, epoch 1980.
// Earlier dates clamp to the minimum representable 1980-01-01.
func (c *common) Date() uint16 {
	t := c.modTime
	if t.Year() < 1980 {
		return 0x0021
	}
	return uint16(t.Year()-1980)<<9 |
		uint16(t.Month())<<5 |
		uint16(t.Day())
}

type file struct {
	common
	content []byte
}

func (f *file) attr() uint8 { return AttrArchive }

type directory struct {
	common
	entries []entry
	byName  map[string]entry
	names   *nameAllocator
	parent  *directory
}

func (d *directory) attr() uint8 { return AttrDirectory }

type entry interface {
	attr() uint8
	base() *common
}

func (f *file) base() *common      { return &f.common }
func (d *directory) base() *common { return &d.common }

func newDirectory(parent *directory) *directory {
	return &directory{
		byName: make(map[string]entry),
		names:  newNameAllocator(),
		parent: parent,
	}
}

// Builder assembles a FAT12/16 volume from a tree of files and emits
// it as a cylinder/head/sector disk image. A Builder is not safe for
// concurrent use; entries are processed to completion in the order
// they are added, which is also the order disambiguating numeric
// tails are assigned in.
type Builder struct {
	fsys  afero.Fs
	geom  *Geometry
	label string

	root  *directory
	table []FileRecord
}

// NewBuilder returns a Builder reading host files from fsys.
func NewBuilder(fsys afero.Fs) *Builder {
	return &Builder{
		fsys: fsys,
		root: newDirectory(nil),
	}
}

// SetLabel sets the volume label, stored both in the boot sector and
// as an attribute-0x08 root directory entry.
func (b *Builder) SetLabel(label string) {
	b.label = label
}

// SetGeometry pins the volume to one geometry instead of selecting
// the smallest preset that fits.
func (b *Builder) SetGeometry(g Geometry) {
	b.geom = &g
}

// checkName rejects names no long-name chain can carry.
func checkName(name string) error {
	if len(utf16.Encode([]rune(name))) > maxLongNameLen {
		return fmt.Errorf("%q: %w", name, ErrNameTooLong)
	}
	return nil
}

// dir returns the directory at path, creating missing components
// along the way.
func (b *Builder) dir(path string) (*directory, error) {
	cur := b.root
	for _, component := range strings.Split(path, "/") {
		if component == "" || component == "." {
			continue
		}
		if _, ok := cur.byName[component]; !ok {
			if err := checkName(component); err != nil {
				return nil, err
			}
			short, err := cur.names.Generate(component)
			if err != nil {
				return nil, err
			}
			dir := newDirectory(cur)
			dir.name = component
			dir.short = short
			cur.entries = append(cur.entries, dir)
			cur.byName[component] = dir
		}
		next, ok := cur.byName[component].(*directory)
		if !ok {
			return nil, fmt.Errorf("path %q invalid: component %q identifies a file", path, component)
		}
		cur = next
	}
	return cur, nil
}

// Mkdir creates an empty directory with the given full path,
// e.g. Mkdir("usr/share/lib", ...).
func (b *Builder) Mkdir(path string, modTime time.Time) error {
	d, err := b.dir(path)
	if err != nil {
		return err
	}
	d.modTime = modTime.UTC()
	return nil
}

// AddFile stores content under the given full path. The short name
// is generated immediately so that numeric tails follow insertion
// order.
func (b *Builder) AddFile(path string, content []byte, modTime time.Time) error {
	dir, err := b.dir(filepath.Dir(path))
	if err != nil {
		return err
	}
	name := filepath.Base(path)
	if err := checkName(name); err != nil {
		return err
	}
	if _, ok := dir.byName[name]; ok {
		return fmt.Errorf("duplicate entry %q", path)
	}
	short, err := dir.names.Generate(name)
	if err != nil {
		return err
	}
	f := &file{
		common: common{
			name:    name,
			short:   short,
			modTime: modTime.UTC(),
			size:    uint32(len(content)),
		},
		content: content,
	}
	dir.entries = append(dir.entries, f)
	dir.byName[name] = f
	return nil
}

// BuildFromDir walks the host directory tree rooted at path, adds
// every file and directory below it, and builds the image. A build
// never yields a partial image.
func (b *Builder) BuildFromDir(path string) (*chs.Disk, error) {
	clean := filepath.Clean(path)
	err := afero.Walk(b.fsys, clean, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("enumerating %s: %w", p, err)
		}
		rel, err := filepath.Rel(clean, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			return b.Mkdir(rel, info.ModTime())
		}
		content, err := afero.ReadFile(b.fsys, p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		return b.AddFile(rel, content, info.ModTime())
	})
	if err != nil {
		return nil, err
	}
	return b.Build()
}

// entryCount returns the number of 32-byte directory entries d
// occupies, including long-name chains, dot entries for non-root
// directories, and the root volume label.
func (b *Builder) entryCount(d *directory) int {
	count := 0
	if d.parent == nil {
		if b.label != "" {
			count++
		}
	} else {
		count += 2 // . and ..
	}
	for _, e := range d.entries {
		count += LongEntryCount(e.base().name) + 1
	}
	return count
}

func fullClusters(n, clusterSize int) int {
	return (n + clusterSize - 1) / clusterSize
}

// dirClusters returns the allocation units d's own entry region
// occupies. Directories hold at least one cluster even when empty.
func (b *Builder) dirClusters(d *directory, g Geometry) int {
	n := fullClusters(b.entryCount(d)*DirEntrySize, g.clusterSize())
	if n == 0 {
		n = 1
	}
	return n
}

// clustersFor returns the allocation units e and everything below it
// will consume under g. Empty files occupy no clusters.
func (b *Builder) clustersFor(e entry, g Geometry) int {
	switch t := e.(type) {
	case *file:
		return fullClusters(len(t.content), g.clusterSize())
	case *directory:
		n := b.dirClusters(t, g)
		for _, child := range t.entries {
			n += b.clustersFor(child, g)
		}
		return n
	}
	return 0
}

func (b *Builder) clusterDemand(g Geometry) int {
	n := 0
	for _, e := range b.root.entries {
		n += b.clustersFor(e, g)
	}
	return n
}

// selectGeometry picks the smallest preset that holds both the root
// directory and the cluster demand, or validates a pinned geometry.
func (b *Builder) selectGeometry() (Geometry, error) {
	rootEntries := b.entryCount(b.root)
	if b.geom != nil {
		g := *b.geom
		if rootEntries > int(g.RootEntries) {
			return Geometry{}, fmt.Errorf("%d root entries on a %s volume (max %d): %w",
				rootEntries, g.Name, g.RootEntries, ErrDirectoryFull)
		}
		if demand := b.clusterDemand(g); demand > g.dataClusters() {
			return Geometry{}, fmt.Errorf("%d clusters needed on a %s volume (max %d): %w",
				demand, g.Name, g.dataClusters(), ErrCapacityExceeded)
		}
		return g, nil
	}
	for _, g := range presets {
		if g.fits(rootEntries, b.clusterDemand(g)) {
			return g, nil
		}
	}
	return Geometry{}, fmt.Errorf("content fits no supported geometry: %w", ErrCapacityExceeded)
}

// allocate assigns cluster chains in pre-order and records the file
// table. Serialization emits extents in the same order, so chain
// numbers and data placement agree.
func (b *Builder) allocate(d *directory, t *table, g Geometry, extents *[]entry) {
	for _, e := range d.entries {
		c := e.base()
		switch n := e.(type) {
		case *file:
			c.firstCluster = t.allocChain(fullClusters(len(n.content), g.clusterSize()))
			*extents = append(*extents, e)
			b.record(e)
		case *directory:
			c.firstCluster = t.allocChain(b.dirClusters(n, g))
			*extents = append(*extents, e)
			b.record(e)
			b.allocate(n, t, g, extents)
		}
	}
}

func (b *Builder) record(e entry) {
	c := e.base()
	b.table = append(b.table, FileRecord{
		Name:         c.name,
		Short:        c.short,
		Attr:         e.attr(),
		Size:         c.size,
		ModTime:      c.modTime,
		FirstCluster: c.firstCluster,
	})
}

// writeShortEntry emits one 32-byte 8.3 directory entry.
func writeShortEntry(buf []byte, sn ShortName, attr uint8, tm, date, firstCluster uint16, size uint32) {
	copy(buf[0:11], sn[:])
	if buf[0] == 0xE5 {
		// 0xE5 marks a deleted entry; the on-disk substitute is 0x05.
		buf[0] = 0x05
	}
	buf[11] = attr
	// bytes 12..21 reserved
	binary.LittleEndian.PutUint16(buf[22:24], tm)
	binary.LittleEndian.PutUint16(buf[24:26], date)
	binary.LittleEndian.PutUint16(buf[26:28], firstCluster)
	binary.LittleEndian.PutUint32(buf[28:32], size)
}

// renderDirectory serializes d's entry region: dot entries for
// subdirectories, the volume label for the root, then per child a
// long-name chain where needed followed by the short entry.
func (b *Builder) renderDirectory(d *directory) []byte {
	buf := make([]byte, b.entryCount(d)*DirEntrySize)
	off := 0
	if d.parent == nil {
		if b.label != "" {
			writeShortEntry(buf[off:], LabelName(b.label), AttrVolumeLabel, 0, 0x0021, 0, 0)
			off += DirEntrySize
		}
	} else {
		dot := blankShortName
		dot[0] = '.'
		writeShortEntry(buf[off:], dot, AttrDirectory, d.Time(), d.Date(), d.firstCluster, 0)
		off += DirEntrySize
		dotdot := blankShortName
		dotdot[0], dotdot[1] = '.', '.'
		writeShortEntry(buf[off:], dotdot, AttrDirectory, d.Time(), d.Date(), d.parent.firstCluster, 0)
		off += DirEntrySize
	}
	for _, e := range d.entries {
		c := e.base()
		if NeedsLongName(c.name) {
			off += WriteLongEntries(buf, off, c.name, c.short)
		}
		writeShortEntry(buf[off:], c.short, e.attr(), c.Time(), c.Date(), c.firstCluster, c.size)
		off += DirEntrySize
	}
	return buf
}

func (b *Builder) writeBootSector(w io.Writer, g Geometry) error {
	var (
		jumpCode            = [3]byte{0xEB, 0x3C, 0x90}
		oem                 = [8]byte{'m', 'k', 'v', 'f', 'a', 't', ' ', ' '}
		bootCode            = [448]byte{}
		bootSectorSignature = [2]byte{0x55, 0xAA}
	)
	volumeLabel := LabelName("NO NAME")
	if b.label != "" {
		volumeLabel = LabelName(b.label)
	}
	fsType := [8]byte{'F', 'A', 'T', '1', '2', ' ', ' ', ' '}
	if g.Type == FAT16 {
		fsType[4] = '6'
	}
	driveNumber := uint8(0x00)
	if g.Media == 0xF8 {
		driveNumber = 0x80 // first fixed disk
	}
	totalSectors16 := uint16(0)
	totalSectors32 := uint32(0)
	if total := g.TotalSectors(); total <= 0xFFFF {
		totalSectors16 = uint16(total)
	} else {
		totalSectors32 = uint32(total)
	}
	for _, v := range []interface{}{
		jumpCode,
		oem,
		uint16(g.SectorSize),
		g.SectorsPerCluster,
		g.ReservedSectors,
		g.NumFATs,
		g.RootEntries,
		totalSectors16,
		g.Media,
		g.SectorsPerFAT,
		uint16(g.SectorsPerTrack),
		uint16(g.Heads),
		g.HiddenSectors,
		totalSectors32,
		driveNumber,
		uint8(0),    // reserved
		uint8(0x29), // extended boot signature
		b.volumeID(),
		volumeLabel,
		fsType,
		bootCode,
		bootSectorSignature,
	} {
		if err := binary.Write(w, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return nil
}

// volumeID derives the serial number from the volume content so that
// identical builds produce identical images.
func (b *Builder) volumeID() uint32 {
	h := fnv.New32a()
	h.Write([]byte(b.label))
	for _, r := range b.table {
		h.Write([]byte(r.Name))
	}
	return h.Sum32()
}

// Build assembles the image. The file table is replaced on every
// call; on error no image and no table are exposed.
func (b *Builder) Build() (*chs.Disk, error) {
	geom, err := b.selectGeometry()
	if err != nil {
		return nil, err
	}

	b.table = nil
	t := newTable(geom)
	var extents []entry
	b.allocate(b.root, t, geom, &extents)

	var img bytes.Buffer

	// Reserved region: boot sector, then zero sectors up to the
	// reserved count.
	if err := b.writeBootSector(&img, geom); err != nil {
		return nil, err
	}
	img.Write(make([]byte, (int(geom.ReservedSectors)-1)*geom.SectorSize))

	fatBytes := t.bytes()
	for i := 0; i < int(geom.NumFATs); i++ {
		img.Write(fatBytes)
	}

	// Fixed root directory region.
	region := make([]byte, geom.rootDirSectors()*geom.SectorSize)
	copy(region, b.renderDirectory(b.root))
	img.Write(region)

	// Data region, in cluster-chain order.
	for _, e := range extents {
		var content []byte
		clusters := 0
		switch n := e.(type) {
		case *file:
			content = n.content
			clusters = fullClusters(len(content), geom.clusterSize())
		case *directory:
			content = b.renderDirectory(n)
			clusters = b.dirClusters(n, geom)
		}
		padded := make([]byte, clusters*geom.clusterSize())
		copy(padded, content)
		img.Write(padded)
	}

	return chs.FromLinear(geom.Geometry, img.Bytes())
}

// FileTable returns the records of the most recently built image, in
// the order their directory entries were emitted.
func (b *Builder) FileTable() []FileRecord {
	out := make([]FileRecord, len(b.table))
	copy(out, b.table)
	return out
}
