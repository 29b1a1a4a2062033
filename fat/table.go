package fat

// Allocation table markers. The first two entries of every FAT are
// reserved: a copy of the media descriptor and the file system state.
const (
	reservedClusters = 2

	endOfChain12 = 0x0FFF
	endOfChain16 = 0xFFFF
)

// table is an in-memory File Allocation Table. Entries are stored
// width-agnostically and packed to 12 or 16 bits on serialization.
type table struct {
	geom    Geometry
	entries []uint16
}

func newTable(g Geometry) *table {
	t := &table{
		geom:    g,
		entries: make([]uint16, reservedClusters, reservedClusters+g.dataClusters()),
	}
	t.entries[0] = 0xFF00 | uint16(g.Media)
	t.entries[1] = endOfChain16
	if g.Type == FAT12 {
		t.entries[0] = 0x0F00 | uint16(g.Media)
		t.entries[1] = endOfChain12
	}
	return t
}

// nextCluster returns the cluster number the next allocation will
// receive.
func (t *table) nextCluster() uint16 {
	return uint16(len(t.entries))
}

// allocChain appends a chain of n clusters and returns the number of
// its first cluster, or 0 for an empty chain.
func (t *table) allocChain(n int) uint16 {
	if n == 0 {
		return 0
	}
	first := t.nextCluster()
	for i := 0; i < n-1; i++ {
		t.entries = append(t.entries, t.nextCluster()+1)
	}
	eoc := uint16(endOfChain16)
	if t.geom.Type == FAT12 {
		eoc = endOfChain12
	}
	t.entries = append(t.entries, eoc)
	return first
}

// used returns the number of data clusters allocated so far.
func (t *table) used() int {
	return len(t.entries) - reservedClusters
}

// bytes serializes the table into one FAT copy of exactly
// SectorsPerFAT sectors.
func (t *table) bytes() []byte {
	out := make([]byte, int(t.geom.SectorsPerFAT)*t.geom.SectorSize)
	for i, entry := range t.entries {
		if t.geom.Type == FAT12 {
			writeEntry12(out, i, entry)
		} else {
			writeEntry16(out, i, entry)
		}
	}
	return out
}

// writeEntry12 packs a 12-bit entry: two entries share three bytes,
// split at the nibble.
func writeEntry12(data []byte, idx int, entry uint16) {
	off := idx + idx/2
	if idx%2 == 0 {
		data[off] = byte(entry & 0xFF)
		data[off+1] |= byte((entry >> 8) & 0x0F)
	} else {
		data[off] |= byte((entry & 0x0F) << 4)
		data[off+1] = byte((entry >> 4) & 0xFF)
	}
}

func writeEntry16(data []byte, idx int, entry uint16) {
	data[idx*2] = byte(entry & 0xFF)
	data[idx*2+1] = byte(entry >> 8)
}
