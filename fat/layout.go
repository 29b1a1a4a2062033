package fat

import "time"

// Directory entry attribute bits.
const (
	AttrReadOnly    = 0x01
	AttrHidden      = 0x02
	AttrSystem      = 0x04
	AttrVolumeLabel = 0x08
	AttrDirectory   = 0x10
	AttrArchive     = 0x20
)

// FileRecord describes one entry of a built image: a host file,
// a directory, or the volume label.
type FileRecord struct {
	// Name is the long (host) name.
	Name string

	// Short is the 8.3 name stored in the short directory entry.
	Short ShortName

	Attr         uint8
	Size         uint32
	ModTime      time.Time
	FirstCluster uint16
}

// entryCount returns the number of 32-byte directory entries the
// record occupies: the short-name entry plus any long-name entries.
// Volume labels never carry long-name entries, whatever their shape.
func (r FileRecord) entryCount() int {
	if r.Attr&AttrVolumeLabel != 0 {
		return 1
	}
	return LongEntryCount(r.Name) + 1
}

// TotalDirEntries returns the number of 32-byte entries the records
// will occupy in their directory. Root directories have a fixed
// entry capacity, so this must be known before anything is written.
func TotalDirEntries(records []FileRecord) int {
	total := 0
	for _, r := range records {
		total += r.entryCount()
	}
	return total
}
