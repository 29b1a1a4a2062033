package fat

import "testing"

func TestTotalDirEntries(t *testing.T) {
	t.Parallel()

	records := []FileRecord{
		{Name: "FILE.TXT", Attr: AttrArchive},
		{Name: "longfilename.txt", Attr: AttrArchive},
		{Name: "SHORT.DAT", Attr: AttrArchive},
		{Name: "My Document.doc", Attr: AttrArchive},
	}
	// 1 + (2+1) + 1 + (2+1)
	if got := TotalDirEntries(records); got != 8 {
		t.Errorf("TotalDirEntries = %d, want 8", got)
	}
}

func TestTotalDirEntriesVolumeLabel(t *testing.T) {
	t.Parallel()

	// A volume label never carries long-name entries, however
	// LFN-shaped its name is.
	records := []FileRecord{
		{Name: "My Backup Volume", Attr: AttrVolumeLabel},
	}
	if got := TotalDirEntries(records); got != 1 {
		t.Errorf("TotalDirEntries = %d, want 1", got)
	}
}
