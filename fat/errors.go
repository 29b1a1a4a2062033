package fat

import "errors"

var (
	// ErrNameTooLong is returned when a long name exceeds the 255
	// UTF-16 code units a VFAT long-name chain can carry.
	ErrNameTooLong = errors.New("file name exceeds maximum long name length")

	// ErrShortNameExhausted is returned when no unique numeric-tail
	// short name could be found within ~1..~9999.
	ErrShortNameExhausted = errors.New("short name numeric-tail space exhausted")

	// ErrDirectoryFull is returned when a directory needs more
	// 32-byte entries than its region can hold.
	ErrDirectoryFull = errors.New("directory entry capacity exceeded")

	// ErrCapacityExceeded is returned when file content does not fit
	// the data clusters of any usable geometry.
	ErrCapacityExceeded = errors.New("image capacity exceeded")
)
