package chs

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var tiny = Geometry{Cylinders: 2, Heads: 2, SectorsPerTrack: 2, SectorSize: 4}

func TestFromLinear(t *testing.T) {
	t.Parallel()

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	d, err := FromLinear(tiny, data)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(d.Cylinders); got != 2 {
		t.Fatalf("got %d cylinders, want 2", got)
	}

	first, err := d.Sector(0, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{1, 2, 3, 4}, first); diff != "" {
		t.Errorf("unexpected first sector: diff (-want +got):\n%s", diff)
	}

	// The third sector ends inside the data; the rest is zero
	// padding.
	third, err := d.Sector(0, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{9, 10, 0, 0}, third); diff != "" {
		t.Errorf("unexpected third sector: diff (-want +got):\n%s", diff)
	}
}

func TestFromLinearTooLarge(t *testing.T) {
	t.Parallel()

	if _, err := FromLinear(tiny, make([]byte, 33)); err == nil {
		t.Fatal("FromLinear accepted data beyond capacity")
	}
}

func TestSectorOutOfRange(t *testing.T) {
	t.Parallel()

	d, err := FromLinear(tiny, nil)
	if err != nil {
		t.Fatal(err)
	}
	for _, addr := range [][3]int{
		{2, 0, 1}, // cylinder out of range
		{0, 2, 1}, // head out of range
		{0, 0, 0}, // sectors are 1-based
		{0, 0, 3},
	} {
		if _, err := d.Sector(addr[0], addr[1], addr[2]); err == nil {
			t.Errorf("Sector(%d, %d, %d) did not fail", addr[0], addr[1], addr[2])
		}
	}
}

func TestWriteTo(t *testing.T) {
	t.Parallel()

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	d, err := FromLinear(tiny, data)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	n, err := d.WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if n != tiny.Capacity() {
		t.Fatalf("WriteTo wrote %d bytes, want %d", n, tiny.Capacity())
	}
	want := make([]byte, tiny.Capacity())
	copy(want, data)
	if diff := cmp.Diff(want, buf.Bytes()); diff != "" {
		t.Errorf("unexpected image: diff (-want +got):\n%s", diff)
	}
}
