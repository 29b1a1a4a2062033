// mkvfat builds a FAT12/16 disk image, including VFAT long file
// names, from a host directory tree.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"github.com/mkvfat/mkvfat/config"
	"github.com/mkvfat/mkvfat/fat"
	"github.com/mkvfat/mkvfat/humanize"
	"github.com/mkvfat/mkvfat/mbr"
	"github.com/mkvfat/mkvfat/progress"
)

var (
	output = pflag.StringP("output",
		"o",
		"disk.img",
		"image file to write")

	label = pflag.String("label",
		config.ReadDefault("label"),
		"volume label (also stored as a root directory entry)")

	size = pflag.String("size",
		config.ReadDefault("size"),
		`geometry preset (e.g. "1.44M", "32M"); empty selects the smallest preset that fits`)

	withMBR = pflag.Bool("mbr",
		false,
		"prepend a partition table placing the volume; requires --size")

	verbose = pflag.BoolP("verbose",
		"v",
		false,
		"print the file table of the built image")
)

func buildImage(src string) error {
	b := fat.NewBuilder(afero.NewOsFs())
	if *label != "" {
		b.SetLabel(*label)
	}
	var geom fat.Geometry
	if *size != "" {
		g, err := fat.GeometryByName(*size)
		if err != nil {
			return err
		}
		if *withMBR {
			// The volume starts after the first track; readers find
			// it through the partition entry and the BPB hidden
			// sector count.
			g.HiddenSectors = uint32(g.SectorsPerTrack)
		}
		geom = g
		b.SetGeometry(g)
	} else if *withMBR {
		return fmt.Errorf("--mbr requires an explicit --size")
	}

	disk, err := b.BuildFromDir(src)
	if err != nil {
		return err
	}

	out, err := os.Create(*output)
	if err != nil {
		return err
	}
	defer out.Close()

	ctx, canc := context.WithCancel(context.Background())
	defer canc()
	var reporter progress.Reporter
	reporter.SetStatus("writing " + *output)
	reporter.SetTotal(uint64(disk.Geom.Capacity()))
	go reporter.Report(ctx)

	w := io.MultiWriter(out, progress.Writer{})
	if *withMBR {
		ptype := uint8(mbr.TypeFAT12)
		if geom.Type == fat.FAT16 {
			ptype = mbr.TypeFAT16
		}
		spt := uint32(disk.Geom.SectorsPerTrack)
		sector := mbr.Sector(ptype, disk.Geom, spt, uint32(disk.Geom.TotalSectors()))
		if _, err := w.Write(sector[:]); err != nil {
			return err
		}
		// Pad the rest of the first track before the volume starts.
		if _, err := w.Write(make([]byte, (int(spt)-1)*disk.Geom.SectorSize)); err != nil {
			return err
		}
	}
	if _, err := disk.WriteTo(w); err != nil {
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	canc()
	fmt.Println()

	table := b.FileTable()
	log.Printf("wrote %s: %s, %d entries",
		*output,
		humanize.Sectors(disk.Geom.TotalSectors(), disk.Geom.SectorSize),
		len(table))
	if *verbose {
		for _, r := range table {
			log.Printf("  %-12s %8s attr=%#02x cluster=%d %q",
				r.Short, humanize.Bytes(uint64(r.Size)), r.Attr, r.FirstCluster, r.Name)
		}
	}
	return nil
}

func main() {
	pflag.Parse()
	if pflag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <directory>\n", os.Args[0])
		pflag.PrintDefaults()
		os.Exit(2)
	}
	if err := buildImage(pflag.Arg(0)); err != nil {
		log.Fatal(err)
	}
}
