package fat_test

import (
	"fmt"
	"log"

	"github.com/spf13/afero"

	"github.com/mkvfat/mkvfat/fat"
)

func Example() {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/src/hello world.txt", []byte("hi"), 0644); err != nil {
		log.Fatal(err)
	}

	b := fat.NewBuilder(fsys)
	b.SetLabel("EXAMPLE")
	disk, err := b.BuildFromDir("/src")
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("%d cylinders\n", len(disk.Cylinders))
	for _, r := range b.FileTable() {
		fmt.Printf("%s -> %s\n", r.Name, r.Short)
	}
	// Output:
	// 40 cylinders
	// hello world.txt -> HELLOW~1.TXT
}
