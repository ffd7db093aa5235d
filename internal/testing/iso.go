package testing

import (
	"fmt"
	"strings"

	"github.com/bgrewell/disc-kit/pkg/consts"
	"github.com/bgrewell/disc-kit/pkg/iso9660/descriptor"
	"github.com/bgrewell/disc-kit/pkg/iso9660/directory"
)

// Entry is one file placed in an image built by BuildISO. Path separates identifiers with '/' and each
// identifier is recorded exactly as given, e.g. "DATA/A.TXT;1".
type Entry struct {
	Path  string
	Data  []byte
	Flags directory.FileFlags
}

type node struct {
	name     string
	dir      bool
	parent   *node
	children []*node
	data     []byte
	flags    directory.FileFlags
	extent   uint32
	size     uint32
}

// first sector after the system area, the PVD and the terminator
const firstFreeSector = consts.ISO9660_SYSTEM_AREA_SECTORS + 2

// BuildISO returns a cooked (2048 bytes per sector) ISO9660 image holding entries. Directories are created from
// the paths. The root directory starts at sector 18, followed by the other directories and then the file data.
func BuildISO(volumeID string, entries ...Entry) ([]byte, error) {
	root := &node{dir: true}
	root.parent = root
	for _, e := range entries {
		if err := root.add(strings.Split(e.Path, "/"), e); err != nil {
			return nil, err
		}
	}

	var dirs, files []*node
	queue := []*node{root}
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		dirs = append(dirs, d)
		for _, c := range d.children {
			if c.dir {
				queue = append(queue, c)
			} else {
				files = append(files, c)
			}
		}
	}

	next := uint32(firstFreeSector)
	for _, d := range dirs {
		d.size = d.directorySize()
		d.extent = next
		next += d.size / consts.ISO9660_SECTOR_SIZE
	}
	for _, f := range files {
		f.extent = next
		f.size = uint32(len(f.data))
		next += (f.size + consts.ISO9660_SECTOR_SIZE - 1) / consts.ISO9660_SECTOR_SIZE
	}

	img := make([]byte, int(next)*consts.ISO9660_SECTOR_SIZE)
	pvd := &descriptor.PrimaryVolumeDescriptor{
		SystemIdentifier:     "DISC-KIT",
		VolumeIdentifier:     volumeID,
		VolumeSpaceSize:      next,
		VolumeSetSize:        1,
		VolumeSequenceNumber: 1,
		LogicalBlockSize:     consts.ISO9660_SECTOR_SIZE,
		RootExtent:           root.extent,
		RootLength:           root.size,
	}
	sector, err := pvd.Encode()
	if err != nil {
		return nil, err
	}
	copy(img[consts.ISO9660_SYSTEM_AREA_SECTORS*consts.ISO9660_SECTOR_SIZE:], sector)
	copy(img[(consts.ISO9660_SYSTEM_AREA_SECTORS+1)*consts.ISO9660_SECTOR_SIZE:], descriptor.EncodeTerminator())

	for _, d := range dirs {
		if err := d.writeDirectory(img); err != nil {
			return nil, err
		}
	}
	for _, f := range files {
		copy(img[int(f.extent)*consts.ISO9660_SECTOR_SIZE:], f.data)
	}
	return img, nil
}

func (n *node) add(parts []string, e Entry) error {
	if len(parts) == 1 {
		n.children = append(n.children, &node{name: parts[0], parent: n, data: e.Data, flags: e.Flags})
		return nil
	}
	for _, c := range n.children {
		if c.dir && c.name == parts[0] {
			return c.add(parts[1:], e)
		}
	}
	if parts[0] == "" {
		return fmt.Errorf("empty directory name in %q", e.Path)
	}
	d := &node{name: parts[0], dir: true, parent: n}
	n.children = append(n.children, d)
	return d.add(parts[1:], e)
}

func (n *node) records() []*directory.Record {
	self := &directory.Record{
		LocationOfExtent: n.extent, DataLength: n.size,
		FileFlags: directory.FlagDirectory, VolumeSequenceNumber: 1, FileIdentifier: "\x00",
	}
	parent := &directory.Record{
		LocationOfExtent: n.parent.extent, DataLength: n.parent.size,
		FileFlags: directory.FlagDirectory, VolumeSequenceNumber: 1, FileIdentifier: "\x01",
	}
	out := []*directory.Record{self, parent}
	for _, c := range n.children {
		r := &directory.Record{
			LocationOfExtent:     c.extent,
			DataLength:           c.size,
			FileFlags:            c.flags,
			VolumeSequenceNumber: 1,
			FileIdentifier:       c.name,
		}
		if c.dir {
			r.FileFlags |= directory.FlagDirectory
		}
		out = append(out, r)
	}
	return out
}

func recordLength(id string) int {
	l := directory.MinRecordLength + len(id)
	if l%2 != 0 {
		l++
	}
	return l
}

// directorySize packs the records without letting one cross a sector boundary.
func (n *node) directorySize() uint32 {
	sectors, pos := 1, 0
	for _, r := range n.records() {
		l := recordLength(r.FileIdentifier)
		if pos+l > consts.ISO9660_SECTOR_SIZE {
			sectors++
			pos = 0
		}
		pos += l
	}
	return uint32(sectors * consts.ISO9660_SECTOR_SIZE)
}

func (n *node) writeDirectory(img []byte) error {
	base := int(n.extent) * consts.ISO9660_SECTOR_SIZE
	sector, pos := 0, 0
	for _, r := range n.records() {
		b, err := r.Encode()
		if err != nil {
			return fmt.Errorf("record %q: %w", r.FileIdentifier, err)
		}
		if pos+len(b) > consts.ISO9660_SECTOR_SIZE {
			sector++
			pos = 0
		}
		copy(img[base+sector*consts.ISO9660_SECTOR_SIZE+pos:], b)
		pos += len(b)
	}
	return nil
}
