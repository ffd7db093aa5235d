// Package iso9660 maps the files of an ISO9660 volume to extents in a logical sector space.
package iso9660

import (
	"errors"
	"fmt"

	"github.com/bgrewell/disc-kit/pkg/consts"
	"github.com/bgrewell/disc-kit/pkg/iso9660/descriptor"
	"github.com/bgrewell/disc-kit/pkg/iso9660/directory"
	"github.com/bgrewell/disc-kit/pkg/iso9660/validation"
	"github.com/bgrewell/disc-kit/pkg/logging"
	"github.com/bgrewell/disc-kit/pkg/option"
)

var (
	ErrNotISO9660    = descriptor.ErrNotISO9660
	ErrReadFailed    = errors.New("file read failed")
	ErrDuplicatePath = errors.New("duplicate path in directory tree")
)

// SectorReader is the sector level read access the filesystem needs. *discimage.Image implements it.
type SectorReader interface {
	ReadSector(sector int64) ([]byte, error)
	Read(start int64, length int64) ([]byte, error)
}

// FileSpan locates a file's data: its first logical sector and its length in bytes.
type FileSpan struct {
	Sector int64
	Size   int64
}

// ReadVolumeInfo decodes the Primary Volume Descriptor at sector 16.
func ReadVolumeInfo(img SectorReader) (*descriptor.PrimaryVolumeDescriptor, error) {
	sector, err := img.ReadSector(consts.ISO9660_SYSTEM_AREA_SECTORS)
	if err != nil {
		return nil, fmt.Errorf("read volume descriptor: %w", err)
	}
	if len(sector) < consts.ISO9660_SECTOR_SIZE {
		padded := make([]byte, consts.ISO9660_SECTOR_SIZE)
		copy(padded, sector)
		sector = padded
	}
	return descriptor.Decode(sector)
}

// GetFiles walks the directory tree from the root named by the Primary Volume Descriptor and returns every
// regular file keyed by its absolute path, e.g. "/DATA/A.TXT". Associated files are left out. Directory sectors
// that cannot be read are logged and skipped. Two records resolving to one path fail with ErrDuplicatePath.
//
// Recognized options: WithLogger and WithStripVersionInfo.
func GetFiles(img SectorReader, opts ...option.OpenOption) (map[string]FileSpan, error) {
	o := option.Apply(opts...)
	w := &walker{
		img:          img,
		stripVersion: o.StripVersionInfo,
		log:          o.Logger.WithName("iso9660"),
		files:        make(map[string]FileSpan),
		visited:      make(map[uint32]struct{}),
	}

	pvd, err := img.ReadSector(consts.ISO9660_SYSTEM_AREA_SECTORS)
	if err != nil {
		return nil, fmt.Errorf("read volume descriptor: %w", err)
	}
	if !descriptor.HasStandardIdentifier(pvd) || len(pvd) < consts.ISO9660_PVD_ROOT_LENGTH_OFFSET+4 {
		return nil, ErrNotISO9660
	}

	extent, size := descriptor.RootExtent(pvd)
	w.log.Debug("walking root directory", "extent", extent, "size", size)
	w.visited[extent] = struct{}{}
	if err := w.visitDir(extent, size, ""); err != nil {
		return nil, err
	}
	w.log.Debug("directory walk complete", "files", len(w.files))
	return w.files, nil
}

// ReadFile returns the whole content of the file at span.
func ReadFile(img SectorReader, span FileSpan) ([]byte, error) {
	data, err := img.Read(span.Sector, span.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: sector %d: %v", ErrReadFailed, span.Sector, err)
	}
	if int64(len(data)) != span.Size {
		return nil, fmt.Errorf("%w: sector %d: got %d of %d bytes", ErrReadFailed, span.Sector, len(data), span.Size)
	}
	return data, nil
}

type walker struct {
	img          SectorReader
	stripVersion bool
	log          *logging.Logger
	files        map[string]FileSpan
	visited      map[uint32]struct{}
}

func (w *walker) visitDir(extent uint32, size uint32, path string) error {
	sector := int64(extent)
	for remaining := int64(size); remaining > 0; remaining -= consts.ISO9660_SECTOR_SIZE {
		data, err := w.img.ReadSector(sector)
		if err != nil {
			w.log.Error(err, "skipping unreadable directory sector", "sector", sector, "path", path)
			sector++
			continue
		}
		if len(data) > consts.ISO9660_SECTOR_SIZE {
			data = data[:consts.ISO9660_SECTOR_SIZE]
		}
		if err := w.visitSector(data, sector, path); err != nil {
			return err
		}
		sector++
	}
	return nil
}

// visitSector handles the packed records of one directory sector. Records never cross a sector boundary and a
// zero length byte marks the unused tail.
func (w *walker) visitSector(data []byte, sector int64, path string) error {
	for pos := 0; pos < len(data) && data[pos] != 0; {
		record := data[pos:]
		if err := directory.Validate(record); err != nil {
			w.log.Error(err, "skipping rest of directory sector", "sector", sector, "offset", pos, "path", path)
			return nil
		}
		record = record[:directory.RecordLength(record)]
		pos += len(record)

		flags := directory.Flags(record)
		if flags.AssociatedFile() || directory.IsSpecial(record) {
			continue
		}
		name := directory.CleanName(directory.Identifier(record), w.stripVersion)
		if name == "" {
			w.log.Debug("skipping record without a name", "sector", sector, "path", path)
			continue
		}
		full := path + consts.ISO9660_PATH_SEPARATOR + name
		if err := validation.ValidateDCharacters(name, true); err != nil {
			w.log.Trace("non-standard identifier", "path", full, "reason", err.Error())
		}
		extent := directory.ExtentLE(record)
		length := directory.DataLengthLE(record)

		if flags.Directory() {
			if _, seen := w.visited[extent]; seen {
				w.log.Debug("directory already visited", "path", full, "extent", extent)
				continue
			}
			w.visited[extent] = struct{}{}
			w.log.Trace("entering directory", "path", full, "extent", extent, "size", length)
			if err := w.visitDir(extent, length, full); err != nil {
				return err
			}
			continue
		}

		w.note(record, full, flags)
		if _, exists := w.files[full]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicatePath, full)
		}
		w.files[full] = FileSpan{Sector: int64(extent), Size: int64(length)}
		recorded, _ := directory.RecordingTime(record)
		w.log.Trace("file", "path", full, "sector", extent, "size", length, "recorded", recorded)
	}
	return nil
}

// note logs the record attributes a FileSpan does not carry. The file is listed either way.
func (w *walker) note(record []byte, full string, flags directory.FileFlags) {
	if flags.Hidden() {
		w.log.Trace("hidden file", "path", full)
	}
	if flags.Reserved() {
		w.log.Debug("reserved flag bits set", "path", full, "flags", byte(flags))
	}
	if flags.MultiExtent() {
		w.log.Info("multi-extent file, only this extent is listed", "path", full)
	}
	if n := directory.ExtAttrLength(record); n != 0 {
		w.log.Debug("extended attribute record ignored", "path", full, "blocks", n)
	}
	if unit, gap := directory.FileUnitSize(record), directory.InterleaveGapSize(record); unit != 0 || gap != 0 {
		w.log.Debug("interleaved file read as contiguous", "path", full, "unit", unit, "gap", gap)
	}
	if seq := directory.VolumeSequenceLE(record); seq > 1 {
		w.log.Debug("file recorded on another volume of the set", "path", full, "volume", seq)
	}
}
