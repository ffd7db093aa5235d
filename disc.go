// Package disc opens CD-ROM images (CUE sheets with their track files, bare .iso files and raw .bin dumps) and
// reads sectors and ISO9660 files from them.
package disc

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bgrewell/disc-kit/pkg/consts"
	"github.com/bgrewell/disc-kit/pkg/cue"
	"github.com/bgrewell/disc-kit/pkg/discimage"
	"github.com/bgrewell/disc-kit/pkg/filesystem"
	"github.com/bgrewell/disc-kit/pkg/iso9660"
	"github.com/bgrewell/disc-kit/pkg/iso9660/descriptor"
	"github.com/bgrewell/disc-kit/pkg/layout"
	"github.com/bgrewell/disc-kit/pkg/logging"
	"github.com/bgrewell/disc-kit/pkg/option"
	"github.com/bgrewell/disc-kit/pkg/trackfile"
	"go.uber.org/multierr"
)

var (
	ErrNoTracks   = errors.New("image has no tracks")
	ErrNotFound   = errors.New("file not found")
	ErrUnsafePath = errors.New("path escapes the output directory")
)

// Disc is an opened disc image.
type Disc struct {
	img     *discimage.Image
	sheet   *cue.Sheet
	options *option.OpenOptions
	log     *logging.Logger

	mu    sync.Mutex
	files map[string]iso9660.FileSpan
}

// Open opens the image at location. The format is chosen by extension: ".cue" loads a CUE sheet and its track
// files, ".iso" a cooked 2048-byte image, anything else is probed as a raw dump (2352-byte sectors when the size
// is a multiple of 2352, Mode 1 or Mode 2 XA by the mode byte of sector 16) and otherwise read as cooked.
func Open(location string, opts ...option.OpenOption) (*Disc, error) {
	o := option.Apply(opts...)
	log := o.Logger.WithName("disc").WithValues("image", location)

	if strings.EqualFold(filepath.Ext(location), ".cue") {
		f, err := o.Fs.Open(location)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %v", trackfile.ErrCannotOpen, location, err)
		}
		defer f.Close()
		return openCue(f, filepath.Dir(location), o)
	}

	tf, err := trackfile.Open(o.Fs, location)
	if err != nil {
		return nil, err
	}
	sectorSize, mode2XA := consts.ISO9660_SECTOR_SIZE, false
	if !strings.EqualFold(filepath.Ext(location), ".iso") {
		sectorSize, mode2XA, err = probeRaw(tf)
		if err != nil {
			_ = tf.Close()
			return nil, err
		}
	}
	log.Debug("opening single track image", "sectorSize", sectorSize, "mode2xa", mode2XA)

	tracks, err := layout.SingleTrack(tf, sectorSize, mode2XA)
	if err != nil {
		_ = tf.Close()
		return nil, err
	}
	return newDisc(tracks, nil, o), nil
}

// OpenCue opens a disc from CUE sheet text. Relative FILE names are resolved against dir.
func OpenCue(r io.Reader, dir string, opts ...option.OpenOption) (*Disc, error) {
	return openCue(r, dir, option.Apply(opts...))
}

func openCue(r io.Reader, dir string, o *option.OpenOptions) (*Disc, error) {
	sheet, err := cue.Parse(r, o.Logger)
	if err != nil {
		return nil, err
	}
	if len(sheet.Tracks) == 0 {
		return nil, ErrNoTracks
	}

	open := func(name string) (*trackfile.TrackFile, error) {
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		return trackfile.Open(o.Fs, name)
	}
	tracks, err := layout.Build(sheet.Tracks, open, o.Logger)
	if err != nil {
		return nil, err
	}
	return newDisc(tracks, sheet, o), nil
}

// probeRaw decides the sector format of a single-file dump.
func probeRaw(tf *trackfile.TrackFile) (int, bool, error) {
	size, err := tf.Size()
	if err != nil {
		return 0, false, err
	}
	if size == 0 || size%consts.CD_RAW_SECTOR_SIZE != 0 {
		return consts.ISO9660_SECTOR_SIZE, false, nil
	}
	mode := make([]byte, 1)
	offset := int64(consts.ISO9660_SYSTEM_AREA_SECTORS)*consts.CD_RAW_SECTOR_SIZE + consts.CD_MODE_BYTE_OFFSET
	if tf.Read(mode, offset) && mode[0] == 2 {
		return consts.CD_RAW_SECTOR_SIZE, true, nil
	}
	return consts.CD_RAW_SECTOR_SIZE, false, nil
}

func newDisc(tracks []*layout.PhysicalTrack, sheet *cue.Sheet, o *option.OpenOptions) *Disc {
	d := &Disc{
		img:     discimage.New(tracks, o.Logger),
		sheet:   sheet,
		options: o,
		log:     o.Logger.WithName("disc"),
	}
	d.log.Debug("disc opened", "tracks", len(tracks), "sectors", d.img.SectorCount())
	return d
}

// Image returns the sector level view of the disc.
func (d *Disc) Image() *discimage.Image {
	return d.img
}

// Tracks returns the track layout.
func (d *Disc) Tracks() []*layout.PhysicalTrack {
	return d.img.Tracks()
}

// Warnings returns the CUE sheet lines that were skipped while opening. It is empty for non-CUE images.
func (d *Disc) Warnings() []*cue.LineError {
	if d.sheet == nil {
		return nil
	}
	return d.sheet.Warnings
}

// ReadSector returns the user data of one logical sector.
func (d *Disc) ReadSector(sector int64) ([]byte, error) {
	return d.img.ReadSector(sector)
}

// Read returns length bytes of user data starting at sector.
func (d *Disc) Read(sector int64, length int64) ([]byte, error) {
	return d.img.Read(sector, length)
}

// VolumeInfo returns the Primary Volume Descriptor.
func (d *Disc) VolumeInfo() (*descriptor.PrimaryVolumeDescriptor, error) {
	return iso9660.ReadVolumeInfo(d.img)
}

// GetFiles returns every file of the ISO9660 filesystem keyed by absolute path. With WithCacheFiles the first
// successful walk is kept and copies of it are returned afterwards.
func (d *Disc) GetFiles() (map[string]iso9660.FileSpan, error) {
	if !d.options.CacheFiles {
		return d.walk()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.files == nil {
		files, err := d.walk()
		if err != nil {
			return nil, err
		}
		d.files = files
	}
	return maps.Clone(d.files), nil
}

func (d *Disc) walk() (map[string]iso9660.FileSpan, error) {
	return iso9660.GetFiles(d.img,
		option.WithLogger(d.options.Logger),
		option.WithStripVersionInfo(d.options.StripVersionInfo))
}

// ReadFile returns the content of the file at span.
func (d *Disc) ReadFile(span iso9660.FileSpan) ([]byte, error) {
	return iso9660.ReadFile(d.img, span)
}

// ReadPath looks a file up by its absolute path and returns its content. The leading '/' may be omitted.
func (d *Disc) ReadPath(p string) ([]byte, error) {
	files, err := d.GetFiles()
	if err != nil {
		return nil, err
	}
	p = path.Clean(consts.ISO9660_PATH_SEPARATOR + strings.TrimPrefix(p, consts.ISO9660_PATH_SEPARATOR))
	span, ok := files[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	return d.ReadFile(span)
}

// Extract writes every file of the filesystem below outputDir on the configured filesystem, reporting each
// finished file to the extraction progress callback.
func (d *Disc) Extract(outputDir string) error {
	files, err := d.GetFiles()
	if err != nil {
		return err
	}
	entries := filesystem.Files(files)
	fs := d.options.Fs

	for i, e := range entries {
		target := filepath.Join(outputDir, filepath.FromSlash(e.FullPath))
		if rel, err := filepath.Rel(outputDir, target); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, e.FullPath)
		}

		data, err := d.ReadFile(e.Span())
		if err != nil {
			return fmt.Errorf("extract %s: %w", e.FullPath, err)
		}
		if err := fs.MkdirAll(filepath.Dir(target), os.ModePerm); err != nil {
			return fmt.Errorf("create directory for %s: %w", e.FullPath, err)
		}
		f, err := fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("create %s: %w", target, err)
		}
		_, err = f.Write(data)
		err = multierr.Append(err, f.Close())
		if err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}

		d.log.Trace("extracted", "path", e.FullPath, "size", e.Size)
		if cb := d.options.ExtractionProgressCallback; cb != nil {
			cb(e.FullPath, int64(len(data)), e.Size, i+1, len(entries))
		}
	}
	d.log.Info("extraction complete", "files", len(entries), "output", outputDir)
	return nil
}

// Close releases the track files.
func (d *Disc) Close() error {
	return d.img.Close()
}
