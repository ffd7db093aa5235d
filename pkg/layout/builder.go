// Package layout turns the tracks of a cue sheet into a logical sector map over their data files.
package layout

import (
	"fmt"

	"github.com/bgrewell/disc-kit/pkg/cue"
	"github.com/bgrewell/disc-kit/pkg/logging"
	"github.com/bgrewell/disc-kit/pkg/trackfile"
)

// Opener opens the data file named by a cue FILE statement.
type Opener func(name string) (*trackfile.TrackFile, error)

type builder struct {
	open   Opener
	log    *logging.Logger
	files  map[string]*trackfile.TrackFile
	sizes  map[*trackfile.TrackFile]int64
	tracks []*PhysicalTrack

	// discSectorStart is the logical sector where the current data file begins.
	discSectorStart int64
	// totalPregap counts the pregap sectors inserted since the current data file began.
	totalPregap int64
}

// Build lays out tracks in order. Each distinct file name is opened once through open and shared by its tracks.
// On failure every file opened so far is closed again.
func Build(tracks []*cue.Track, open Opener, logger *logging.Logger) ([]*PhysicalTrack, error) {
	b := &builder{
		open:  open,
		log:   logger.WithName("layout"),
		files: make(map[string]*trackfile.TrackFile),
		sizes: make(map[*trackfile.TrackFile]int64),
	}
	for _, t := range tracks {
		if err := b.add(t); err != nil {
			b.closeAll()
			return nil, fmt.Errorf("track %d: %w", t.Number, err)
		}
	}
	return b.tracks, nil
}

func (b *builder) add(t *cue.Track) error {
	if t.Number != len(b.tracks)+1 {
		return fmt.Errorf("%w: expected %d", ErrInvalidTrackNumber, len(b.tracks)+1)
	}
	if t.File == "" {
		return ErrMissingFile
	}
	if !t.IsBinary() {
		b.log.Info("file type is not raw sector data, reading it as BINARY", "track", t.Number, "file", t.File, "type", t.FileType)
	}
	if t.SectorSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSectorSize, t.SectorSize)
	}
	file, size, err := b.file(t.File)
	if err != nil {
		return err
	}

	start := int64(t.Start)
	pregap := int64(t.Pregap)
	ss := int64(t.SectorSize)

	var inFileSector int64
	if t.PregapStart != 0 {
		if t.PregapStart > t.Start {
			return fmt.Errorf("%w: pregap %d, start %d", ErrInvalidPregapStart, t.PregapStart, t.Start)
		}
		inFileSector = int64(t.Start - t.PregapStart)
	}

	pt := &PhysicalTrack{
		Number:     t.Number,
		Audio:      t.Audio,
		Mode2XA:    t.Mode2XA,
		SectorSize: t.SectorSize,
		File:       file,
	}

	if len(b.tracks) == 0 {
		pt.FileOffset = inFileSector * ss
		pt.Start = start + pregap
		b.totalPregap = pregap
	} else {
		prev := b.tracks[len(b.tracks)-1]
		if prev.File == file {
			pt.Start = start + b.discSectorStart
			// the previous track ends where this one starts, which was unknown until now
			prev.TotalSectors = pt.Start - prev.Start + b.totalPregap - inFileSector
			if prev.TotalSectors < 0 {
				return fmt.Errorf("%w: track %d would have %d sectors", ErrOverlappingTracks, prev.Number, prev.TotalSectors)
			}
			pt.FileOffset = prev.FileOffset + prev.TotalSectors*int64(prev.SectorSize) + inFileSector*ss
			b.totalPregap += pregap
			pt.Start += b.totalPregap
			b.log.Trace("corrected track length", "track", prev.Number, "sectors", prev.TotalSectors)
		} else {
			pt.Start = start + prev.Start + prev.TotalSectors + pregap
			pt.FileOffset = inFileSector * ss
			b.discSectorStart = prev.End()
			b.totalPregap = pregap
		}
		if pt.Start < prev.End() {
			return fmt.Errorf("%w: track %d starts at %d before track %d ends at %d",
				ErrOverlappingTracks, pt.Number, pt.Start, prev.Number, prev.End())
		}
	}

	pt.TotalSectors = sectorsFrom(size, pt.FileOffset, pt.SectorSize)
	b.tracks = append(b.tracks, pt)
	b.log.Trace("track added", "track", pt.Number, "start", pt.Start, "sectors", pt.TotalSectors,
		"fileOffset", pt.FileOffset, "sectorSize", pt.SectorSize, "mode2xa", pt.Mode2XA)
	return nil
}

func (b *builder) file(name string) (*trackfile.TrackFile, int64, error) {
	if f, ok := b.files[name]; ok {
		return f, b.sizes[f], nil
	}
	f, err := b.open(name)
	if err != nil {
		return nil, 0, err
	}
	b.files[name] = f
	size, err := f.Size()
	if err != nil {
		return nil, 0, err
	}
	b.sizes[f] = size
	b.log.Debug("opened track file", "name", name, "size", size)
	return f, size, nil
}

func (b *builder) closeAll() {
	for _, f := range b.files {
		_ = f.Close()
	}
}

// SingleTrack lays out one data track covering the whole file, as for a bare .iso or raw .bin image.
func SingleTrack(file *trackfile.TrackFile, sectorSize int, mode2XA bool) ([]*PhysicalTrack, error) {
	if sectorSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSectorSize, sectorSize)
	}
	size, err := file.Size()
	if err != nil {
		return nil, err
	}
	return []*PhysicalTrack{{
		Number:       1,
		Mode2XA:      mode2XA,
		SectorSize:   sectorSize,
		File:         file,
		TotalSectors: sectorsFrom(size, 0, sectorSize),
	}}, nil
}
