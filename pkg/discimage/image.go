// Package discimage presents the tracks of a disc as one logical sector address space of user data.
package discimage

import (
	"fmt"

	"github.com/bgrewell/disc-kit/pkg/consts"
	"github.com/bgrewell/disc-kit/pkg/layout"
	"github.com/bgrewell/disc-kit/pkg/logging"
	"github.com/bgrewell/disc-kit/pkg/trackfile"
	"go.uber.org/multierr"
)

// Image reads user data from a laid out disc. The track table is fixed after New, so an Image can be read
// from several goroutines at once.
type Image struct {
	tracks []*layout.PhysicalTrack
	log    *logging.Logger
}

// New creates an Image over tracks. The Image takes ownership of the track files.
func New(tracks []*layout.PhysicalTrack, logger *logging.Logger) *Image {
	return &Image{
		tracks: tracks,
		log:    logger.WithName("discimage"),
	}
}

// Tracks returns the track table.
func (i *Image) Tracks() []*layout.PhysicalTrack {
	return i.tracks
}

// SectorCount returns the first logical sector after the last track.
func (i *Image) SectorCount() int64 {
	if len(i.tracks) == 0 {
		return 0
	}
	return i.tracks[len(i.tracks)-1].End()
}

// TrackFor returns the track holding sector, or nil.
func (i *Image) TrackFor(sector int64) *layout.PhysicalTrack {
	for _, t := range i.tracks {
		if t.Contains(sector) {
			return t
		}
	}
	return nil
}

// ReadSector returns the user data of a logical sector. On failure it logs, and returns a nil slice and the
// error.
func (i *Image) ReadSector(sector int64) ([]byte, error) {
	data, err := i.readSector(sector)
	if err != nil {
		i.log.Error(err, "sector read failed", "sector", sector)
		return nil, err
	}
	return data, nil
}

func (i *Image) readSector(sector int64) ([]byte, error) {
	t := i.TrackFor(sector)
	if t == nil {
		return nil, fmt.Errorf("%w %d", ErrNoTrack, sector)
	}
	offset := t.SectorOffset(sector)

	header := make([]byte, consts.CD_SECTOR_HEADER_PROBE_SIZE)
	if !t.File.Read(header, offset) {
		return nil, fmt.Errorf("%w: header of sector %d (track %d, offset %d)", ErrShortRead, sector, t.Number, offset)
	}

	size, err := UserDataSize(header, t.SectorSize, t.Mode2XA)
	if err != nil {
		return nil, fmt.Errorf("sector %d (track %d): %w", sector, t.Number, err)
	}

	data := make([]byte, size)
	dataOffset := offset + int64(HeaderSize(t.SectorSize, t.Mode2XA))
	if !t.File.Read(data, dataOffset) {
		return nil, fmt.Errorf("%w: data of sector %d (track %d, offset %d)", ErrShortRead, sector, t.Number, dataOffset)
	}
	return data, nil
}

// Read returns length bytes of user data starting at the first byte of sector start. Sectors are concatenated
// and the last one is trimmed. Any failing sector fails the whole read.
func (i *Image) Read(start int64, length int64) ([]byte, error) {
	if length <= 0 {
		return []byte{}, nil
	}
	out := make([]byte, 0, readCapacity(start, length, i.SectorCount()))
	for sector := start; int64(len(out)) < length; sector++ {
		data, err := i.ReadSector(sector)
		if err != nil {
			return nil, err
		}
		remaining := length - int64(len(out))
		if int64(len(data)) > remaining {
			data = data[:remaining]
		}
		out = append(out, data...)
	}
	return out, nil
}

// readCapacity bounds the buffer of a read by the user data the sectors from start to the end of the disc can
// hold at most.
func readCapacity(start, length, sectorCount int64) int64 {
	available := (sectorCount - start) * consts.CD_FORM2_DATA_SIZE
	if available < 0 {
		available = 0
	}
	return min(length, available)
}

// Close closes every distinct track file.
func (i *Image) Close() error {
	var err error
	seen := make(map[*trackfile.TrackFile]struct{})
	for _, t := range i.tracks {
		if t.File == nil {
			continue
		}
		if _, ok := seen[t.File]; ok {
			continue
		}
		seen[t.File] = struct{}{}
		err = multierr.Append(err, t.File.Close())
	}
	return err
}
