package layout

import (
	"github.com/bgrewell/disc-kit/pkg/trackfile"
)

// PhysicalTrack places a track in the disc's logical sector space and in its backing file.
type PhysicalTrack struct {
	Number     int
	Audio      bool
	Mode2XA    bool
	SectorSize int
	// Start is the first logical sector of the track.
	Start        int64
	TotalSectors int64
	// File is shared by every track cut from the same data file.
	File *trackfile.TrackFile
	// FileOffset is the byte offset in File of the sector at Start.
	FileOffset int64
}

// End returns the first logical sector after the track.
func (t *PhysicalTrack) End() int64 {
	return t.Start + t.TotalSectors
}

// Contains reports whether the logical sector belongs to the track.
func (t *PhysicalTrack) Contains(sector int64) bool {
	return sector >= t.Start && sector < t.End()
}

// SectorOffset returns the byte offset in File of a logical sector of the track.
func (t *PhysicalTrack) SectorOffset(sector int64) int64 {
	return t.FileOffset + (sector-t.Start)*int64(t.SectorSize)
}

func sectorsFrom(size, offset int64, sectorSize int) int64 {
	remaining := size - offset
	if remaining <= 0 {
		return 0
	}
	ss := int64(sectorSize)
	return (remaining + ss - 1) / ss
}
