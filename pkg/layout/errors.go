package layout

import "errors"

var (
	ErrInvalidTrackNumber = errors.New("track numbers must be contiguous from 1")
	ErrInvalidPregapStart = errors.New("pregap start is after the track start")
	ErrOverlappingTracks  = errors.New("tracks overlap")
	ErrMissingFile        = errors.New("track has no FILE")
	ErrInvalidSectorSize  = errors.New("invalid sector size")
)
