package cue

import (
	"github.com/bgrewell/disc-kit/pkg/consts"
)

// Command is one recognized cue sheet statement. ParseLine returns nil for lines that carry nothing the disc
// layout needs (blank lines and metadata such as TITLE or REM).
type Command interface {
	command()
}

// TrackCommand is a `TRACK <n> AUDIO` or `TRACK <n> MODE<1|2>/<size>` statement.
type TrackCommand struct {
	Number     int
	Audio      bool
	Mode2XA    bool
	SectorSize int
}

// FileCommand is a `FILE <name> <type>` statement. Type is kept as written (BINARY, MOTOROLA, WAVE, ...).
type FileCommand struct {
	Name string
	Type string
}

// IndexCommand is an `INDEX <n> <MM:SS:FF>` statement with Frames already converted to sectors.
type IndexCommand struct {
	Number int
	Frames int
}

// PregapCommand sets the pregap length of the current track. It comes from `PREGAP <MM:SS:FF>` or from an
// INDEX statement without an index number.
type PregapCommand struct {
	Frames int
}

func (TrackCommand) command()  {}
func (FileCommand) command()   {}
func (IndexCommand) command()  {}
func (PregapCommand) command() {}

// Track is the parser's per-track output. Start and PregapStart are frames relative to the start of File.
type Track struct {
	Number      int
	Audio       bool
	Mode2XA     bool
	SectorSize  int
	Start       int
	PregapStart int
	Pregap      int
	File        string
	FileType    string
}

// IsBinary reports whether the track's file type names raw sector data. A missing type counts as BINARY.
func (t *Track) IsBinary() bool {
	return t.FileType == "" || t.FileType == "BINARY" || t.FileType == "MOTOROLA"
}

func newTrack(cmd TrackCommand, file *FileCommand) *Track {
	t := &Track{
		Number:     cmd.Number,
		Audio:      cmd.Audio,
		Mode2XA:    cmd.Mode2XA,
		SectorSize: cmd.SectorSize,
	}
	if t.Audio {
		t.SectorSize = consts.CD_RAW_SECTOR_SIZE
	}
	if file != nil {
		t.File = file.Name
		t.FileType = file.Type
	}
	return t
}
