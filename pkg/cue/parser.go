// Package cue reads CUE sheets into an ordered list of tracks.
package cue

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/bgrewell/disc-kit/pkg/logging"
)

// Metadata statements that do not affect the sector layout.
var ignoredKeywords = map[string]struct{}{
	"CATALOG":    {},
	"CDTEXTFILE": {},
	"FLAGS":      {},
	"ISRC":       {},
	"PERFORMER":  {},
	"POSTGAP":    {},
	"REM":        {},
	"SONGWRITER": {},
	"TITLE":      {},
}

// Sheet is a parsed cue sheet.
type Sheet struct {
	Tracks []*Track
	// Warnings lists the lines that were skipped, in order.
	Warnings []*LineError
}

// Parse reads a cue sheet. Lines that cannot be parsed are logged, recorded in Sheet.Warnings and skipped; only a
// failure to read r is returned as an error.
func Parse(r io.Reader, logger *logging.Logger) (*Sheet, error) {
	log := logger.WithName("cue")
	sheet := &Sheet{}

	var file *FileCommand
	var current *Track

	reader := bufio.NewReader(r)
	lineNo := 0
	for {
		text, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("read cue sheet: %w", readErr)
		}
		if readErr != nil && text == "" {
			break
		}
		lineNo++
		text = strings.TrimRight(text, "\r\n")
		if lineNo == 1 {
			text = strings.TrimPrefix(text, "\ufeff")
		}

		cmd, err := ParseLine(text)
		if err == nil {
			switch c := cmd.(type) {
			case FileCommand:
				file = &c
			case TrackCommand:
				current = newTrack(c, file)
				sheet.Tracks = append(sheet.Tracks, current)
				log.Trace("track", "number", c.Number, "audio", c.Audio, "mode2xa", c.Mode2XA, "sectorSize", current.SectorSize)
			case IndexCommand:
				if current == nil {
					err = ErrNoTrack
					break
				}
				switch c.Number {
				case 0:
					current.PregapStart = c.Frames
				case 1:
					current.Start = c.Frames
				}
			case PregapCommand:
				if current == nil {
					err = ErrNoTrack
					break
				}
				current.Pregap = c.Frames
			}
		}

		if err != nil {
			lerr := &LineError{Line: lineNo, Text: text, Err: err}
			sheet.Warnings = append(sheet.Warnings, lerr)
			log.Error(err, "skipping cue line", "line", lineNo, "text", text)
		}
		if readErr != nil {
			break
		}
	}

	log.Debug("parsed cue sheet", "tracks", len(sheet.Tracks), "warnings", len(sheet.Warnings))
	return sheet, nil
}

// ParseLine recognizes a single cue statement. Blank lines and metadata keywords return (nil, nil).
func ParseLine(line string) (Command, error) {
	tokens, err := tokenize(line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	keyword := strings.ToUpper(tokens[0])
	args := tokens[1:]
	if _, ok := ignoredKeywords[keyword]; ok {
		return nil, nil
	}

	switch keyword {
	case "TRACK":
		return parseTrack(args)
	case "FILE":
		return parseFile(args)
	case "INDEX":
		return parseIndex(args)
	case "PREGAP":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: PREGAP expects a time", ErrMalformedCommand)
		}
		frames, err := ParseTime(args[0])
		if err != nil {
			return nil, err
		}
		return PregapCommand{Frames: frames}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, tokens[0])
}

func parseTrack(args []string) (Command, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: TRACK expects a number and a type", ErrMalformedCommand)
	}
	number, err := strconv.Atoi(args[0])
	if err != nil || number < 1 {
		return nil, fmt.Errorf("%w: bad track number %q", ErrMalformedCommand, args[0])
	}

	kind := strings.ToUpper(args[1])
	if kind == "AUDIO" {
		return TrackCommand{Number: number, Audio: true}, nil
	}

	// MODE1/2048, MODE1/2352, MODE2/2336, MODE2/2352
	mode, size, found := strings.Cut(kind, "/")
	if !found || len(mode) != 5 || !strings.HasPrefix(mode, "MODE") || (mode[4] != '1' && mode[4] != '2') {
		return nil, fmt.Errorf("%w: bad track type %q", ErrMalformedCommand, args[1])
	}
	sectorSize, err := strconv.Atoi(size)
	if err != nil || sectorSize <= 0 {
		return nil, fmt.Errorf("%w: bad sector size %q", ErrMalformedCommand, args[1])
	}
	return TrackCommand{Number: number, Mode2XA: mode[4] == '2', SectorSize: sectorSize}, nil
}

func parseFile(args []string) (Command, error) {
	switch len(args) {
	case 1:
		return FileCommand{Name: args[0]}, nil
	case 2:
		return FileCommand{Name: args[0], Type: strings.ToUpper(args[1])}, nil
	}
	return nil, fmt.Errorf("%w: FILE expects a name and a type", ErrMalformedCommand)
}

func parseIndex(args []string) (Command, error) {
	switch len(args) {
	case 1:
		frames, err := ParseTime(args[0])
		if err != nil {
			return nil, err
		}
		return PregapCommand{Frames: frames}, nil
	case 2:
		number, err := strconv.Atoi(args[0])
		if err != nil || number < 0 || number > 99 {
			return nil, fmt.Errorf("%w: bad index number %q", ErrMalformedCommand, args[0])
		}
		frames, err := ParseTime(args[1])
		if err != nil {
			return nil, err
		}
		return IndexCommand{Number: number, Frames: frames}, nil
	}
	return nil, fmt.Errorf("%w: INDEX expects [number] MM:SS:FF", ErrMalformedCommand)
}

// tokenize splits a line on white space. A double-quoted string is one token without its quotes.
func tokenize(line string) ([]string, error) {
	var tokens []string
	runes := []rune(line)
	for i := 0; i < len(runes); {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}
		if runes[i] == '"' {
			end := i + 1
			for end < len(runes) && runes[end] != '"' {
				end++
			}
			if end == len(runes) {
				return nil, fmt.Errorf("%w: unterminated string", ErrMalformedCommand)
			}
			tokens = append(tokens, string(runes[i+1:end]))
			i = end + 1
			continue
		}
		end := i
		for end < len(runes) && !unicode.IsSpace(runes[end]) {
			end++
		}
		tokens = append(tokens, string(runes[i:end]))
		i = end
	}
	return tokens, nil
}
