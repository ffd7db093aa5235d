package cue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bgrewell/disc-kit/pkg/consts"
)

// ParseTime converts an MM:SS:FF position into a frame (sector) count: (MM*60+SS)*75+FF.
func ParseTime(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	var v [3]int
	for i, p := range parts {
		if p == "" {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		for _, c := range p {
			if c < '0' || c > '9' {
				return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
		}
		v[i] = n
	}

	minutes, seconds, frames := v[0], v[1], v[2]
	if seconds >= 60 || frames >= consts.CD_FRAMES_PER_SECOND {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidTime, s)
	}
	return (minutes*60+seconds)*consts.CD_FRAMES_PER_SECOND + frames, nil
}

// FormatTime renders a frame count as MM:SS:FF.
func FormatTime(frames int) string {
	if frames < 0 {
		frames = 0
	}
	ff := frames % consts.CD_FRAMES_PER_SECOND
	total := frames / consts.CD_FRAMES_PER_SECOND
	return fmt.Sprintf("%02d:%02d:%02d", total/60, total%60, ff)
}
