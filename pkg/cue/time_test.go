package cue

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{in: "00:00:00", want: 0, ok: true},
		{in: "01:02:03", want: (1*60+2)*75 + 3, ok: true},
		{in: "00:02:00", want: 150, ok: true},
		{in: "79:59:74", want: (79*60+59)*75 + 74, ok: true},
		{in: "bogus", ok: false},
		{in: "01:02", ok: false},
		{in: "01::03", ok: false},
		{in: "01:60:00", ok: false},
		{in: "01:00:75", ok: false},
		{in: "-1:00:00", ok: false},
		{in: "aa:bb:cc", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			if !tt.ok {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTime))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeMinutesSecondsFrames(t *testing.T) {
	got, err := ParseTime("01:02:03")
	require.NoError(t, err)
	assert.Equal(t, 4653, got)
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatTime(0))
	assert.Equal(t, "01:02:03", FormatTime(4653))
	assert.Equal(t, "00:02:00", FormatTime(150))
	assert.Equal(t, "00:00:00", FormatTime(-5))

	for _, frames := range []int{0, 1, 74, 75, 4499, 4500, 359999} {
		back, err := ParseTime(FormatTime(frames))
		require.NoError(t, err)
		assert.Equal(t, frames, back)
	}
}
