package trackfile

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFile(t *testing.T, data []byte) *TrackFile {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/disc/track01.bin", data, 0o644))
	tf, err := Open(fs, "/disc/track01.bin")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tf.Close() })
	return tf
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(afero.NewMemMapFs(), "/nope.bin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCannotOpen))
}

func TestSize(t *testing.T) {
	tf := newFile(t, make([]byte, 4704))
	size, err := tf.Size()
	require.NoError(t, err)
	assert.EqualValues(t, 4704, size)
	assert.Equal(t, "/disc/track01.bin", tf.Path())
}

func TestRead(t *testing.T) {
	tests := []struct {
		name   string
		offset int64
		length int
		ok     bool
		want   []byte
	}{
		{name: "start", offset: 0, length: 3, ok: true, want: []byte{0, 1, 2}},
		{name: "middle", offset: 5, length: 2, ok: true, want: []byte{5, 6}},
		{name: "tail", offset: 7, length: 3, ok: true, want: []byte{7, 8, 9}},
		{name: "short", offset: 8, length: 4, ok: false, want: []byte{8, 9, 0, 0}},
		{name: "past end", offset: 20, length: 2, ok: false, want: []byte{0, 0}},
		{name: "negative", offset: -1, length: 2, ok: false, want: []byte{0, 0}},
	}

	tf := newFile(t, []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := make([]byte, tt.length)
			for i := range buf {
				buf[i] = 0xFF
			}
			assert.Equal(t, tt.ok, tf.Read(buf, tt.offset))
			assert.Equal(t, tt.want, buf)
		})
	}
}

func TestReadAfterSize(t *testing.T) {
	tf := newFile(t, []byte{1, 2, 3, 4})
	_, err := tf.Size()
	require.NoError(t, err)

	buf := make([]byte, 2)
	require.True(t, tf.Read(buf, 1))
	assert.Equal(t, []byte{2, 3}, buf)
}
