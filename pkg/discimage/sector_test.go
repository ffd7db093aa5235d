package discimage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderSize(t *testing.T) {
	assert.Equal(t, 0, HeaderSize(2048, false))
	assert.Equal(t, 0, HeaderSize(2048, true))
	assert.Equal(t, 16, HeaderSize(2352, false))
	assert.Equal(t, 24, HeaderSize(2352, true))
}

func TestUserDataSize(t *testing.T) {
	header := func(b18, b22 byte) []byte {
		h := make([]byte, 24)
		h[18] = b18
		h[22] = b22
		return h
	}

	tests := []struct {
		name       string
		header     []byte
		sectorSize int
		mode2XA    bool
		want       int
		err        bool
	}{
		{name: "mode1", header: header(0x28, 0), sectorSize: 2352, want: 2048},
		{name: "cooked", header: header(0, 0), sectorSize: 2048, mode2XA: true, want: 2048},
		{name: "form1", header: header(0x08, 0), sectorSize: 2352, mode2XA: true, want: 2048},
		{name: "form2", header: header(0x28, 0), sectorSize: 2352, mode2XA: true, want: 2324},
		{name: "equal bytes", header: header(0x08, 0x08), sectorSize: 2352, mode2XA: true, err: true},
		{name: "unknown submode", header: header(0x20, 0), sectorSize: 2352, mode2XA: true, err: true},
		{name: "short header", header: make([]byte, 10), sectorSize: 2352, mode2XA: true, err: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UserDataSize(tt.header, tt.sectorSize, tt.mode2XA)
			if tt.err {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSubheader))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
