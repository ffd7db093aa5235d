package directory

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeAccessors(t *testing.T) {
	rec := &Record{
		LocationOfExtent:     24,
		DataLength:           5000,
		RecordingDateAndTime: time.Date(1998, 3, 14, 10, 20, 30, 0, time.UTC),
		FileFlags:            FlagHidden,
		VolumeSequenceNumber: 1,
		FileIdentifier:       "SLUS_123.45;1",
	}
	b, err := rec.Encode()
	require.NoError(t, err)
	require.Len(t, b, 46, "33 + 13 identifier bytes, no pad needed")
	require.NoError(t, Validate(b))

	assert.Equal(t, 46, RecordLength(b))
	assert.Equal(t, uint32(24), ExtentLE(b))
	assert.Equal(t, uint32(5000), DataLengthLE(b))
	assert.Equal(t, uint16(1), VolumeSequenceLE(b))
	assert.Equal(t, 13, IdentifierLength(b))
	assert.Equal(t, "SLUS_123.45;1", string(Identifier(b)))
	assert.True(t, Flags(b).Hidden())
	assert.False(t, IsSpecial(b))

	recorded, err := RecordingTime(b)
	require.NoError(t, err)
	assert.True(t, rec.RecordingDateAndTime.Equal(recorded))
}

func TestEncodePadsEvenIdentifier(t *testing.T) {
	b, err := (&Record{FileIdentifier: "AB"}).Encode()
	require.NoError(t, err)
	assert.Len(t, b, 36)
	assert.Equal(t, byte(0), b[35])
}

func TestEncodeRejectsEmptyIdentifier(t *testing.T) {
	_, err := (&Record{}).Encode()
	assert.Error(t, err)
}

func TestSpecialRecords(t *testing.T) {
	for _, id := range []string{"\x00", "\x01"} {
		b, err := (&Record{FileIdentifier: id, FileFlags: FlagDirectory}).Encode()
		require.NoError(t, err)
		assert.True(t, IsSpecial(b))
		assert.True(t, Flags(b).Directory())
	}
}

func TestValidate(t *testing.T) {
	good, err := (&Record{FileIdentifier: "FILE.BIN;1"}).Encode()
	require.NoError(t, err)

	tests := []struct {
		name string
		data []byte
	}{
		{name: "short buffer", data: good[:20]},
		{name: "length past buffer", data: good[:len(good)-1]},
		{name: "length too small", data: append([]byte{10}, good[1:]...)},
		{name: "identifier past record", data: func() []byte {
			b := append([]byte{}, good...)
			b[offIdentifierLength] = 200
			return b
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTruncatedRecord))
		})
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		id    string
		strip bool
		want  string
	}{
		{id: "A.TXT;1", strip: true, want: "A.TXT"},
		{id: "A.TXT;1", strip: false, want: "A.TXT;1"},
		{id: "README", strip: true, want: "README"},
		{id: "B.DAT\x00;1", strip: true, want: "B.DAT"},
		{id: "B.DAT\x00;1", strip: false, want: "B.DAT"},
		{id: "DIR", strip: true, want: "DIR"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanName([]byte(tt.id), tt.strip), "%q strip=%v", tt.id, tt.strip)
	}
}

func TestFileFlags(t *testing.T) {
	f := FileFlags(0x86)
	assert.True(t, f.Directory())
	assert.True(t, f.AssociatedFile())
	assert.True(t, f.MultiExtent())
	assert.False(t, f.Hidden())
	assert.False(t, f.Reserved())
	assert.True(t, FileFlags(0x20).Reserved())
	assert.Equal(t, FileFlags(0x04), FlagAssociatedFile)
	assert.Equal(t, FileFlags(0x80), FlagMultiExtent)
}
