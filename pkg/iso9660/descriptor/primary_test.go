package descriptor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPrimaryVolumeDescriptor_EncodeDecode(t *testing.T) {
	pvd := &PrimaryVolumeDescriptor{
		SystemIdentifier:     "PLAYSTATION",
		VolumeIdentifier:     "CAFÉ_DISC",
		PublisherIdentifier:  "SOME PUBLISHER",
		VolumeSpaceSize:      12345,
		VolumeSetSize:        1,
		VolumeSequenceNumber: 1,
		LogicalBlockSize:     2048,
		RootExtent:           18,
		RootLength:           2048,
		CreationDateTime:     time.Date(1999, time.January, 2, 3, 4, 5, 0, time.UTC),
	}

	sector, err := pvd.Encode()
	require.NoError(t, err)
	require.Len(t, sector, 2048)
	require.True(t, HasStandardIdentifier(sector))
	require.Equal(t, byte('É'&0xFF), sector[40+3], "volume identifier stored as ISO-8859-1")

	extent, length := RootExtent(sector)
	require.Equal(t, uint32(18), extent)
	require.Equal(t, uint32(2048), length)

	got, err := Decode(sector)
	require.NoError(t, err)
	require.Equal(t, pvd, got)
}

func TestDecodeErrors(t *testing.T) {
	t.Run("short", func(t *testing.T) {
		_, err := Decode(make([]byte, 100))
		require.True(t, errors.Is(err, ErrShortSector))
	})

	t.Run("no identifier", func(t *testing.T) {
		_, err := Decode(make([]byte, 2048))
		require.True(t, errors.Is(err, ErrNotISO9660))
	})

	t.Run("terminator", func(t *testing.T) {
		_, err := Decode(EncodeTerminator())
		require.True(t, errors.Is(err, ErrNotPrimary))
	})
}

func TestEncodeRejectsLongIdentifier(t *testing.T) {
	_, err := (&PrimaryVolumeDescriptor{SystemIdentifier: "THIS SYSTEM IDENTIFIER IS FAR TOO LONG"}).Encode()
	require.Error(t, err)
}

func TestEncodeRejectsUnmappableIdentifier(t *testing.T) {
	_, err := (&PrimaryVolumeDescriptor{VolumeIdentifier: "日本"}).Encode()
	require.Error(t, err)
}
