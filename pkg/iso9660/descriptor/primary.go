// Package descriptor reads and writes the Primary Volume Descriptor (ECMA-119 8.4).
package descriptor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bgrewell/disc-kit/pkg/consts"
	"github.com/bgrewell/disc-kit/pkg/iso9660/encoding"
	"golang.org/x/text/encoding/charmap"
)

const (
	TYPE_PRIMARY    = 1
	TYPE_TERMINATOR = 255
)

// Field positions inside the 2048-byte descriptor.
const (
	offType               = 0
	offVersion            = 6
	offSystemIdentifier   = 8
	offVolumeIdentifier   = 40
	offVolumeSpaceSize    = 80
	offVolumeSetSize      = 120
	offVolumeSequence     = 124
	offLogicalBlockSize   = 128
	offRootRecord         = 156
	offVolumeSetID        = 190
	offPublisherID        = 318
	offDataPreparerID     = 446
	offApplicationID      = 574
	offCreationDate       = 813
	offModificationDate   = 830
	offFileStructVersion  = 881
	lenShortIdentifier    = 32
	lenLongIdentifier     = 128
	rootRecordLength      = 34
	rootRecordFlagsOffset = 25
)

var (
	ErrNotISO9660  = errors.New("missing CD001 standard identifier")
	ErrShortSector = errors.New("descriptor sector is too short")
	ErrNotPrimary  = errors.New("not a primary volume descriptor")
)

// PrimaryVolumeDescriptor holds the fields of the PVD this library uses.
type PrimaryVolumeDescriptor struct {
	SystemIdentifier       string
	VolumeIdentifier       string
	VolumeSetIdentifier    string
	PublisherIdentifier    string
	DataPreparerIdentifier string
	ApplicationIdentifier  string
	VolumeSpaceSize        uint32
	VolumeSetSize          uint16
	VolumeSequenceNumber   uint16
	LogicalBlockSize       uint16
	RootExtent             uint32
	RootLength             uint32
	CreationDateTime       time.Time
	ModificationDateTime   time.Time
}

// HasStandardIdentifier reports whether the sector carries "CD001" at byte 1.
func HasStandardIdentifier(sector []byte) bool {
	off := consts.ISO9660_PVD_STD_IDENTIFIER_OFFSET
	return len(sector) >= off+len(consts.ISO9660_STD_IDENTIFIER) &&
		string(sector[off:off+len(consts.ISO9660_STD_IDENTIFIER)]) == consts.ISO9660_STD_IDENTIFIER
}

// RootExtent returns the root directory's extent (LE32 at byte 158) and data length (LE32 at byte 166).
func RootExtent(sector []byte) (extent uint32, length uint32) {
	return encoding.Uint32LE(sector[consts.ISO9660_PVD_ROOT_EXTENT_OFFSET:]),
		encoding.Uint32LE(sector[consts.ISO9660_PVD_ROOT_LENGTH_OFFSET:])
}

// Decode reads a primary volume descriptor from a 2048-byte sector. Identifiers are decoded as ISO-8859-1 and
// trailing filler is removed. Dates that cannot be parsed are left zero.
func Decode(sector []byte) (*PrimaryVolumeDescriptor, error) {
	if len(sector) < consts.ISO9660_SECTOR_SIZE {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortSector, len(sector))
	}
	if !HasStandardIdentifier(sector) {
		return nil, ErrNotISO9660
	}
	if sector[offType] != TYPE_PRIMARY {
		return nil, fmt.Errorf("%w: type %d", ErrNotPrimary, sector[offType])
	}

	pvd := &PrimaryVolumeDescriptor{
		SystemIdentifier:       identifier(sector[offSystemIdentifier : offSystemIdentifier+lenShortIdentifier]),
		VolumeIdentifier:       identifier(sector[offVolumeIdentifier : offVolumeIdentifier+lenShortIdentifier]),
		VolumeSetIdentifier:    identifier(sector[offVolumeSetID : offVolumeSetID+lenLongIdentifier]),
		PublisherIdentifier:    identifier(sector[offPublisherID : offPublisherID+lenLongIdentifier]),
		DataPreparerIdentifier: identifier(sector[offDataPreparerID : offDataPreparerID+lenLongIdentifier]),
		ApplicationIdentifier:  identifier(sector[offApplicationID : offApplicationID+lenLongIdentifier]),
		VolumeSpaceSize:        encoding.Uint32LE(sector[offVolumeSpaceSize:]),
		VolumeSetSize:          encoding.Uint16LE(sector[offVolumeSetSize:]),
		VolumeSequenceNumber:   encoding.Uint16LE(sector[offVolumeSequence:]),
		LogicalBlockSize:       encoding.Uint16LE(sector[offLogicalBlockSize:]),
	}
	pvd.RootExtent, pvd.RootLength = RootExtent(sector)
	pvd.CreationDateTime, _ = encoding.UnmarshalDateTime(sector[offCreationDate : offCreationDate+17])
	pvd.ModificationDateTime, _ = encoding.UnmarshalDateTime(sector[offModificationDate : offModificationDate+17])
	return pvd, nil
}

// Encode writes the descriptor as a 2048-byte sector, including a minimal root directory record.
func (pvd *PrimaryVolumeDescriptor) Encode() ([]byte, error) {
	sector := make([]byte, consts.ISO9660_SECTOR_SIZE)
	sector[offType] = TYPE_PRIMARY
	copy(sector[consts.ISO9660_PVD_STD_IDENTIFIER_OFFSET:], consts.ISO9660_STD_IDENTIFIER)
	sector[offVersion] = 1

	fields := []struct {
		off, size int
		value     string
	}{
		{offSystemIdentifier, lenShortIdentifier, pvd.SystemIdentifier},
		{offVolumeIdentifier, lenShortIdentifier, pvd.VolumeIdentifier},
		{offVolumeSetID, lenLongIdentifier, pvd.VolumeSetIdentifier},
		{offPublisherID, lenLongIdentifier, pvd.PublisherIdentifier},
		{offDataPreparerID, lenLongIdentifier, pvd.DataPreparerIdentifier},
		{offApplicationID, lenLongIdentifier, pvd.ApplicationIdentifier},
	}
	for _, f := range fields {
		if err := putIdentifier(sector[f.off:f.off+f.size], f.value); err != nil {
			return nil, err
		}
	}

	spaceSize := encoding.MarshalBothByteOrders32(pvd.VolumeSpaceSize)
	copy(sector[offVolumeSpaceSize:], spaceSize[:])
	setSize := encoding.MarshalBothByteOrders16(pvd.VolumeSetSize)
	copy(sector[offVolumeSetSize:], setSize[:])
	sequence := encoding.MarshalBothByteOrders16(pvd.VolumeSequenceNumber)
	copy(sector[offVolumeSequence:], sequence[:])
	blockSize := encoding.MarshalBothByteOrders16(pvd.LogicalBlockSize)
	copy(sector[offLogicalBlockSize:], blockSize[:])

	root := sector[offRootRecord : offRootRecord+rootRecordLength]
	root[0] = rootRecordLength
	extent := encoding.MarshalBothByteOrders32(pvd.RootExtent)
	copy(sector[consts.ISO9660_PVD_ROOT_EXTENT_OFFSET:], extent[:])
	length := encoding.MarshalBothByteOrders32(pvd.RootLength)
	copy(sector[consts.ISO9660_PVD_ROOT_LENGTH_OFFSET:], length[:])
	root[rootRecordFlagsOffset] = 0x02
	root[32] = 1

	created, err := encoding.MarshalDateTime(pvd.CreationDateTime)
	if err != nil {
		return nil, err
	}
	copy(sector[offCreationDate:], created[:])
	modified, err := encoding.MarshalDateTime(pvd.ModificationDateTime)
	if err != nil {
		return nil, err
	}
	copy(sector[offModificationDate:], modified[:])
	sector[offFileStructVersion] = 1
	return sector, nil
}

// EncodeTerminator returns a Volume Descriptor Set Terminator sector.
func EncodeTerminator() []byte {
	sector := make([]byte, consts.ISO9660_SECTOR_SIZE)
	sector[offType] = TYPE_TERMINATOR
	copy(sector[consts.ISO9660_PVD_STD_IDENTIFIER_OFFSET:], consts.ISO9660_STD_IDENTIFIER)
	sector[offVersion] = 1
	return sector
}

func identifier(b []byte) string {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		decoded = b
	}
	return strings.TrimRight(string(decoded), consts.ISO9660_FILLER+"\x00")
}

func putIdentifier(dst []byte, value string) error {
	encoded, err := charmap.ISO8859_1.NewEncoder().String(value)
	if err != nil {
		return fmt.Errorf("identifier %q: %w", value, err)
	}
	if len(encoded) > len(dst) {
		return fmt.Errorf("identifier %q longer than %d bytes", value, len(dst))
	}
	n := copy(dst, encoded)
	for i := n; i < len(dst); i++ {
		dst[i] = consts.ISO9660_FILLER[0]
	}
	return nil
}
