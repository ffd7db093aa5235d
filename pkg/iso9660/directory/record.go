// Package directory decodes and encodes ISO9660 directory records (ECMA-119 9.1).
package directory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bgrewell/disc-kit/pkg/consts"
	"github.com/bgrewell/disc-kit/pkg/iso9660/encoding"
)

// Byte positions of the directory record fields.
const (
	offLength           = 0
	offExtAttrLength    = 1
	offExtent           = 2
	offDataLength       = 10
	offRecordingTime    = 18
	offFileFlags        = 25
	offFileUnitSize     = 26
	offInterleaveGap    = 27
	offVolumeSequence   = 28
	offIdentifierLength = 32
	offIdentifier       = 33

	// MinRecordLength is the size of a record with an empty identifier.
	MinRecordLength = offIdentifier
)

var (
	ErrTruncatedRecord = errors.New("truncated directory record")
)

// The accessors below read one field each from a raw record. Callers check the length with Validate first.

func RecordLength(b []byte) int        { return int(b[offLength]) }
func ExtAttrLength(b []byte) int       { return int(b[offExtAttrLength]) }
func ExtentLE(b []byte) uint32         { return encoding.Uint32LE(b[offExtent:]) }
func DataLengthLE(b []byte) uint32     { return encoding.Uint32LE(b[offDataLength:]) }
func Flags(b []byte) FileFlags         { return FileFlags(b[offFileFlags]) }
func FileUnitSize(b []byte) int        { return int(b[offFileUnitSize]) }
func InterleaveGapSize(b []byte) int   { return int(b[offInterleaveGap]) }
func VolumeSequenceLE(b []byte) uint16 { return encoding.Uint16LE(b[offVolumeSequence:]) }
func IdentifierLength(b []byte) int    { return int(b[offIdentifierLength]) }

// Identifier returns the raw file identifier bytes.
func Identifier(b []byte) []byte {
	return b[offIdentifier : offIdentifier+IdentifierLength(b)]
}

// RecordingTime decodes the 7-byte recording date.
func RecordingTime(b []byte) (time.Time, error) {
	return encoding.UnmarshalRecordingDateTime(b[offRecordingTime : offRecordingTime+7])
}

// Validate checks that b holds a complete record as announced by its length byte.
func Validate(b []byte) error {
	if len(b) < MinRecordLength {
		return fmt.Errorf("%w: %d bytes", ErrTruncatedRecord, len(b))
	}
	length := RecordLength(b)
	if length < MinRecordLength || length > len(b) {
		return fmt.Errorf("%w: length byte %d, %d bytes available", ErrTruncatedRecord, length, len(b))
	}
	if offIdentifier+IdentifierLength(b) > length {
		return fmt.Errorf("%w: identifier of %d bytes does not fit in %d", ErrTruncatedRecord, IdentifierLength(b), length)
	}
	return nil
}

// IsSpecial reports whether the identifier is the single 0x00 (self) or 0x01 (parent) byte.
func IsSpecial(b []byte) bool {
	return IdentifierLength(b) == 1
}

// CleanName trims an identifier at its first NUL and, when stripVersion is set, at the ';' that starts the
// version number (ECMA-119 7.5.1).
func CleanName(id []byte, stripVersion bool) string {
	name := string(id)
	if i := strings.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	if stripVersion {
		if i := strings.Index(name, consts.ISO9660_SEPARATOR_2); i >= 0 {
			name = name[:i]
		}
	}
	return name
}

// Record is a decoded directory record.
type Record struct {
	ExtendedAttributeRecordLength uint8
	LocationOfExtent              uint32
	DataLength                    uint32
	RecordingDateAndTime          time.Time
	FileFlags                     FileFlags
	FileUnitSize                  uint8
	InterleaveGapSize             uint8
	VolumeSequenceNumber          uint16
	FileIdentifier                string
}

// Encode returns the on-disc bytes of the record, padding the identifier to an even record length.
func (r *Record) Encode() ([]byte, error) {
	id := []byte(r.FileIdentifier)
	if len(id) == 0 || len(id) > 222 {
		return nil, fmt.Errorf("identifier length %d out of range", len(id))
	}
	length := MinRecordLength + len(id)
	if length%2 != 0 {
		length++
	}

	buf := make([]byte, length)
	buf[offLength] = byte(length)
	buf[offExtAttrLength] = r.ExtendedAttributeRecordLength
	extent := encoding.MarshalBothByteOrders32(r.LocationOfExtent)
	copy(buf[offExtent:], extent[:])
	size := encoding.MarshalBothByteOrders32(r.DataLength)
	copy(buf[offDataLength:], size[:])
	recorded, err := encoding.MarshalRecordingDateTime(r.RecordingDateAndTime)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal RecordingDateAndTime: %w", err)
	}
	copy(buf[offRecordingTime:], recorded[:])
	buf[offFileFlags] = byte(r.FileFlags)
	buf[offFileUnitSize] = r.FileUnitSize
	buf[offInterleaveGap] = r.InterleaveGapSize
	seq := encoding.MarshalBothByteOrders16(r.VolumeSequenceNumber)
	copy(buf[offVolumeSequence:], seq[:])
	buf[offIdentifierLength] = byte(len(id))
	copy(buf[offIdentifier:], id)
	return buf, nil
}
