// Package encoding holds the numeric and date encodings of ECMA-119 (7.2, 7.3, 8.4.26.1, 9.1.5).
package encoding

import (
	"encoding/binary"
	"fmt"
	"time"
)

// MarshalBothByteOrders32 encodes val as the 8-byte both-byte-order field of ECMA-119 7.3.3: little-endian
// followed by big-endian.
func MarshalBothByteOrders32(val uint32) [8]byte {
	var data [8]byte
	binary.LittleEndian.PutUint32(data[0:4], val)
	binary.BigEndian.PutUint32(data[4:8], val)
	return data
}

// MarshalBothByteOrders16 encodes val as the 4-byte both-byte-order field of ECMA-119 7.2.3.
func MarshalBothByteOrders16(val uint16) [4]byte {
	var data [4]byte
	binary.LittleEndian.PutUint16(data[0:2], val)
	binary.BigEndian.PutUint16(data[2:4], val)
	return data
}

// Uint32LE reads the little-endian half of a both-byte-order field starting at data[0]. Readers trust the
// little-endian half; some mastering tools leave the big-endian half blank.
func Uint32LE(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data[:4])
}

// Uint16LE reads the little-endian half of a 16-bit both-byte-order field.
func Uint16LE(data []byte) uint16 {
	return binary.LittleEndian.Uint16(data[:2])
}

// UnmarshalUint32LSBMSB decodes an 8-byte both-byte-order field and checks that both halves agree.
func UnmarshalUint32LSBMSB(data []byte) (uint32, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("both-byte-order field needs 8 bytes, got %d", len(data))
	}
	little := binary.LittleEndian.Uint32(data[0:4])
	big := binary.BigEndian.Uint32(data[4:8])
	if little != big {
		return 0, fmt.Errorf("mismatched both-byte orders: little-endian value %d != big-endian value %d", little, big)
	}
	return little, nil
}

// UnmarshalUint16LSBMSB decodes a 4-byte both-byte-order field and checks that both halves agree.
func UnmarshalUint16LSBMSB(data []byte) (uint16, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("both-byte-order field needs 4 bytes, got %d", len(data))
	}
	little := binary.LittleEndian.Uint16(data[0:2])
	big := binary.BigEndian.Uint16(data[2:4])
	if little != big {
		return 0, fmt.Errorf("mismatched both-byte orders: little-endian value %d != big-endian value %d", little, big)
	}
	return little, nil
}

// MarshalDateTime encodes t as the 17-byte volume descriptor date of ECMA-119 8.4.26.1: the digits
// YYYYMMDDhhmmsscc followed by the GMT offset in 15 minute steps. The zero time encodes as "unspecified".
func MarshalDateTime(t time.Time) ([17]byte, error) {
	var out [17]byte
	if t.IsZero() {
		copy(out[:16], "0000000000000000")
		return out, nil
	}

	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	s := fmt.Sprintf("%04d%02d%02d%02d%02d%02d%02d", y, int(m), d, hh, mm, ss, t.Nanosecond()/10_000_000)
	copy(out[:16], s)

	_, offsetSec := t.Zone()
	offset15 := offsetSec / 900
	if offset15 < -48 || offset15 > 52 {
		return [17]byte{}, fmt.Errorf("offset %d out of ISO9660 bounds", offset15)
	}
	out[16] = byte(int8(offset15))
	return out, nil
}

// UnmarshalDateTime decodes a 17-byte volume descriptor date. An all-zero-digit field with no offset is the zero
// time.
func UnmarshalDateTime(b []byte) (time.Time, error) {
	if len(b) < 17 {
		return time.Time{}, fmt.Errorf("date field needs 17 bytes, got %d", len(b))
	}
	unspecified := true
	for _, c := range b[:16] {
		if c != '0' && c != 0 {
			unspecified = false
			break
		}
	}
	if unspecified && b[16] == 0 {
		return time.Time{}, nil
	}

	var year, mon, day, hour, min, sec, hundredths int
	if _, err := fmt.Sscanf(string(b[:16]), "%4d%2d%2d%2d%2d%2d%2d",
		&year, &mon, &day, &hour, &min, &sec, &hundredths); err != nil {
		return time.Time{}, fmt.Errorf("parse error: %v", err)
	}

	offset15 := int8(b[16])
	if offset15 < -48 || offset15 > 52 {
		return time.Time{}, fmt.Errorf("offset %d out of ISO9660 bounds", offset15)
	}
	return time.Date(year, time.Month(mon), day, hour, min, sec, hundredths*10_000_000, zone(int(offset15))), nil
}

// MarshalRecordingDateTime encodes t as the 7-byte directory record date of ECMA-119 9.1.5. Years must fall
// between 1900 and 2155. The zero time encodes as all zeros.
func MarshalRecordingDateTime(t time.Time) ([7]byte, error) {
	var b [7]byte
	if t.IsZero() {
		return b, nil
	}

	year, month, day := t.Date()
	if year < 1900 || year > 2155 {
		return b, fmt.Errorf("year %d out of range for Recording Date and Time (must be between 1900 and 2155)", year)
	}
	hour, minute, second := t.Clock()
	_, offsetSec := t.Zone()
	offset15 := offsetSec / 900
	if offset15 < -48 || offset15 > 52 {
		return b, fmt.Errorf("time zone offset %d is out of allowed range", offset15)
	}

	b[0] = byte(year - 1900)
	b[1] = byte(month)
	b[2] = byte(day)
	b[3] = byte(hour)
	b[4] = byte(minute)
	b[5] = byte(second)
	b[6] = byte(int8(offset15))
	return b, nil
}

// UnmarshalRecordingDateTime decodes a 7-byte directory record date. All zeros means not specified.
func UnmarshalRecordingDateTime(b []byte) (time.Time, error) {
	if len(b) < 7 {
		return time.Time{}, fmt.Errorf("recording date needs 7 bytes, got %d", len(b))
	}
	allZero := true
	for _, v := range b[:7] {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return time.Time{}, nil
	}
	return time.Date(int(b[0])+1900, time.Month(b[1]), int(b[2]), int(b[3]), int(b[4]), int(b[5]), 0,
		zone(int(int8(b[6])))), nil
}

func zone(offset15 int) *time.Location {
	if offset15 == 0 {
		return time.UTC
	}
	return time.FixedZone("", offset15*900)
}
