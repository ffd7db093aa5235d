package testing

import (
	"github.com/bgrewell/disc-kit/pkg/consts"
)

var syncPattern = [12]byte{0x00, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x00}

func bcd(v int) byte {
	return byte((v/10)<<4 | v%10)
}

func rawHeader(lba int, mode byte) []byte {
	raw := make([]byte, consts.CD_RAW_SECTOR_SIZE)
	copy(raw, syncPattern[:])
	abs := lba + 2*consts.CD_FRAMES_PER_SECOND
	raw[12] = bcd(abs / (60 * consts.CD_FRAMES_PER_SECOND))
	raw[13] = bcd(abs / consts.CD_FRAMES_PER_SECOND % 60)
	raw[14] = bcd(abs % consts.CD_FRAMES_PER_SECOND)
	raw[consts.CD_MODE_BYTE_OFFSET] = mode
	return raw
}

// Mode1Sector wraps up to 2048 bytes of user data in a raw 2352-byte Mode 1 sector. EDC/ECC are left zero.
func Mode1Sector(payload []byte, lba int) []byte {
	raw := rawHeader(lba, 1)
	copy(raw[consts.CD_MODE1_HEADER_SIZE:consts.CD_MODE1_HEADER_SIZE+consts.ISO9660_SECTOR_SIZE], payload)
	return raw
}

// Mode2Sector wraps user data in a raw Mode 2 XA sector with the given sub-mode byte. Only the first sub-header
// copy is written, so the byte at offset 22 stays zero.
func Mode2Sector(payload []byte, lba int, submode byte) []byte {
	raw := rawHeader(lba, 2)
	raw[consts.CD_XA_SUBMODE_OFFSET] = submode
	size := consts.ISO9660_SECTOR_SIZE
	if submode == consts.CD_XA_SUBMODE_FORM2 {
		size = consts.CD_FORM2_DATA_SIZE
	}
	copy(raw[consts.CD_MODE2_XA_HEADER_SIZE:consts.CD_MODE2_XA_HEADER_SIZE+size], payload)
	return raw
}

// Mode1Image converts a cooked image into raw Mode 1 sectors.
func Mode1Image(cooked []byte) []byte {
	return wrap(cooked, func(chunk []byte, lba int) []byte { return Mode1Sector(chunk, lba) })
}

// Mode2Form1Image converts a cooked image into raw Mode 2 XA Form 1 sectors.
func Mode2Form1Image(cooked []byte) []byte {
	return wrap(cooked, func(chunk []byte, lba int) []byte {
		return Mode2Sector(chunk, lba, consts.CD_XA_SUBMODE_FORM1)
	})
}

func wrap(cooked []byte, sector func([]byte, int) []byte) []byte {
	count := (len(cooked) + consts.ISO9660_SECTOR_SIZE - 1) / consts.ISO9660_SECTOR_SIZE
	out := make([]byte, 0, count*consts.CD_RAW_SECTOR_SIZE)
	for lba := 0; lba < count; lba++ {
		start := lba * consts.ISO9660_SECTOR_SIZE
		end := start + consts.ISO9660_SECTOR_SIZE
		if end > len(cooked) {
			end = len(cooked)
		}
		out = append(out, sector(cooked[start:end], lba)...)
	}
	return out
}

// Pattern returns n bytes where byte i is derived from seed and i, so misplaced reads are visible.
func Pattern(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*7) ^ seed ^ byte(i>>11)
	}
	return b
}
