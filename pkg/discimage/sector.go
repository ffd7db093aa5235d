package discimage

import (
	"fmt"

	"github.com/bgrewell/disc-kit/pkg/consts"
)

// HeaderSize returns the number of bytes in front of the user data of a sector: none for cooked 2048-byte
// sectors, sync+header for Mode 1 and sync+header+sub-header for Mode 2 XA.
func HeaderSize(sectorSize int, mode2XA bool) int {
	switch {
	case sectorSize == consts.ISO9660_SECTOR_SIZE:
		return 0
	case mode2XA:
		return consts.CD_MODE2_XA_HEADER_SIZE
	default:
		return consts.CD_MODE1_HEADER_SIZE
	}
}

// UserDataSize returns the payload size of a sector from its probed header. Mode 1 payloads are always 2048
// bytes. Mode 2 XA payloads depend on the form in the sub-mode byte at offset 18, which must differ from the
// byte at offset 22.
func UserDataSize(header []byte, sectorSize int, mode2XA bool) (int, error) {
	if !mode2XA || sectorSize == consts.ISO9660_SECTOR_SIZE {
		return consts.ISO9660_SECTOR_SIZE, nil
	}
	if len(header) < consts.CD_SECTOR_HEADER_PROBE_SIZE {
		return 0, fmt.Errorf("%w: header is %d bytes", ErrInvalidSubheader, len(header))
	}

	submode := header[consts.CD_XA_SUBMODE_OFFSET]
	if submode == header[consts.CD_XA_SUBMODE_COPY_OFFSET] {
		return 0, fmt.Errorf("%w: bytes %d and %d are both 0x%02x", ErrInvalidSubheader,
			consts.CD_XA_SUBMODE_OFFSET, consts.CD_XA_SUBMODE_COPY_OFFSET, submode)
	}
	switch submode {
	case consts.CD_XA_SUBMODE_FORM1:
		return consts.ISO9660_SECTOR_SIZE, nil
	case consts.CD_XA_SUBMODE_FORM2:
		return consts.CD_FORM2_DATA_SIZE, nil
	}
	return 0, fmt.Errorf("%w: unknown sub-mode 0x%02x", ErrInvalidSubheader, submode)
}
