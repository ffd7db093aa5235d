package consts

const (
	// Number of system area sectors. The Primary Volume Descriptor lives in the sector right after them.
	ISO9660_SYSTEM_AREA_SECTORS = 16

	// Standard ISO9660 identifier.
	ISO9660_STD_IDENTIFIER = "CD001"

	// ISO9660 logical sector size, and the user data size of Mode 1 and Mode 2 XA Form 1 sectors.
	ISO9660_SECTOR_SIZE = 2048

	// Byte offsets inside the Primary Volume Descriptor (ECMA-119 8.4).
	ISO9660_PVD_STD_IDENTIFIER_OFFSET = 1
	ISO9660_PVD_ROOT_EXTENT_OFFSET    = 158
	ISO9660_PVD_ROOT_LENGTH_OFFSET    = 166

	// Separators allowed by ISO9660 0x2E and 0x3B.
	ISO9660_SEPARATOR_1 = "."
	ISO9660_SEPARATOR_2 = ";"

	// ISO9660 Filler 0x20 (space)
	ISO9660_FILLER = " "

	// d-characters of ECMA-119 7.4.1. File identifiers use them plus the two separators.
	D_CHARACTERS = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_"

	// Separator between path components of the paths handed out by this library.
	ISO9660_PATH_SEPARATOR = "/"
)

const (
	// Raw CD sector size used by audio tracks and MODEx/2352 data tracks.
	CD_RAW_SECTOR_SIZE = 2352

	// User data size of a Mode 2 XA Form 2 sector.
	CD_FORM2_DATA_SIZE = 2324

	// Size of the region probed at the start of every sector to classify it. Covers sync, header and the
	// Mode 2 XA sub-header.
	CD_SECTOR_HEADER_PROBE_SIZE = 24

	// Header sizes that precede the user data.
	CD_MODE1_HEADER_SIZE    = 16
	CD_MODE2_XA_HEADER_SIZE = 24

	// Offsets inside the probed header holding the XA sub-mode byte and its copy.
	CD_XA_SUBMODE_OFFSET      = 18
	CD_XA_SUBMODE_COPY_OFFSET = 22

	// Sub-mode values identifying the XA form.
	CD_XA_SUBMODE_FORM1 = 0x08
	CD_XA_SUBMODE_FORM2 = 0x28

	// Offset of the mode byte inside a raw sector header.
	CD_MODE_BYTE_OFFSET = 15

	// Frames (sectors) per second in MSF addressing.
	CD_FRAMES_PER_SECOND = 75
)
