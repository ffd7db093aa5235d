package directory

// FileFlags is the File Flags byte of a directory record (ECMA-119 9.1.6). Bits are numbered from 0 (LSB):
//
//	Bit 0 (Hidden): the file's existence need not be made known to the user.
//	Bit 1 (Directory): the record identifies a directory.
//	Bit 2 (AssociatedFile): the file is an Associated File.
//	Bit 3 (RecordFormat): the file's structure is given by an Extended Attribute Record.
//	Bit 4 (Protection): owner and group are specified.
//	Bits 5 & 6: Reserved.
//	Bit 7 (MultiExtent): this is not the final record for the file.
type FileFlags byte

const (
	FlagHidden FileFlags = 1 << iota
	FlagDirectory
	FlagAssociatedFile
	FlagRecordFormat
	FlagProtection
	_
	_
	FlagMultiExtent
)

func (f FileFlags) Hidden() bool         { return f&FlagHidden != 0 }
func (f FileFlags) Directory() bool      { return f&FlagDirectory != 0 }
func (f FileFlags) AssociatedFile() bool { return f&FlagAssociatedFile != 0 }
func (f FileFlags) MultiExtent() bool    { return f&FlagMultiExtent != 0 }

// Reserved reports whether either reserved bit is set.
func (f FileFlags) Reserved() bool {
	return f&0x60 != 0
}
