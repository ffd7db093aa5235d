package discimage

import "errors"

var (
	ErrNoTrack          = errors.New("no track covers sector")
	ErrShortRead        = errors.New("short read")
	ErrInvalidSubheader = errors.New("invalid mode 2 XA sub-header")
)
