// Package trackfile gives positioned, read-only access to the data file behind one or more disc tracks.
package trackfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
)

var (
	ErrCannotOpen = errors.New("cannot open track file")
)

// TrackFile is an open track data file. Several tracks may share one *TrackFile; the pointer identifies the file.
// Reads use ReadAt so independent offsets can be served concurrently.
type TrackFile struct {
	path string
	file afero.File
}

// Open opens path read-only on the given filesystem. A nil fs means the OS filesystem.
func Open(fs afero.Fs, path string) (*TrackFile, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	f, err := fs.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrCannotOpen, path, err)
	}
	return &TrackFile{path: path, file: f}, nil
}

// Path returns the path the file was opened with.
func (t *TrackFile) Path() string {
	return t.path
}

// Read fills buf with the bytes at offset. buf is zeroed first so an unread tail never holds stale data.
// It returns false when the read fails or comes up short.
func (t *TrackFile) Read(buf []byte, offset int64) bool {
	for i := range buf {
		buf[i] = 0
	}
	if offset < 0 {
		return false
	}
	n, _ := t.file.ReadAt(buf, offset)
	return n == len(buf)
}

// Size returns the total length of the file in bytes.
func (t *TrackFile) Size() (int64, error) {
	size, err := t.file.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("seek to end of %s: %w", t.path, err)
	}
	return size, nil
}

// Close releases the file handle.
func (t *TrackFile) Close() error {
	return t.file.Close()
}
