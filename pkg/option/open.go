package option

import (
	"github.com/bgrewell/disc-kit/pkg/logging"
	"github.com/spf13/afero"
)

type ExtractionProgressCallback func(
	currentFilename string,
	bytesTransferred int64,
	totalBytes int64,
	currentFileNumber int,
	totalFileCount int,
)

type OpenOptions struct {
	// Fs is the filesystem track files and cue sheets are opened from. Defaults to the OS filesystem.
	Fs afero.Fs
	// StripVersionInfo removes the ";1" version suffix from ISO9660 names. Defaults to true.
	StripVersionInfo bool
	// CacheFiles keeps the first directory walk and serves later lookups from it.
	CacheFiles                 bool
	ExtractionProgressCallback ExtractionProgressCallback
	Logger                     *logging.Logger
}

type OpenOption func(*OpenOptions)

// DefaultOpenOptions returns the options used when no OpenOption is supplied.
func DefaultOpenOptions() *OpenOptions {
	return &OpenOptions{
		Fs:               afero.NewOsFs(),
		StripVersionInfo: true,
		Logger:           logging.DefaultLogger(),
	}
}

// Apply builds an OpenOptions from the defaults and the given functional options.
func Apply(opts ...OpenOption) *OpenOptions {
	o := DefaultOpenOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.Logger == nil {
		o.Logger = logging.DefaultLogger()
	}
	return o
}

// WithExtractionProgress sets a progress callback function that will be called with progress updates.
// Parameters:
// - currentFilename: The name of the file currently being processed.
// - bytesTransferred: The number of bytes transferred so far for the current file.
// - totalBytes: The total number of bytes to be transferred for the current file.
// - currentFileNumber: The index of the current file being processed.
// - totalFileCount: The total number of files to be processed.
func WithExtractionProgress(callback ExtractionProgressCallback) OpenOption {
	return func(o *OpenOptions) {
		o.ExtractionProgressCallback = callback
	}
}

func WithLogger(logger *logging.Logger) OpenOption {
	return func(o *OpenOptions) {
		o.Logger = logger
	}
}

func WithFs(fs afero.Fs) OpenOption {
	return func(o *OpenOptions) {
		o.Fs = fs
	}
}

func WithStripVersionInfo(stripVersionInfo bool) OpenOption {
	return func(o *OpenOptions) {
		o.StripVersionInfo = stripVersionInfo
	}
}

func WithCacheFiles(cacheFiles bool) OpenOption {
	return func(o *OpenOptions) {
		o.CacheFiles = cacheFiles
	}
}
