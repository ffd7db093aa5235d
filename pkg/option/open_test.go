package option

import (
	"testing"

	"github.com/bgrewell/disc-kit/pkg/logging"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	o := Apply()
	assert.True(t, o.StripVersionInfo)
	assert.False(t, o.CacheFiles)
	assert.NotNil(t, o.Logger)
	assert.IsType(t, &afero.OsFs{}, o.Fs)
	assert.Nil(t, o.ExtractionProgressCallback)
}

func TestApplyOverrides(t *testing.T) {
	fs := afero.NewMemMapFs()
	called := false
	o := Apply(
		WithFs(fs),
		WithStripVersionInfo(false),
		WithCacheFiles(true),
		WithLogger(logging.DefaultLogger()),
		WithExtractionProgress(func(string, int64, int64, int, int) { called = true }),
	)

	assert.Equal(t, fs, o.Fs)
	assert.False(t, o.StripVersionInfo)
	assert.True(t, o.CacheFiles)
	o.ExtractionProgressCallback("a", 0, 0, 1, 1)
	assert.True(t, called)
}

func TestApplyNilValuesFallBack(t *testing.T) {
	o := Apply(WithFs(nil), WithLogger(nil))
	assert.NotNil(t, o.Fs)
	assert.NotNil(t, o.Logger)
}
