package disc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	testutil "github.com/bgrewell/disc-kit/internal/testing"
	"github.com/bgrewell/disc-kit/pkg/option"
	"github.com/bgrewell/disc-kit/pkg/trackfile"
	diskfs "github.com/diskfs/go-diskfs"
	"github.com/diskfs/go-diskfs/disk"
	diskfilesystem "github.com/diskfs/go-diskfs/filesystem"
	diskiso "github.com/diskfs/go-diskfs/filesystem/iso9660"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	helloText = []byte("hello disc")
	bigData   = testutil.Pattern(5000, 3)
)

func fixtureISO(t *testing.T) []byte {
	t.Helper()
	img, err := testutil.BuildISO("DISCKIT",
		testutil.Entry{Path: "A.TXT;1", Data: helloText},
		testutil.Entry{Path: "DATA/B.BIN;1", Data: bigData},
	)
	require.NoError(t, err)
	return img
}

func memFs(t *testing.T, files map[string][]byte) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, data := range files {
		require.NoError(t, afero.WriteFile(fs, name, data, 0o644))
	}
	return fs
}

func assertFixtureFiles(t *testing.T, d *Disc) {
	t.Helper()
	files, err := d.GetFiles()
	require.NoError(t, err)
	require.Len(t, files, 2)

	data, err := d.ReadFile(files["/A.TXT"])
	require.NoError(t, err)
	assert.Equal(t, helloText, data)

	data, err = d.ReadPath("DATA/B.BIN")
	require.NoError(t, err)
	assert.Equal(t, bigData, data)
}

func TestOpenCueMode2(t *testing.T) {
	cue := "FILE \"game.bin\" BINARY\n  TRACK 01 MODE2/2352\n    INDEX 01 00:00:00\n"
	fs := memFs(t, map[string][]byte{
		"/games/game.cue": []byte(cue),
		"/games/game.bin": testutil.Mode2Form1Image(fixtureISO(t)),
	})

	d, err := Open("/games/game.cue", option.WithFs(fs))
	require.NoError(t, err)
	defer d.Close()

	tracks := d.Tracks()
	require.Len(t, tracks, 1)
	assert.True(t, tracks[0].Mode2XA)
	assert.Equal(t, 2352, tracks[0].SectorSize)
	assert.Empty(t, d.Warnings())

	assertFixtureFiles(t, d)

	pvd, err := d.VolumeInfo()
	require.NoError(t, err)
	assert.Equal(t, "DISCKIT", pvd.VolumeIdentifier)
}

func TestOpenCueMultipleFiles(t *testing.T) {
	data := testutil.Mode1Image(fixtureISO(t))
	dataSectors := int64(len(data) / 2352)
	audio := make([]byte, 20*2352)

	cue := strings.Join([]string{
		`REM GENRE Game`,
		`FILE "game (Track 1).bin" BINARY`,
		`  TRACK 01 MODE1/2352`,
		`    INDEX 01 00:00:00`,
		`FILE "game (Track 2).bin" BINARY`,
		`  TRACK 02 AUDIO`,
		`    PREGAP 00:02:00`,
		`    INDEX 01 00:00:00`,
	}, "\n")
	fs := memFs(t, map[string][]byte{
		"/game.cue":           []byte(cue),
		"/game (Track 1).bin": data,
		"/game (Track 2).bin": audio,
	})

	d, err := Open("/game.cue", option.WithFs(fs))
	require.NoError(t, err)
	defer d.Close()

	tracks := d.Tracks()
	require.Len(t, tracks, 2)
	assert.EqualValues(t, dataSectors, tracks[0].TotalSectors)
	assert.True(t, tracks[1].Audio)
	assert.EqualValues(t, dataSectors+150, tracks[1].Start)
	assert.EqualValues(t, 20, tracks[1].TotalSectors)
	assert.EqualValues(t, dataSectors+170, d.Image().SectorCount())

	assertFixtureFiles(t, d)
}

func TestOpenCueReader(t *testing.T) {
	fs := memFs(t, map[string][]byte{"/discs/game.iso": fixtureISO(t)})
	cue := "FILE game.iso BINARY\nTRACK 01 MODE1/2048\nINDEX 01 00:00:00\nBOGUS LINE\n"

	d, err := OpenCue(strings.NewReader(cue), "/discs", option.WithFs(fs))
	require.NoError(t, err)
	defer d.Close()

	require.Len(t, d.Warnings(), 1)
	assert.Equal(t, 4, d.Warnings()[0].Line)
	assertFixtureFiles(t, d)
}

func TestOpenCueWithoutTracks(t *testing.T) {
	_, err := OpenCue(strings.NewReader("REM COMMENT nothing here\n"), "/")
	assert.ErrorIs(t, err, ErrNoTracks)
}

func TestOpenCueMissingTrackFile(t *testing.T) {
	fs := memFs(t, nil)
	cue := "FILE missing.bin BINARY\nTRACK 01 MODE1/2352\nINDEX 01 00:00:00\n"
	_, err := OpenCue(strings.NewReader(cue), "/", option.WithFs(fs))
	assert.ErrorIs(t, err, trackfile.ErrCannotOpen)
}

func TestOpenDetectsFormat(t *testing.T) {
	iso := fixtureISO(t)
	tests := []struct {
		name       string
		file       string
		data       []byte
		sectorSize int
		mode2XA    bool
	}{
		{"iso", "/disc.iso", iso, 2048, false},
		{"cooked without extension hint", "/disc.img", iso, 2048, false},
		{"raw mode 1", "/disc.bin", testutil.Mode1Image(iso), 2352, false},
		{"raw mode 2", "/disc.bin", testutil.Mode2Form1Image(iso), 2352, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memFs(t, map[string][]byte{tt.file: tt.data})
			d, err := Open(tt.file, option.WithFs(fs))
			require.NoError(t, err)
			defer d.Close()

			require.Len(t, d.Tracks(), 1)
			assert.Equal(t, tt.sectorSize, d.Tracks()[0].SectorSize)
			assert.Equal(t, tt.mode2XA, d.Tracks()[0].Mode2XA)
			assert.Nil(t, d.Warnings())
			assertFixtureFiles(t, d)
		})
	}
}

func TestOpenMissingImage(t *testing.T) {
	_, err := Open("/nope.iso", option.WithFs(afero.NewMemMapFs()))
	assert.ErrorIs(t, err, trackfile.ErrCannotOpen)

	_, err = Open("/nope.cue", option.WithFs(afero.NewMemMapFs()))
	assert.ErrorIs(t, err, trackfile.ErrCannotOpen)
}

func TestReadSector(t *testing.T) {
	iso := fixtureISO(t)
	fs := memFs(t, map[string][]byte{"/disc.bin": testutil.Mode1Image(iso)})
	d, err := Open("/disc.bin", option.WithFs(fs))
	require.NoError(t, err)
	defer d.Close()

	sector, err := d.ReadSector(16)
	require.NoError(t, err)
	assert.Equal(t, iso[16*2048:17*2048], sector)

	data, err := d.Read(16, 10)
	require.NoError(t, err)
	assert.Equal(t, iso[16*2048:16*2048+10], data)
}

func TestReadPathNotFound(t *testing.T) {
	fs := memFs(t, map[string][]byte{"/disc.iso": fixtureISO(t)})
	d, err := Open("/disc.iso", option.WithFs(fs))
	require.NoError(t, err)
	defer d.Close()

	_, err = d.ReadPath("/NOPE.TXT")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetFilesCache(t *testing.T) {
	fs := memFs(t, map[string][]byte{"/disc.iso": fixtureISO(t)})
	d, err := Open("/disc.iso", option.WithFs(fs), option.WithCacheFiles(true))
	require.NoError(t, err)
	defer d.Close()

	first, err := d.GetFiles()
	require.NoError(t, err)
	delete(first, "/A.TXT")

	second, err := d.GetFiles()
	require.NoError(t, err)
	assert.Len(t, second, 2)
	assert.Contains(t, second, "/A.TXT")
}

func TestGetFilesKeepsVersion(t *testing.T) {
	fs := memFs(t, map[string][]byte{"/disc.iso": fixtureISO(t)})
	d, err := Open("/disc.iso", option.WithFs(fs), option.WithStripVersionInfo(false))
	require.NoError(t, err)
	defer d.Close()

	files, err := d.GetFiles()
	require.NoError(t, err)
	assert.Contains(t, files, "/A.TXT;1")
	assert.Contains(t, files, "/DATA/B.BIN;1")
}

func TestExtract(t *testing.T) {
	fs := memFs(t, map[string][]byte{"/disc.iso": fixtureISO(t)})

	var reported []string
	progress := func(name string, done, total int64, current, count int) {
		assert.Equal(t, done, total)
		assert.Equal(t, 2, count)
		reported = append(reported, name)
	}
	d, err := Open("/disc.iso", option.WithFs(fs), option.WithExtractionProgress(progress))
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Extract("/out"))

	data, err := afero.ReadFile(fs, "/out/A.TXT")
	require.NoError(t, err)
	assert.Equal(t, helloText, data)

	data, err = afero.ReadFile(fs, "/out/DATA/B.BIN")
	require.NoError(t, err)
	assert.Equal(t, bigData, data)

	assert.Equal(t, []string{"/A.TXT", "/DATA/B.BIN"}, reported)
}

// Images written by go-diskfs must be readable as plain .iso files.
func TestReadDiskfsImage(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "diskfs.iso")

	dsk, err := diskfs.Create(imgPath, 10*1024*1024, diskfs.Raw, diskfs.SectorSizeDefault)
	require.NoError(t, err)
	dsk.LogicalBlocksize = 2048

	fs, err := dsk.CreateFilesystem(disk.FilesystemSpec{
		Partition:   0,
		FSType:      diskfilesystem.TypeISO9660,
		VolumeLabel: "DISKFS",
	})
	require.NoError(t, err)

	require.NoError(t, fs.Mkdir("/DOCS"))
	for name, content := range map[string][]byte{"/HELLO.TXT": helloText, "/DOCS/BIG.BIN": bigData} {
		f, err := fs.OpenFile(name, os.O_CREATE|os.O_RDWR)
		require.NoError(t, err)
		_, err = f.Write(content)
		require.NoError(t, err)
	}

	iso, ok := fs.(*diskiso.FileSystem)
	require.True(t, ok)
	require.NoError(t, iso.Finalize(diskiso.FinalizeOptions{}))

	d, err := Open(imgPath)
	require.NoError(t, err)
	defer d.Close()

	files, err := d.GetFiles()
	require.NoError(t, err)

	found := map[string][]byte{}
	for p, span := range files {
		data, err := d.ReadFile(span)
		require.NoError(t, err)
		found[strings.ToUpper(p)] = data
	}
	assert.Equal(t, helloText, found["/HELLO.TXT"])
	assert.Equal(t, bigData, found["/DOCS/BIG.BIN"])
}
