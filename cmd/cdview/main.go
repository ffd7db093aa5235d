package main

import (
	"fmt"
	"os"

	"github.com/bgrewell/disc-kit"
	"github.com/bgrewell/disc-kit/pkg/cue"
	"github.com/bgrewell/disc-kit/pkg/filesystem"
	"github.com/bgrewell/disc-kit/pkg/logging"
	"github.com/bgrewell/disc-kit/pkg/option"
	"github.com/bgrewell/usage"
	"gopkg.in/yaml.v3"
)

type trackReport struct {
	Number     int    `yaml:"number"`
	Type       string `yaml:"type"`
	Start      int64  `yaml:"start"`
	MSF        string `yaml:"msf"`
	Sectors    int64  `yaml:"sectors"`
	SectorSize int    `yaml:"sector_size"`
	File       string `yaml:"file"`
	FileOffset int64  `yaml:"file_offset"`
}

type volumeReport struct {
	SystemIdentifier      string `yaml:"system_identifier,omitempty"`
	VolumeIdentifier      string `yaml:"volume_identifier,omitempty"`
	PublisherIdentifier   string `yaml:"publisher_identifier,omitempty"`
	ApplicationIdentifier string `yaml:"application_identifier,omitempty"`
	VolumeSpaceSize       uint32 `yaml:"volume_space_size"`
	LogicalBlockSize      uint16 `yaml:"logical_block_size"`
}

type report struct {
	Image    string                        `yaml:"image"`
	Sectors  int64                         `yaml:"sectors"`
	Tracks   []trackReport                 `yaml:"tracks"`
	Warnings []string                      `yaml:"warnings,omitempty"`
	Volume   *volumeReport                 `yaml:"volume,omitempty"`
	Files    []*filesystem.FileSystemEntry `yaml:"files,omitempty"`
}

func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("cdview"),
		usage.WithApplicationDescription("cdview prints the track layout, volume descriptor and file listing of a CUE/BIN or ISO image as YAML."),
	)
	help := u.AddBooleanOption("h", "help", false, "Show this help message", "optional", nil)
	verbose := u.AddBooleanOption("v", "verbose", false, "Print verbose output", "", nil)
	noFiles := u.AddBooleanOption("t", "tracks-only", false, "Only print the track layout", "", nil)
	path := u.AddArgument(1, "image-path", "Path to the .cue, .iso or .bin image", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if path == nil || *path == "" {
		u.PrintError(fmt.Errorf("location of the image file <image-path> must be provided"))
		os.Exit(1)
	}

	logger := logging.DefaultLogger()
	if *verbose {
		logger = logging.NewLogger(logging.NewSimpleLogger(os.Stderr, logging.LEVEL_DEBUG, true))
	}

	d, err := disc.Open(*path, option.WithLogger(logger))
	if err != nil {
		u.PrintError(err)
		os.Exit(1)
	}
	defer d.Close()

	r := report{Image: *path, Sectors: d.Image().SectorCount()}
	for _, t := range d.Tracks() {
		kind := "MODE1"
		switch {
		case t.Audio:
			kind = "AUDIO"
		case t.Mode2XA:
			kind = "MODE2"
		}
		r.Tracks = append(r.Tracks, trackReport{
			Number:     t.Number,
			Type:       kind,
			Start:      t.Start,
			MSF:        cue.FormatTime(int(t.Start)),
			Sectors:    t.TotalSectors,
			SectorSize: t.SectorSize,
			File:       t.File.Path(),
			FileOffset: t.FileOffset,
		})
	}
	for _, w := range d.Warnings() {
		r.Warnings = append(r.Warnings, w.Error())
	}

	if !*noFiles {
		if pvd, err := d.VolumeInfo(); err == nil {
			r.Volume = &volumeReport{
				SystemIdentifier:      pvd.SystemIdentifier,
				VolumeIdentifier:      pvd.VolumeIdentifier,
				PublisherIdentifier:   pvd.PublisherIdentifier,
				ApplicationIdentifier: pvd.ApplicationIdentifier,
				VolumeSpaceSize:       pvd.VolumeSpaceSize,
				LogicalBlockSize:      pvd.LogicalBlockSize,
			}
			files, err := d.GetFiles()
			if err != nil {
				u.PrintError(err)
				os.Exit(1)
			}
			r.Files = filesystem.Entries(files)
		} else {
			r.Warnings = append(r.Warnings, err.Error())
		}
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		u.PrintError(err)
		os.Exit(1)
	}
	_ = enc.Close()
}
