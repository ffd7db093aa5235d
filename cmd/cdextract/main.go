package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/bgrewell/disc-kit"
	"github.com/bgrewell/disc-kit/pkg/cue"
	"github.com/bgrewell/disc-kit/pkg/logging"
	"github.com/bgrewell/disc-kit/pkg/option"
	"github.com/spf13/cobra"
)

var (
	version = "dev"

	verbose  bool
	trace    bool
	keepVers bool
)

var rootCmd = &cobra.Command{
	Use:     "cdextract",
	Short:   "Read CUE/BIN and ISO disc images",
	Version: version,
	Long: `cdextract opens CD images (a CUE sheet with its track files, a bare .iso or a raw .bin dump)
and extracts the files of their ISO9660 filesystem.

Examples:
  cdextract dump game.cue ./output/
  cdextract dump -v game.bin ./output/
  cdextract tracks game.cue`,
	SilenceUsage: true,
}

var dumpCmd = &cobra.Command{
	Use:   "dump [image] [output_directory]",
	Short: "Extract every file of the image",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		imagePath, outputDir := args[0], args[1]

		spinner, err := InitializeSpinner()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize spinner: %v\n", err)
			fmt.Fprintf(os.Stderr, "Progress updates will be disabled.\n")
		}

		d, err := disc.Open(imagePath,
			option.WithLogger(newLogger()),
			option.WithStripVersionInfo(!keepVers),
			option.WithExtractionProgress(CreateProgressCallback(spinner)),
		)
		if err != nil {
			if spinner != nil {
				spinner.StopFailMessage(fmt.Sprintf(" Failed to open image: %v", err))
				_ = spinner.StopFail()
			}
			return err
		}
		defer d.Close()

		if err := d.Extract(outputDir); err != nil {
			if spinner != nil {
				spinner.StopFailMessage(fmt.Sprintf(" Failed to extract image: %v", err))
				_ = spinner.StopFail()
			}
			return err
		}
		if spinner != nil {
			spinner.StopMessage(fmt.Sprintf(" All files extracted successfully to %s!", outputDir))
			_ = spinner.Stop()
		}
		return nil
	},
}

var tracksCmd = &cobra.Command{
	Use:   "tracks [image]",
	Short: "Print the track layout of the image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := disc.Open(args[0], option.WithLogger(newLogger()))
		if err != nil {
			return err
		}
		defer d.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TRACK\tTYPE\tSTART\tMSF\tSECTORS\tFILE\tOFFSET")
		for _, t := range d.Tracks() {
			kind := fmt.Sprintf("MODE1/%d", t.SectorSize)
			switch {
			case t.Audio:
				kind = "AUDIO"
			case t.Mode2XA:
				kind = fmt.Sprintf("MODE2/%d", t.SectorSize)
			}
			fmt.Fprintf(w, "%02d\t%s\t%d\t%s\t%d\t%s\t%d\n",
				t.Number, kind, t.Start, cue.FormatTime(int(t.Start)), t.TotalSectors, t.File.Path(), t.FileOffset)
		}
		for _, warn := range d.Warnings() {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", warn)
		}
		return w.Flush()
	},
}

func newLogger() *logging.Logger {
	level := -1
	switch {
	case trace:
		level = logging.LEVEL_TRACE
	case verbose:
		level = logging.LEVEL_DEBUG
	}
	if level < 0 {
		return logging.DefaultLogger()
	}
	return logging.NewLogger(logging.NewSimpleLogger(os.Stderr, level, true))
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().BoolVar(&trace, "vv", false, "Enable trace logging")
	dumpCmd.Flags().BoolVar(&keepVers, "keep-version", false, "Keep the ';1' version suffix on file names")

	rootCmd.AddCommand(dumpCmd, tracksCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
