package main

import (
	"crypto/md5"
	"fmt"
	"os"
	"sort"

	"github.com/bgrewell/disc-kit"
	testutil "github.com/bgrewell/disc-kit/internal/testing"
	"github.com/bgrewell/disc-kit/pkg/logging"
	"github.com/bgrewell/disc-kit/pkg/option"
	"github.com/bgrewell/usage"
)

func main() {

	u := usage.NewUsage(
		usage.WithApplicationName("open_and_extract"),
		usage.WithApplicationDescription("open_and_extract is a functional testing application that is part of disc-kit and is designed to verify that the open, layout and ISO9660 walking logic of disc-kit is working as expected against real images."),
	)
	help := u.AddBooleanOption("h", "help", false, "Display this help message", "", nil)
	quiet := u.AddBooleanOption("q", "quiet", false, "Only print the summary", "", nil)
	input := u.AddArgument(1, "input", "The input .cue, .iso or .bin image to run the tests against", "")
	parsed := u.Parse()

	if !parsed {
		u.PrintError(fmt.Errorf("failed to parse arguments"))
		os.Exit(1)
	}

	if *help {
		u.PrintUsage()
		os.Exit(0)
	}

	if input == nil || *input == "" {
		u.PrintError(fmt.Errorf("location of the input image <input> must be provided"))
		os.Exit(1)
	}

	logger := logging.NewLogger(logging.NewSimpleLogger(os.Stderr, logging.LEVEL_DEBUG, true))
	d, err := disc.Open(*input, option.WithLogger(logger), option.WithCacheFiles(true))
	if err != nil {
		fmt.Printf("Failed to open image: %s\n", err)
		os.Exit(1)
	}
	defer d.Close()

	files, err := d.GetFiles()
	if err != nil {
		fmt.Printf("Failed to walk filesystem: %s\n", err)
		os.Exit(1)
	}

	paths := make([]string, 0, len(files))
	sizes := make(map[string]int64, len(files))
	for p, span := range files {
		paths = append(paths, p)
		sizes[p] = span.Size
	}
	sort.Strings(paths)

	// Every file must be readable in full
	for _, p := range paths {
		data, err := d.ReadFile(files[p])
		if err != nil {
			fmt.Printf("Failed to read %s: %s\n", p, err)
			os.Exit(1)
		}
		if int64(len(data)) != files[p].Size {
			fmt.Printf("Short read of %s: got %d bytes, want %d\n", p, len(data), files[p].Size)
			os.Exit(1)
		}
		if testutil.ContainsNonASCIIPrintable(p) {
			fmt.Printf("Warning: path %q has non printable characters\n", p)
		}
		if !*quiet {
			fmt.Printf("%x  %10d  %s\n", md5.Sum(data), len(data), p)
		}
	}

	dirCount, fileCount := testutil.GetFileAndFolderCounts(paths)
	fmt.Printf("%d tracks, %d files, %d directories\n", len(d.Tracks()), fileCount, dirCount)

	// A ground truth listing next to the image, e.g. game.cue.json, is checked when present
	truth := *input + ".json"
	if _, err := os.Stat(truth); err == nil {
		gt, err := testutil.LoadGroundTruth(truth)
		if err != nil {
			fmt.Printf("Failed to load ground truth: %s\n", err)
			os.Exit(1)
		}
		if err := testutil.Validate(sizes, gt); err != nil {
			fmt.Printf("Validation failed: %s\n", err)
			os.Exit(1)
		}
		fmt.Println("Listing matches ground truth")
	}
}
