package testing

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// GroundTruthEntry represents a single record from a ground truth JSON listing.
type GroundTruthEntry struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	IsDirectory bool   `json:"is_directory"`
}

// LoadGroundTruth reads the JSON from a file and unmarshals it into a slice.
func LoadGroundTruth(filePath string) ([]GroundTruthEntry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var entries []GroundTruthEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return entries, nil
}

// ContainsNonASCIIPrintable returns true if the string has any characters outside ASCII [32..126].
func ContainsNonASCIIPrintable(s string) bool {
	for _, r := range s {
		if r < 32 || r > 126 {
			return true
		}
	}
	return false
}

// Validate compares a path to size listing against ground truth entries. Directory entries in the ground truth
// are ignored. The returned error lists every missing, extra or mis-sized file.
func Validate(files map[string]int64, groundTruth []GroundTruthEntry) error {
	var problems []string

	want := make(map[string]int64)
	for _, gt := range groundTruth {
		if !gt.IsDirectory {
			want[gt.Name] = gt.Size
		}
	}

	for name, size := range want {
		got, ok := files[name]
		switch {
		case !ok:
			problems = append(problems, "missing "+name)
		case got != size:
			problems = append(problems, fmt.Sprintf("size of %s is %d, want %d", name, got, size))
		}
	}
	for name := range files {
		if ContainsNonASCIIPrintable(name) {
			problems = append(problems, fmt.Sprintf("non-ASCII printable characters in %q", name))
		}
		if _, ok := want[name]; !ok {
			problems = append(problems, "extra "+name)
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%d validation problems:\n  %s", len(problems), strings.Join(problems, "\n  "))
}
