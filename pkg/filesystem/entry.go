// Package filesystem turns the path map of an ISO9660 volume into a sorted listing.
package filesystem

import (
	"path"
	"sort"

	"github.com/bgrewell/disc-kit/pkg/iso9660"
)

type FileSystemEntry struct {
	// The name of the file or directory and any extension
	Name string `json:"name" yaml:"name"`
	// Full path, e.g., "/DATA/SUB/FILE.BIN"
	FullPath string `json:"full_path" yaml:"full_path"`
	// IsDir, true if it's a directory
	IsDir bool `json:"is_dir" yaml:"is_dir,omitempty"`
	// Size of the file, 0 if it's a directory
	Size int64 `json:"size" yaml:"size"`
	// Location is the first logical sector of the file, 0 for directories
	Location int64 `json:"location" yaml:"location"`
}

// Span returns the file span of a file entry.
func (e *FileSystemEntry) Span() iso9660.FileSpan {
	return iso9660.FileSpan{Sector: e.Location, Size: e.Size}
}

// Entries lists every file of the map and every directory leading to one, sorted by full path so a directory
// always comes before its contents.
func Entries(files map[string]iso9660.FileSpan) []*FileSystemEntry {
	dirs := make(map[string]struct{})
	entries := make([]*FileSystemEntry, 0, len(files))
	for p, span := range files {
		entries = append(entries, &FileSystemEntry{
			Name:     path.Base(p),
			FullPath: p,
			Size:     span.Size,
			Location: span.Sector,
		})
		for dir := path.Dir(p); dir != "/" && dir != "."; dir = path.Dir(dir) {
			dirs[dir] = struct{}{}
		}
	}
	for dir := range dirs {
		entries = append(entries, &FileSystemEntry{Name: path.Base(dir), FullPath: dir, IsDir: true})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].FullPath < entries[j].FullPath
	})
	return entries
}

// Files returns only the file entries of Entries.
func Files(files map[string]iso9660.FileSpan) []*FileSystemEntry {
	var out []*FileSystemEntry
	for _, e := range Entries(files) {
		if !e.IsDir {
			out = append(out, e)
		}
	}
	return out
}
