package testing

import (
	"path"
)

// GetFileAndFolderCounts returns the number of directories (other than the root) implied by a set of absolute
// file paths, and the number of files.
func GetFileAndFolderCounts(paths []string) (int, int) {
	folders := make(map[string]struct{})
	for _, p := range paths {
		for dir := path.Dir(p); dir != "/" && dir != "."; dir = path.Dir(dir) {
			folders[dir] = struct{}{}
		}
	}
	return len(folders), len(paths)
}
