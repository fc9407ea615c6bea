package texture

import (
	"os"
	"path/filepath"
	"strings"
)

// extRank orders formats when one stem exists in several encodings.
// Lower wins.
var extRank = map[string]int{
	".webp": 0,
	".jpg":  1,
	".jpeg": 1,
	".png":  2,
	".tga":  3,
}

// Index maps lowercase image stems to filesystem paths so tour files can
// name panoramas without extensions or directories.
type Index struct {
	entries map[string]string // stem.lower() → full path
}

// BuildIndex scans dir and its subdirectories for panorama images.
// A missing directory yields an empty index.
func BuildIndex(dir string) *Index {
	idx := &Index{entries: make(map[string]string)}
	if dir == "" {
		return idx
	}

	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := extRank[ext]
		if !ok {
			return nil
		}
		stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))

		existing, exists := idx.entries[stem]
		if !exists || rank < extRank[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the filesystem path for an image name, or ("", false).
func (idx *Index) ResolvePath(name string) (string, bool) {
	if idx == nil {
		return "", false
	}
	// Strip path prefix (e.g., "/images/tours/homestead.jpg" → "homestead")
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))

	path, ok := idx.entries[stem]
	return path, ok
}

// Len returns the number of indexed images.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.entries)
}
