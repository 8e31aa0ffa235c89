package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandPaths expands each pattern with doublestar semantics (** matches
// any number of directories) and returns the matching regular files,
// cleaned, deduplicated, and sorted. A literal path that names an existing
// file is returned as is. Every pattern must match at least one file.
func ExpandPaths(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("fs: invalid glob pattern: %s", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("fs: %s: %w", pattern, err)
		}
		n := 0
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			n++
			m = filepath.Clean(m)
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
		if n == 0 {
			return nil, fmt.Errorf("fs: %s: %w", pattern, ErrNoMatch)
		}
	}
	sort.Strings(out)
	return out, nil
}
