// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"fmt"
	"path"

	"github.com/bmatcuk/doublestar/v4"
)

// CheckExclude returns an error if any of the patterns is malformed.
func CheckExclude(patterns []string) error {
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// Excluded returns true if the relative path or its base name matches any of the patterns.
// The root "." is never excluded.
func Excluded(patterns []string, name string) bool {
	if name == "." {
		return false
	}
	base := path.Base(name)
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
