// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package lfs

// Contains returns true if p is the directory dir or is inside it.
// Both paths must be absolute and clean.
func Contains(dir string, p string) bool {
	dirElements := Split(dir)
	pathElements := Split(p)
	if len(pathElements) < len(dirElements) {
		return false
	}
	for i := range dirElements {
		if dirElements[i] != pathElements[i] {
			return false
		}
	}
	return true
}
