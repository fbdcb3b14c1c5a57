// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"os"
)

// Kind is the type of entry found at a path.
type Kind int

const (
	KindNone Kind = iota
	KindDirectory
	KindFile
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	}
	return "other"
}

// KindOf returns the kind for the file mode.
// Symbolic links, devices, named pipes, and sockets are KindOther.
func KindOf(mode os.FileMode) Kind {
	if mode.IsDir() {
		return KindDirectory
	}
	if mode.IsRegular() {
		return KindFile
	}
	return KindOther
}
