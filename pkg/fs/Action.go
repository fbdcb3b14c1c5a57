// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

type Action int

const (
	ActionNone Action = iota
	ActionCreateDirectory
	ActionCopyFile
	// ActionCompare means the contents of both files must be compared before deciding.
	ActionCompare
	ActionUpdateFile
	ActionRemoveDirectory
	ActionRemoveFile
)

func (a Action) String() string {
	switch a {
	case ActionCreateDirectory:
		return "create directory"
	case ActionCopyFile:
		return "copy file"
	case ActionCompare:
		return "compare"
	case ActionUpdateFile:
		return "update file"
	case ActionRemoveDirectory:
		return "remove directory"
	case ActionRemoveFile:
		return "remove file"
	}
	return "none"
}

// Equality is the result of comparing the contents of two files.
type Equality int

const (
	EqualityUnknown Equality = iota
	EqualityEqual
	EqualityDifferent
)

func NewEquality(equal bool) Equality {
	if equal {
		return EqualityEqual
	}
	return EqualityDifferent
}
