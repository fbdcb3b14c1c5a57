// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

// EventType is a kind of change made to the replica.
type EventType int

const (
	DirectoryCreated EventType = iota + 1
	FileCopied
	FileUpdated
	DirectoryRemoved
	FileRemoved
	ConflictRemoved
)

// EventTypes lists every event type in the order they are reported.
var EventTypes = []EventType{
	DirectoryCreated,
	FileCopied,
	FileUpdated,
	DirectoryRemoved,
	FileRemoved,
	ConflictRemoved,
}

func (t EventType) String() string {
	switch t {
	case DirectoryCreated:
		return "Directory created"
	case FileCopied:
		return "File copied"
	case FileUpdated:
		return "File updated"
	case DirectoryRemoved:
		return "Directory removed"
	case FileRemoved:
		return "File removed"
	case ConflictRemoved:
		return "Conflicting entry removed"
	}
	return "Unknown event"
}

// Key returns the name used for the event type in structured output.
func (t EventType) Key() string {
	switch t {
	case DirectoryCreated:
		return "directories_created"
	case FileCopied:
		return "files_copied"
	case FileUpdated:
		return "files_updated"
	case DirectoryRemoved:
		return "directories_removed"
	case FileRemoved:
		return "files_removed"
	case ConflictRemoved:
		return "conflicts_removed"
	}
	return "unknown"
}

// Event is a change made to the replica at a relative path.
type Event struct {
	Type  EventType
	Path  string
	Bytes int64
}
