// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

type SyncInput struct {
	// SourceFileSystem is rooted at the source directory.
	SourceFileSystem FileSystem
	// ReplicaFileSystem is rooted at the replica directory.
	ReplicaFileSystem FileSystem
	// Exclude is a list of doublestar patterns for relative paths that are neither copied nor removed.
	Exclude []string
	Logger  Logger
	// Debug logs skipped entries.
	Debug bool
	// MaxThreads is the maximum number of files compared or copied at the same time.
	// Values less than 1 mean no limit.
	MaxThreads int
}

func (input *SyncInput) log(msg string, fields ...map[string]interface{}) {
	if input.Logger != nil {
		_ = input.Logger.Log(msg, fields...)
	}
}

// emit records the event and writes it to the log.
func (input *SyncInput) emit(report *SyncReport, e Event) {
	report.record(e)
	input.log(e.Type.String() + ": " + input.ReplicaFileSystem.Path(e.Path))
}

// fail records the entry error and writes it to the log.
func (input *SyncInput) fail(report *SyncReport, err error) {
	report.fail(err)
	input.log("Error synchronizing", map[string]interface{}{
		"err": err.Error(),
	})
}
