// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"fmt"
)

// ConfigError is returned for invalid configuration detected before synchronization starts.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IOError is a failed operation on a single path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("error %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FileSyncError is a failure to bring a single replica entry up to date.
type FileSyncError struct {
	Path string
	Err  error
}

func (e *FileSyncError) Error() string {
	return fmt.Sprintf("error synchronizing %q: %v", e.Path, e.Err)
}

func (e *FileSyncError) Unwrap() error {
	return e.Err
}

// ConflictError is an entry whose kind in the replica differs from its kind in the source.
type ConflictError struct {
	Path    string
	Source  Kind
	Replica Kind
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%q is a %s in the source but a %s in the replica", e.Path, e.Source, e.Replica)
}
