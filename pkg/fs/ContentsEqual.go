// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"bytes"
	"context"
	"crypto/md5"
	"errors"
	"io"
)

// ChunkSize is the number of bytes read at a time when computing a fingerprint.
const ChunkSize = 4096

// Fingerprint returns the md5 digest of the file, read in chunks of ChunkSize bytes.
func Fingerprint(ctx context.Context, fileSystem FileSystem, name string) ([]byte, error) {
	file, err := fileSystem.Open(ctx, name)
	if err != nil {
		return nil, &IOError{Op: "opening", Path: fileSystem.Path(name), Err: err}
	}
	defer file.Close()

	h := md5.New()
	buf := make([]byte, ChunkSize)
	for {
		n, err := file.Read(buf)
		if n > 0 {
			_, _ = h.Write(buf[:n]) // hash writes never fail
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &IOError{Op: "reading", Path: fileSystem.Path(name), Err: err}
		}
	}

	return h.Sum(nil), nil
}

// ContentsEqual returns true if the two files have the same fingerprint.
// An error is returned if either file cannot be opened or read.
func ContentsEqual(ctx context.Context, a FileSystem, aName string, b FileSystem, bName string) (bool, error) {
	aSum, err := Fingerprint(ctx, a, aName)
	if err != nil {
		return false, err
	}
	bSum, err := Fingerprint(ctx, b, bName)
	if err != nil {
		return false, err
	}
	return bytes.Equal(aSum, bSum), nil
}
