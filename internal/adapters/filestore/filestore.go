// Package filestore implements the container store over the local
// filesystem.
package filestore

import (
	"io"
	"os"
)

// Store opens container files on the local filesystem.
type Store struct{}

// OpenRead opens path for sequential reading.
func (Store) OpenRead(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// OpenWrite creates or truncates path for sequential writing.
func (Store) OpenWrite(path string) (io.WriteCloser, error) {
	return os.Create(path)
}
