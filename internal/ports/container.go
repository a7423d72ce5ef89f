package ports

import "io"

// ContainerStore opens container files holding flash images. A container is
// opened in exactly one mode for the duration of one engine operation and
// is read or written strictly sequentially; the engine never seeks.
type ContainerStore interface {
	// OpenRead opens the container at path for sequential reading.
	OpenRead(path string) (io.ReadCloser, error)

	// OpenWrite creates or truncates the container at path for sequential
	// writing.
	OpenWrite(path string) (io.WriteCloser, error)
}
