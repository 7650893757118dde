package storage

import (
	"io"
	"os"
	"time"
)

// BlobInfo describes one stored blob, enough for the orphan sweep to
// decide whether it is old enough to reap.
type BlobInfo struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// Storage is the blob repository: durable byte storage for uploaded
// files, addressed by generated unique names. The metadata store keeps
// only names into it, never bytes.
type Storage interface {
	Upload(file io.Reader, filename string) (string, error)
	Download(filename string) (*os.File, error)
	Delete(filename string) error
	Exists(filename string) (bool, error)
	List() ([]BlobInfo, error)
}
