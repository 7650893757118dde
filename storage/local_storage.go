package storage

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// LocalStorage keeps blobs as plain files under a single directory.
type LocalStorage struct {
	BasePath string
}

// NewLocalStorage creates the base directory if needed.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, err
	}
	return &LocalStorage{BasePath: basePath}, nil
}

// path joins the blob name onto the base directory. Base() strips any
// directory components so a crafted name cannot escape it.
func (s *LocalStorage) path(filename string) string {
	return filepath.Join(s.BasePath, filepath.Base(filename))
}

func (s *LocalStorage) Upload(file io.Reader, filename string) (string, error) {
	logrus.Infof("Starting file upload: %s", filename)
	path := s.path(filename)
	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", err
	}
	return path, nil
}

func (s *LocalStorage) Download(filename string) (*os.File, error) {
	return os.Open(s.path(filename))
}

func (s *LocalStorage) Delete(filename string) error {
	logrus.Infof("Initiating file deletion: %s", filename)
	return os.Remove(s.path(filename))
}

func (s *LocalStorage) Exists(filename string) (bool, error) {
	_, err := os.Stat(s.path(filename))
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func (s *LocalStorage) List() ([]BlobInfo, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		return nil, err
	}
	blobs := make([]BlobInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, BlobInfo{
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return blobs, nil
}
