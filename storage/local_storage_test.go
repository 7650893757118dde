package storage

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundtrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	data := []byte("hello blob")
	_, err = s.Upload(bytes.NewReader(data), "123-abc.txt")
	require.NoError(t, err)

	exists, err := s.Exists("123-abc.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	f, err := s.Download("123-abc.txt")
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, s.Delete("123-abc.txt"))
	exists, err = s.Exists("123-abc.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorageList(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(bytes.NewReader([]byte("a")), "a.txt")
	require.NoError(t, err)
	_, err = s.Upload(bytes.NewReader([]byte("bb")), "b.txt")
	require.NoError(t, err)

	blobs, err := s.List()
	require.NoError(t, err)
	require.Len(t, blobs, 2)
	names := []string{blobs[0].Name, blobs[1].Name}
	assert.Contains(t, names, "a.txt")
	assert.Contains(t, names, "b.txt")
}

func TestLocalStorageStripsDirectoryComponents(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(bytes.NewReader([]byte("x")), "../escape.txt")
	require.NoError(t, err)

	// The blob must have landed inside the base directory.
	exists, err := s.Exists("escape.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestLocalStorageExistsMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	exists, err := s.Exists("nope.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}
