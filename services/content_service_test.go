package services

import (
	"CourseShelf/models"
	"CourseShelf/repositories"
	"CourseShelf/storage"
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContentService(t *testing.T) (*ContentService, *storage.LocalStorage) {
	t.Helper()
	repo := repositories.NewMockContentRepository()
	blobs, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewContentService(repo, blobs), blobs
}

func uploadBlob(t *testing.T, blobs *storage.LocalStorage, name string, data []byte) {
	t.Helper()
	_, err := blobs.Upload(bytes.NewReader(data), name)
	require.NoError(t, err)
}

func TestPutTextThenGet(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()
	key := models.SlotKey{Subject: "math", Feature: "notes", Chapter: 1}

	_, err := svc.PutText(ctx, key, "pythagoras")
	require.NoError(t, err)

	item, err := svc.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, models.ContentTypeText, item.Type)
	require.NotNil(t, item.Text)
	assert.Equal(t, "pythagoras", *item.Text)
	assert.Nil(t, item.FilePath)
}

func TestPutFileThenGetResolvesBytes(t *testing.T) {
	svc, blobs := newTestContentService(t)
	ctx := context.Background()
	key := models.SlotKey{Subject: "math", Feature: "notes", Chapter: 1}
	data := []byte("%PDF-1.4 fake")
	uploadBlob(t, blobs, "170000-abc.pdf", data)

	_, err := svc.PutFile(ctx, key, "170000-abc.pdf")
	require.NoError(t, err)

	item, err := svc.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, models.ContentTypeFile, item.Type)
	require.NotNil(t, item.FilePath)

	f, err := blobs.Download(*item.FilePath)
	require.NoError(t, err)
	defer f.Close()
	got, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestPutFileRequiresExistingBlob(t *testing.T) {
	svc, _ := newTestContentService(t)
	key := models.SlotKey{Subject: "math", Feature: "notes", Chapter: 1}

	_, err := svc.PutFile(context.Background(), key, "never-uploaded.pdf")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestPutRejectsEmptyKeyFields(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	_, err := svc.PutText(ctx, models.SlotKey{Subject: "", Feature: "notes", Chapter: 1}, "x")
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.PutText(ctx, models.SlotKey{Subject: "math", Feature: "  ", Chapter: 1}, "x")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestPutTextAcceptsEmptyText(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()
	key := models.SlotKey{Subject: "math", Feature: "notes", Chapter: 1}

	_, err := svc.PutText(ctx, key, "")
	require.NoError(t, err)

	item, err := svc.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, item.Text)
	assert.Equal(t, "", *item.Text)
}

func TestUpsertSameKeyKeepsSingleItem(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()
	key := models.SlotKey{Subject: "math", Feature: "notes", Chapter: 1}

	_, err := svc.PutText(ctx, key, "A")
	require.NoError(t, err)
	_, err = svc.PutText(ctx, key, "B")
	require.NoError(t, err)

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "B", *items[0].Text)
}

func TestReplaceFileWithTextRemovesBlob(t *testing.T) {
	svc, blobs := newTestContentService(t)
	ctx := context.Background()
	key := models.SlotKey{Subject: "math", Feature: "notes", Chapter: 1}
	uploadBlob(t, blobs, "old.pdf", []byte("old"))

	_, err := svc.PutFile(ctx, key, "old.pdf")
	require.NoError(t, err)
	_, err = svc.PutText(ctx, key, "now text")
	require.NoError(t, err)

	exists, err := blobs.Exists("old.pdf")
	require.NoError(t, err)
	assert.False(t, exists, "superseded blob must be removed")

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.ContentTypeText, items[0].Type)
}

func TestReplaceFileWithFileRemovesOldBlob(t *testing.T) {
	svc, blobs := newTestContentService(t)
	ctx := context.Background()
	key := models.SlotKey{Subject: "math", Feature: "notes", Chapter: 1}
	uploadBlob(t, blobs, "old.pdf", []byte("old"))
	uploadBlob(t, blobs, "new.pdf", []byte("new"))

	_, err := svc.PutFile(ctx, key, "old.pdf")
	require.NoError(t, err)
	_, err = svc.PutFile(ctx, key, "new.pdf")
	require.NoError(t, err)

	oldExists, err := blobs.Exists("old.pdf")
	require.NoError(t, err)
	assert.False(t, oldExists)
	newExists, err := blobs.Exists("new.pdf")
	require.NoError(t, err)
	assert.True(t, newExists)
}

func TestReplacePreservesCreatedAt(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()
	key := models.SlotKey{Subject: "math", Feature: "notes", Chapter: 1}

	first, err := svc.PutText(ctx, key, "A")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	second, err := svc.PutText(ctx, key, "B")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt), "replace must not reset CreatedAt")
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt), "replace must advance UpdatedAt")
}

func TestDeleteFileRemovesRowAndBlob(t *testing.T) {
	svc, blobs := newTestContentService(t)
	ctx := context.Background()
	key := models.SlotKey{Subject: "math", Feature: "notes", Chapter: 1}
	uploadBlob(t, blobs, "gone.pdf", []byte("bytes"))

	item, err := svc.PutFile(ctx, key, "gone.pdf")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, item.ID))

	_, err = svc.Get(ctx, key)
	assert.Equal(t, KindNotFound, KindOf(err))

	exists, err := blobs.Exists("gone.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDeleteUnknownID(t *testing.T) {
	svc, _ := newTestContentService(t)

	err := svc.Delete(context.Background(), 999)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestListAllOrdered(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()

	for _, key := range []models.SlotKey{
		{Subject: "math", Feature: "notes", Chapter: 3},
		{Subject: "math", Feature: "notes", Chapter: 1},
		{Subject: "algebra", Feature: "notes", Chapter: 2},
		{Subject: "math", Feature: "exercises", Chapter: 5},
	} {
		_, err := svc.PutText(ctx, key, "x")
		require.NoError(t, err)
	}

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)

	got := make([]models.SlotKey, len(items))
	for i, item := range items {
		got[i] = item.Key()
	}
	assert.Equal(t, []models.SlotKey{
		{Subject: "algebra", Feature: "notes", Chapter: 2},
		{Subject: "math", Feature: "exercises", Chapter: 5},
		{Subject: "math", Feature: "notes", Chapter: 1},
		{Subject: "math", Feature: "notes", Chapter: 3},
	}, got)
}

func TestConcurrentPutTextSameKey(t *testing.T) {
	svc, _ := newTestContentService(t)
	ctx := context.Background()
	key := models.SlotKey{Subject: "math", Feature: "notes", Chapter: 1}

	var wg sync.WaitGroup
	for _, value := range []string{"X", "Y"} {
		wg.Add(1)
		go func(v string) {
			defer wg.Done()
			_, err := svc.PutText(ctx, key, v)
			assert.NoError(t, err)
		}(value)
	}
	wg.Wait()

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1, "concurrent writers must never leave two rows")
	require.NotNil(t, items[0].Text)
	assert.Contains(t, []string{"X", "Y"}, *items[0].Text)
}

func TestConcurrentPutFileSameKeyLeavesOneBlob(t *testing.T) {
	svc, blobs := newTestContentService(t)
	ctx := context.Background()
	key := models.SlotKey{Subject: "math", Feature: "notes", Chapter: 1}
	uploadBlob(t, blobs, "a.pdf", []byte("a"))
	uploadBlob(t, blobs, "b.pdf", []byte("b"))

	var wg sync.WaitGroup
	for _, name := range []string{"a.pdf", "b.pdf"} {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			_, err := svc.PutFile(ctx, key, n)
			assert.NoError(t, err)
		}(name)
	}
	wg.Wait()

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// The loser's blob must have been cleaned up: only the winner's
	// reference is left on disk.
	list, err := blobs.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, *items[0].FilePath, list[0].Name)
}
