package service

import (
	"context"
	"testing"
	"time"

	"github.com/notaproblemtosolve/upload-gateway/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryListsImagesNewestFirst(t *testing.T) {
	store := newFakeBlobStore()
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	store.objects["uploads/u1/.directory"] = entity.StoredObject{Path: "uploads/u1/.directory", CreatedAt: base}
	store.objects["uploads/u1/1-a-old.png"] = entity.StoredObject{Path: "uploads/u1/1-a-old.png", Size: 5, CreatedAt: base.Add(time.Minute)}
	store.objects["uploads/u1/2-b-new.WEBP"] = entity.StoredObject{Path: "uploads/u1/2-b-new.WEBP", Size: 7, CreatedAt: base.Add(time.Hour)}
	store.objects["uploads/u1/notes.txt"] = entity.StoredObject{Path: "uploads/u1/notes.txt", CreatedAt: base}
	store.objects["uploads/u2/3-c-other.png"] = entity.StoredObject{Path: "uploads/u2/3-c-other.png", CreatedAt: base}

	items, err := NewGalleryService(store, store).ListImages(context.Background(), "u1", 0)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "2-b-new.WEBP", items[0].Name)
	assert.Equal(t, "1-a-old.png", items[1].Name)
	assert.Equal(t, "https://cdn.example.test/images/uploads/u1/1-a-old.png", items[1].URL)
	assert.Equal(t, int64(5), items[1].Size)
}
