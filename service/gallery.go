package service

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"sort"

	"github.com/notaproblemtosolve/upload-gateway/entity"
)

const DefaultGalleryLimit = 50

var imageNamePattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)

type GalleryService struct {
	lister ObjectLister
	store  BlobStore
}

func NewGalleryService(lister ObjectLister, store BlobStore) *GalleryService {
	return &GalleryService{lister: lister, store: store}
}

// ListImages returns the principal's images, newest first. Directory markers
// and non-image objects are skipped.
func (g *GalleryService) ListImages(ctx context.Context, principalID string, limit int) ([]entity.ImageItem, error) {
	if limit <= 0 {
		limit = DefaultGalleryLimit
	}

	objects, err := g.lister.ListObjects(ctx, UserUploadPrefix(principalID)+"/", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list images for %s: %w", principalID, err)
	}

	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].CreatedAt.After(objects[j].CreatedAt)
	})

	items := make([]entity.ImageItem, 0, len(objects))
	for _, obj := range objects {
		name := path.Base(obj.Path)
		if !imageNamePattern.MatchString(name) {
			continue
		}
		items = append(items, entity.ImageItem{
			ID:        obj.Path,
			URL:       g.store.PublicURL(obj.Path),
			Name:      name,
			CreatedAt: obj.CreatedAt,
			Size:      obj.Size,
		})
	}
	return items, nil
}
