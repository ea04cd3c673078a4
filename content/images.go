package content

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/eringen/tantalks/kv"
)

// SaveImage records the metadata of an uploaded image.
func (r *Repository) SaveImage(ctx context.Context, img Image, actor string) (Image, error) {
	if err := requireActor(actor); err != nil {
		return Image{}, err
	}
	if strings.TrimSpace(img.Filename) == "" {
		return Image{}, invalid("filename", "filename is required")
	}
	img.UploadedBy = actor
	if img.UploadedAt.IsZero() {
		img.UploadedAt = r.now().UTC()
	}
	if err := r.save(ctx, ImagePrefix+img.Filename, img); err != nil {
		return Image{}, err
	}
	return img, nil
}

// ListImages returns every image, newest upload first.
func (r *Repository) ListImages(ctx context.Context, actor string) ([]Image, error) {
	if err := requireActor(actor); err != nil {
		return []Image{}, err
	}
	images, err := scan[Image](ctx, r, ImagePrefix)
	if err != nil {
		return images, err
	}
	sort.SliceStable(images, func(i, j int) bool {
		return images[i].UploadedAt.After(images[j].UploadedAt)
	})
	return images, nil
}

// ImageExists reports whether metadata is stored for filename.
func (r *Repository) ImageExists(ctx context.Context, filename string) (bool, error) {
	_, err := r.store.Get(ctx, ImagePrefix+filename)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storageError("get image "+filename, err)
	}
	return true, nil
}

// DeleteImage removes the metadata for filename. Deleting a missing image
// succeeds.
func (r *Repository) DeleteImage(ctx context.Context, filename string, actor string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	return r.remove(ctx, ImagePrefix+filename)
}
