package tantalks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"

	"github.com/eringen/tantalks/content"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 82
	maxUploadSize = 10 << 20 // 10MB
)

// processImage decodes an image from src, shrinks it to maxImageWidth when
// wider, and re-encodes it as JPEG.
func processImage(src io.Reader, originalName string) (content.Image, []byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return content.Image{}, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return content.Image{}, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	base := slugifyFilename(originalName)
	if base == "" {
		base = "image"
	}

	return content.Image{
		Filename:     base + ".jpg",
		OriginalName: originalName,
		Width:        w,
		Height:       h,
		Size:         buf.Len(),
	}, buf.Bytes(), nil
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	name = filepath.Base(name)
	ext := filepath.Ext(name)
	return Slugify(strings.TrimSuffix(name, ext))
}

// uniqueFilename appends a counter until the name is free on disk and in the store.
func (a *App) uniqueFilename(ctx context.Context, filename string) (string, error) {
	base := strings.TrimSuffix(filename, ".jpg")
	candidate := filename
	for counter := 2; ; counter++ {
		_, statErr := os.Stat(filepath.Join(a.Config.UploadsDir, candidate))
		exists, err := a.Content.ImageExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if errors.Is(statErr, os.ErrNotExist) && !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d.jpg", base, counter)
	}
}

func (a *App) handleImageUpload(c echo.Context) error {
	ctx := c.Request().Context()
	file, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No image file provided"})
	}
	if file.Size > maxUploadSize {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "File too large (max 10MB)"})
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	img, data, err := processImage(src, file.Filename)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid image: " + err.Error()})
	}

	if img.Filename, err = a.uniqueFilename(ctx, img.Filename); err != nil {
		return contentError(c, err, "upload image")
	}
	img.URL = "/uploads/" + img.Filename

	if err := os.MkdirAll(a.Config.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(a.Config.UploadsDir, img.Filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	saved, err := a.Content.SaveImage(ctx, img, actorID(c))
	if err != nil {
		return contentError(c, err, "upload image")
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "image": saved})
}

func (a *App) handleImageDelete(c echo.Context) error {
	filename := filepath.Base(c.Param("filename"))
	if filename == "" || filename == "." || filename == "/" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Filename required"})
	}

	_ = os.Remove(filepath.Join(a.Config.UploadsDir, filename)) // ignore error if file already gone

	if err := a.Content.DeleteImage(c.Request().Context(), filename, actorID(c)); err != nil {
		return contentError(c, err, "delete image")
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func (a *App) handleImageList(c echo.Context) error {
	images, err := a.Content.ListImages(c.Request().Context(), actorID(c))
	if err != nil {
		return contentError(c, err, "fetch images")
	}
	return c.JSON(http.StatusOK, map[string]any{"images": images})
}
