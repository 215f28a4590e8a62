package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const (
	MaxUploadSize = 5 << 20
	maxImageWidth = 800
)

type UploadService interface {
	SaveImage(r io.Reader) (string, error)
}

type uploadService struct {
	dir       string
	publicURL string
}

// NewUploadService stores images under dir; returned URLs are rooted at
// publicURL.
func NewUploadService(dir, publicURL string) UploadService {
	return &uploadService{dir: dir, publicURL: publicURL}
}

// SaveImage decodes a jpeg or png, scales it down to the maximum width and
// stores it as a jpeg. It returns the public URL of the stored file.
func (s *uploadService) SaveImage(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return "", validationError("image must be 5MB or smaller")
	}

	var img image.Image
	switch http.DetectContentType(data) {
	case "image/jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case "image/png":
		img, err = png.Decode(bytes.NewReader(data))
	default:
		return "", validationError("only jpeg and png images are allowed")
	}
	if err != nil {
		return "", validationError("could not decode image")
	}

	if img.Bounds().Dx() > maxImageWidth {
		img = resize.Resize(maxImageWidth, 0, img, resize.Lanczos3)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	filename := uuid.New().String() + ".jpg"
	out, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: 80}); err != nil {
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	return s.publicURL + "/" + filename, nil
}
