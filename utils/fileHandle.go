package utils

import (
	"image"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// SaveUploadedFile stores an uploaded file under destDir with a unique
// uuid-prefixed name and returns the stored path
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	safeName := unsafeFilenameChars.ReplaceAllString(file.Filename, "_")
	newFilename := uuid.New().String() + "-" + safeName
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return filePath, nil
}

// ProcessCourseImage shrinks a stored course image to fit 800x600 and
// recompresses it as JPEG. If assets/watermark.png exists it is overlaid in
// the bottom-right corner at roughly 30% of the image width.
func ProcessCourseImage(filePath string) error {
	img, err := imaging.Open(filePath)
	if err != nil {
		return err
	}

	img = imaging.Fit(img, 800, 600, imaging.Lanczos)

	if watermark, err := imaging.Open(filepath.Join("assets", "watermark.png")); err == nil {
		watermarkWidth := img.Bounds().Dx() * 30 / 100
		if watermarkWidth > 0 {
			watermark = imaging.Resize(watermark, watermarkWidth, 0, imaging.Lanczos)
			offsetX := img.Bounds().Dx() - watermark.Bounds().Dx()
			offsetY := img.Bounds().Dy() - watermark.Bounds().Dy()
			img = imaging.Overlay(img, watermark, image.Pt(offsetX, offsetY), 1.0)
		}
	}

	return imaging.Save(img, filePath, imaging.JPEGQuality(80))
}

// GetFileURL maps a stored path to its public URL
func GetFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	return "/" + filepath.ToSlash(filePath)
}
