package filemgr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

const maxUploadSize = 5 << 20 // 5MB per file, matching the upload middleware limit

// SaveFile validates and writes one uploaded file, returning the
// public reference path.
func SaveFile(file multipart.File, header *multipart.FileHeader, entity Entity, kind FileKind) (string, error) {
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !isExtensionAllowed(ext, kind) {
		return "", fmt.Errorf("%w: %s", ErrInvalidExtension, ext)
	}
	if header.Size > maxUploadSize {
		return "", ErrFileTooLarge
	}
	if err := ScanForViruses(header.Filename); err != nil {
		return "", fmt.Errorf("virus scan failed: %w", err)
	}

	buf, err := io.ReadAll(io.LimitReader(file, maxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if len(buf) > maxUploadSize {
		return "", ErrFileTooLarge
	}

	mimeType := http.DetectContentType(buf)
	if mimeType == "application/octet-stream" {
		if formMime := header.Header.Get("Content-Type"); formMime != "" {
			mimeType = formMime
		}
	}
	if !isMIMEAllowed(mimeType, kind) {
		return "", fmt.Errorf("%w: %s", ErrInvalidMIME, mimeType)
	}

	// Re-encode images to strip EXIF before they hit disk.
	if kind == KindImage || strings.HasPrefix(mimeType, "image/") {
		if img, _, err := image.Decode(bytes.NewReader(buf)); err == nil {
			stripped := new(bytes.Buffer)
			if err := jpeg.Encode(stripped, img, &jpeg.Options{Quality: 90}); err == nil {
				buf = stripped.Bytes()
				ext = ".jpg"
			}
			_ = generateThumbnail(img, entity, header.Filename)
		}
	}

	destDir := ResolvePath(entity)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", destDir, err)
	}

	filename := UploadFilename(SanitizeFilename(header.Filename))
	if filepath.Ext(filename) == "" {
		filename = uuid.New().String() + ext
	} else if ext == ".jpg" && !strings.HasSuffix(filename, ".jpg") {
		filename = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	}

	fullPath := filepath.Join(destDir, filename)
	if err := os.WriteFile(fullPath, buf, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", fullPath, err)
	}

	return PublicPath(entity, filename), nil
}

// SaveFormFiles saves every file under a multipart form key, up to max.
func SaveFormFiles(form *multipart.Form, formKey string, entity Entity, kind FileKind, max int) ([]string, error) {
	if form == nil || form.File == nil {
		return nil, nil
	}
	files := form.File[formKey]
	if len(files) > max {
		files = files[:max]
	}

	var saved []string
	var errs []string
	for _, hdr := range files {
		f, err := hdr.Open()
		if err != nil {
			errs = append(errs, fmt.Sprintf("open %s: %v", hdr.Filename, err))
			continue
		}
		path, err := SaveFile(f, hdr, entity, kind)
		if err != nil {
			errs = append(errs, fmt.Sprintf("save %s: %v", hdr.Filename, err))
			continue
		}
		saved = append(saved, path)
	}

	if len(errs) > 0 {
		return saved, fmt.Errorf("one or more errors saving files: %s", strings.Join(errs, "; "))
	}
	return saved, nil
}

// SaveFormFile saves the first file under a multipart form key.
func SaveFormFile(form *multipart.Form, formKey string, entity Entity, kind FileKind) (string, error) {
	if form == nil || form.File == nil || len(form.File[formKey]) == 0 {
		return "", nil
	}
	hdr := form.File[formKey][0]
	f, err := hdr.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", formKey, err)
	}
	return SaveFile(f, hdr, entity, kind)
}

func generateThumbnail(img image.Image, entity Entity, original string) error {
	thumb := imaging.Thumbnail(img, 200, 200, imaging.Lanczos)

	dir := filepath.Join(ResolvePath(entity), "thumbs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	name := UploadFilename(SanitizeFilename(original))
	name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	return imaging.Save(thumb, filepath.Join(dir, name))
}
