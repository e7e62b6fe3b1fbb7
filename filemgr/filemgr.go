package filemgr

import (
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

type Entity string
type FileKind string

const (
	EntityProfile      Entity = "profiles"
	EntityProduct      Entity = "products"
	EntityVerification Entity = "verification"
	EntityReview       Entity = "reviews"
	EntityChat         Entity = "chat"

	KindImage    FileKind = "image"
	KindDocument FileKind = "document"
)

const UploadRoot = "uploads"

var (
	AllowedExtensions = map[FileKind][]string{
		KindImage:    {".jpg", ".jpeg", ".png", ".gif", ".webp"},
		KindDocument: {".jpg", ".jpeg", ".png", ".pdf"},
	}

	AllowedMIMEs = map[FileKind][]string{
		KindImage:    {"image/jpeg", "image/png", "image/gif", "image/webp"},
		KindDocument: {"image/jpeg", "image/png", "application/pdf"},
	}

	ErrInvalidExtension = errors.New("invalid file extension")
	ErrInvalidMIME      = errors.New("invalid MIME type")
	ErrFileTooLarge     = errors.New("file size exceeds limit")
)

// ResolvePath returns the on-disk directory for an entity's uploads,
// e.g. uploads/products.
func ResolvePath(entity Entity) string {
	return filepath.Join(UploadRoot, string(entity))
}

// PublicPath is the reference stored on documents and served back
// to clients, e.g. /uploads/products/169...-483920.jpg.
func PublicPath(entity Entity, filename string) string {
	return "/" + UploadRoot + "/" + string(entity) + "/" + filename
}

// UploadFilename builds a timestamp-plus-random name keeping the
// original extension.
func UploadFilename(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}

// ScanForViruses is a stub hook for a real scanner.
func ScanForViruses(fileName string) error {
	if strings.Contains(fileName, "virus") {
		return fmt.Errorf("virus signature matched")
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^\w.\-]`)

// SanitizeFilename strips path components and unsafe characters.
func SanitizeFilename(name string) string {
	clean := unsafeChars.ReplaceAllString(filepath.Base(name), "_")
	if clean == "" {
		return "file"
	}
	return clean
}

func isExtensionAllowed(ext string, kind FileKind) bool {
	for _, a := range AllowedExtensions[kind] {
		if ext == a {
			return true
		}
	}
	return false
}

func isMIMEAllowed(mimeType string, kind FileKind) bool {
	for _, a := range AllowedMIMEs[kind] {
		if mimeType == a {
			return true
		}
	}
	return false
}
