package filemgr

import (
	"regexp"
	"strings"
	"testing"
)

func TestUploadFilename(t *testing.T) {
	name := UploadFilename("photo.JPG")
	if !strings.HasSuffix(name, ".jpg") {
		t.Errorf("extension should be lowercased: %q", name)
	}
	if !regexp.MustCompile(`^\d+-\d+\.jpg$`).MatchString(name) {
		t.Errorf("unexpected filename shape: %q", name)
	}

	if UploadFilename("a.png") == UploadFilename("a.png") {
		t.Error("names should not collide for back-to-back uploads")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd": "passwd",
		"my photo (1).jpg": "my_photo__1_.jpg",
		"ok-file_2.png":    "ok-file_2.png",
	}
	for in, want := range cases {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPublicPath(t *testing.T) {
	got := PublicPath(EntityProduct, "123-456.jpg")
	if got != "/uploads/products/123-456.jpg" {
		t.Errorf("PublicPath = %q", got)
	}
}

func TestExtensionAllowlist(t *testing.T) {
	if !isExtensionAllowed(".webp", KindImage) {
		t.Error(".webp should be an allowed image extension")
	}
	if isExtensionAllowed(".pdf", KindImage) {
		t.Error(".pdf is not an image")
	}
	if !isExtensionAllowed(".pdf", KindDocument) {
		t.Error(".pdf should be an allowed document extension")
	}
	if isExtensionAllowed(".exe", KindDocument) {
		t.Error(".exe must never be allowed")
	}
}

func TestMIMEAllowlist(t *testing.T) {
	if !isMIMEAllowed("image/png", KindImage) {
		t.Error("image/png should be allowed")
	}
	if isMIMEAllowed("application/pdf", KindImage) {
		t.Error("pdf MIME is not an image")
	}
	if !isMIMEAllowed("application/pdf", KindDocument) {
		t.Error("pdf MIME should be an allowed document")
	}
}

func TestScanForViruses(t *testing.T) {
	if err := ScanForViruses("clean.jpg"); err != nil {
		t.Errorf("clean file flagged: %v", err)
	}
	if err := ScanForViruses("virus.jpg"); err == nil {
		t.Error("stub should flag its known signature")
	}
}
