package handlers

import (
	"mime/multipart"
	"testing"
)

func TestValidateImageFileAcceptsAllowedExtensions(t *testing.T) {
	for _, name := range []string{"logo.jpg", "logo.JPEG", "logo.png", "logo.webp"} {
		header := &multipart.FileHeader{Filename: name, Size: 1024}
		if _, err := validateImageFile(header); err != nil {
			t.Fatalf("expected %s to be accepted, got %v", name, err)
		}
	}
}

func TestValidateImageFileRejectsUnsupportedExtension(t *testing.T) {
	for _, name := range []string{"logo.gif", "logo.svg", "logo"} {
		header := &multipart.FileHeader{Filename: name, Size: 1024}
		if _, err := validateImageFile(header); err == nil {
			t.Fatalf("expected %s to be rejected", name)
		}
	}
}

func TestValidateImageFileRejectsOversizedFile(t *testing.T) {
	header := &multipart.FileHeader{Filename: "logo.png", Size: maxImageSize + 1}
	if _, err := validateImageFile(header); err == nil {
		t.Fatal("expected oversized file to be rejected")
	}
}

func TestSafeDeleteUploadRefusesNonUploadPaths(t *testing.T) {
	for _, relPath := range []string{"etc/passwd", "/etc/passwd", "uploads/../secrets.txt"} {
		if err := safeDeleteUpload(relPath); err == nil {
			t.Fatalf("expected %s to be refused", relPath)
		}
	}
}

func TestSafeDeleteUploadIgnoresMissingFile(t *testing.T) {
	if err := safeDeleteUpload("uploads/brands/doesnotexist.png"); err != nil {
		t.Fatalf("expected missing file to be treated as deleted, got %v", err)
	}
}
