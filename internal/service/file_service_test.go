package service

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestResolveProductImage(t *testing.T) {
	dir := t.TempDir()
	filename := "1740176-00-A_0_2000.jpg"

	if err := os.WriteFile(filepath.Join(dir, filename), []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	svc := NewFileService(dir)

	path, err := svc.ResolveProductImage(filename)
	if err != nil {
		t.Fatalf("expected image to resolve: %v", err)
	}
	if path != filepath.Join(dir, filename) {
		t.Fatalf("path = %q, want %q", path, filepath.Join(dir, filename))
	}
}

func TestResolveProductImageMissing(t *testing.T) {
	svc := NewFileService(t.TempDir())

	_, err := svc.ResolveProductImage("no-such-image.jpg")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestResolveProductImageRejectsTraversal(t *testing.T) {
	dir := t.TempDir()

	// A real file outside the uploads dir must stay unreachable
	outside := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(outside, []byte("secret"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	uploads := filepath.Join(dir, "uploads")
	if err := os.Mkdir(uploads, 0o755); err != nil {
		t.Fatalf("failed to create uploads dir: %v", err)
	}

	svc := NewFileService(uploads)

	for _, name := range []string{
		"",
		"../secret.txt",
		"..\\secret.txt",
		"sub/secret.txt",
	} {
		if _, err := svc.ResolveProductImage(name); !errors.Is(err, ErrFileNotFound) {
			t.Errorf("ResolveProductImage(%q) should be rejected, got %v", name, err)
		}
	}
}
