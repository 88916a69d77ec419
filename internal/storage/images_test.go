package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T, maxBytes int64) (*localImageStore, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalImageStore(dir, maxBytes)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	s := store.(*localImageStore)
	s.now = func() time.Time { return time.Date(2026, 10, 14, 10, 15, 0, 0, time.UTC) }
	return s, dir
}

func TestSaveWritesUniquelyNamedFile(t *testing.T) {
	store, dir := newTestStore(t, 1024)

	rel, err := store.Save(context.Background(), "Fresh Milk.PNG", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Failed to save image: %v", err)
	}

	pattern := regexp.MustCompile(`^uploads/20261014_101500_[0-9a-f]{8}_Fresh_Milk\.png$`)
	if !pattern.MatchString(rel) {
		t.Errorf("Unexpected stored path %q", rel)
	}

	content, err := os.ReadFile(filepath.Join(dir, filepath.Base(rel)))
	if err != nil {
		t.Fatalf("Stored file missing: %v", err)
	}
	if string(content) != "png-bytes" {
		t.Errorf("Unexpected content %q", content)
	}

	again, err := store.Save(context.Background(), "Fresh Milk.PNG", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("Failed to save image: %v", err)
	}
	if again == rel {
		t.Error("Expected distinct names for uploads in the same second")
	}
}

func TestSaveRejectsOversizedImage(t *testing.T) {
	store, dir := newTestStore(t, 8)

	_, err := store.Save(context.Background(), "big.jpg", bytes.NewReader(make([]byte, 9)))
	if !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("Expected ErrImageTooLarge, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected no files left behind, found %d", len(entries))
	}
}

func TestSaveRejectsUnsupportedType(t *testing.T) {
	store, _ := newTestStore(t, 1024)

	_, err := store.Save(context.Background(), "script.sh", strings.NewReader("#!/bin/sh"))
	if !errors.Is(err, ErrUnsupportedImageType) {
		t.Errorf("Expected ErrUnsupportedImageType, got %v", err)
	}
}

func TestSaveHonoursCancelledContext(t *testing.T) {
	store, _ := newTestStore(t, 1024)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.Save(ctx, "milk.png", strings.NewReader("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	store, _ := newTestStore(t, 10)

	if err := store.Validate("milk.png", 10); err != nil {
		t.Errorf("Expected valid image, got %v", err)
	}
	if err := store.Validate("milk.png", 11); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("Expected ErrImageTooLarge, got %v", err)
	}
	if err := store.Validate("milk.bmp", 1); !errors.Is(err, ErrUnsupportedImageType) {
		t.Errorf("Expected ErrUnsupportedImageType, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	store, dir := newTestStore(t, 1024)

	rel, err := store.Save(context.Background(), "soap.gif", strings.NewReader("gif"))
	if err != nil {
		t.Fatalf("Failed to save image: %v", err)
	}

	if err := store.Remove(rel); err != nil {
		t.Fatalf("Failed to remove image: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filepath.Base(rel))); !os.IsNotExist(err) {
		t.Errorf("Expected file to be gone, got %v", err)
	}

	if err := store.Remove(rel); err != nil {
		t.Errorf("Removing a missing file should succeed, got %v", err)
	}
}
