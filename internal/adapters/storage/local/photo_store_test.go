package local

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ogurasousui/codex-staff-registry/internal/core/staff"
)

// 1x1 の PNG シグネチャ先頭部分
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func newStore(t *testing.T, maxBytes int64) (*PhotoStore, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "photos")
	store, err := NewPhotoStore(dir, maxBytes, nil)
	if err != nil {
		t.Fatalf("NewPhotoStore returned error: %v", err)
	}
	return store, dir
}

func TestPhotoStore_SaveOpenDelete(t *testing.T) {
	t.Parallel()

	store, dir := newStore(t, 0)

	key, err := store.Save(context.Background(), staff.Photo{
		Filename:    "profile.PNG",
		ContentType: "image/png",
		Content:     bytes.NewReader(pngHeader),
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if !strings.HasSuffix(key, ".png") || strings.ContainsAny(key, `/\`) {
		t.Fatalf("unexpected key %q", key)
	}
	if _, err := os.Stat(filepath.Join(dir, key)); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	got, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		t.Fatalf("ReadAll returned error: %v", err)
	}
	if !bytes.Equal(got, pngHeader) {
		t.Fatalf("unexpected content %v", got)
	}

	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
	if _, err := store.Open(context.Background(), key); !errors.Is(err, staff.ErrPhotoNotFound) {
		t.Fatalf("expected ErrPhotoNotFound, got %v", err)
	}
}

func TestPhotoStore_SniffsContentTypeWhenUndeclared(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t, 0)

	key, err := store.Save(context.Background(), staff.Photo{
		Filename: "avatar.png",
		Content:  bytes.NewReader(pngHeader),
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if key == "" {
		t.Fatalf("expected key")
	}
}

func TestPhotoStore_RejectsNonImage(t *testing.T) {
	t.Parallel()

	store, dir := newStore(t, 0)

	_, err := store.Save(context.Background(), staff.Photo{
		Filename: "resume.txt",
		Content:  strings.NewReader("plain text resume"),
	})
	if !errors.Is(err, staff.ErrUnsupportedPhotoType) {
		t.Fatalf("expected ErrUnsupportedPhotoType, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files to be written, got %d", len(entries))
	}
}

func TestPhotoStore_RejectsTooLarge(t *testing.T) {
	t.Parallel()

	store, dir := newStore(t, 32)

	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 64)...)

	_, err := store.Save(context.Background(), staff.Photo{
		Filename:    "big.png",
		ContentType: "image/png",
		Content:     bytes.NewReader(payload),
	})
	if !errors.Is(err, staff.ErrPhotoTooLarge) {
		t.Fatalf("expected ErrPhotoTooLarge, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected partial file to be removed, got %d", len(entries))
	}

	_, err = store.Save(context.Background(), staff.Photo{
		Filename:    "big.png",
		ContentType: "image/png",
		Size:        1 << 20,
		Content:     bytes.NewReader(pngHeader),
	})
	if !errors.Is(err, staff.ErrPhotoTooLarge) {
		t.Fatalf("expected declared size to be rejected, got %v", err)
	}
}

func TestPhotoStore_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	store, _ := newStore(t, 0)

	for _, key := range []string{"../secret", "a/b.png", `..\x.png`, ".."} {
		if _, err := store.Open(context.Background(), key); !errors.Is(err, staff.ErrPhotoNotFound) {
			t.Errorf("Open(%q): expected ErrPhotoNotFound, got %v", key, err)
		}
		if err := store.Delete(context.Background(), key); err == nil {
			t.Errorf("Delete(%q): expected error", key)
		}
	}
}

func TestNewPhotoStore_RequiresDirectory(t *testing.T) {
	t.Parallel()

	if _, err := NewPhotoStore("  ", 0, nil); err == nil {
		t.Fatalf("expected error for empty directory")
	}
}

func TestPhotoStore_IgnoresDeclaredContentType(t *testing.T) {
	t.Parallel()

	store, dir := newStore(t, 0)

	_, err := store.Save(context.Background(), staff.Photo{
		Filename:    "x.png",
		ContentType: "image/png",
		Content:     strings.NewReader("<html><script>alert(1)</script></html>"),
	})
	if !errors.Is(err, staff.ErrUnsupportedPhotoType) {
		t.Fatalf("expected ErrUnsupportedPhotoType for html declared as png, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no files to be written, got %d", len(entries))
	}

	key, err := store.Save(context.Background(), staff.Photo{
		Filename:    "renamed.jpg",
		ContentType: "image/jpeg",
		Content:     bytes.NewReader(pngHeader),
	})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Fatalf("expected extension from sniffed content, got %q", key)
	}
	if got := staff.PhotoContentType(key); got != "image/png" {
		t.Fatalf("expected image/png for %q, got %q", key, got)
	}
}
