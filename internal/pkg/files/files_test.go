package files

import (
	"errors"
	"strings"
	"testing"
)

func TestSaveAndRead(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	data := []byte("png bytes")
	filename, err := store.Save("items", 3, "photo.PNG", data)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(filename, ".png") {
		t.Errorf("expected lowercased extension kept, got %q", filename)
	}
	if filename == "photo.png" {
		t.Error("expected a generated unique filename")
	}

	read, err := store.Read("items", 3, filename)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(read) != string(data) {
		t.Error("read bytes differ from saved bytes")
	}
}

func TestReadMissingFile(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	if _, err := store.Read("items", 1, "nope.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestReadRejectsTraversal(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	for _, name := range []string{"../secret", "..", "a/../../b", ""} {
		if _, err := store.Read("items", 1, name); !errors.Is(err, ErrNotFound) {
			t.Errorf("filename %q: expected ErrNotFound, got %v", name, err)
		}
	}
	if _, err := store.Read("../items", 1, "x.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("traversal collection: expected ErrNotFound, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	store, _ := NewStore(t.TempDir())

	filename, _ := store.Save("checkouts", 5, "signature.png", []byte("x"))
	if err := store.Remove("checkouts", 5); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := store.Read("checkouts", 5, filename); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected file gone, got %v", err)
	}

	// Removing again is not an error.
	if err := store.Remove("checkouts", 5); err != nil {
		t.Errorf("second Remove: %v", err)
	}
}

func TestURL(t *testing.T) {
	got := URL("items", 12, "abc.png", false)
	if got != "/api/v1/files/items/12/abc.png" {
		t.Errorf("unexpected URL %q", got)
	}

	got = URL("items", 12, "abc.png", true)
	if got != "/api/v1/files/items/12/abc.png?thumb=100x100" {
		t.Errorf("unexpected thumb URL %q", got)
	}
}
