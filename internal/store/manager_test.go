package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestRecordSaveReload(t *testing.T) {
	dir := t.TempDir()
	dataPath := filepath.Join(dir, "history.json")
	video := writeFile(t, dir, "clip.mp4", "video bytes")

	m, err := NewManager(dataPath, "folder-1")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	d, err := m.Record("id1", "clip.mp4", video)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if d.Size != int64(len("video bytes")) || !strings.HasPrefix(d.Checksum, "sha256:") {
		t.Fatalf("unexpected record %+v", d)
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := NewManager(dataPath, "folder-1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, ok := reloaded.Downloaded("id1")
	if !ok || got.Checksum != d.Checksum {
		t.Fatalf("Downloaded = %+v, %v", got, ok)
	}

	other, err := NewManager(dataPath, "folder-2")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := other.Downloaded("id1"); ok {
		t.Error("history must be scoped per folder")
	}
}

func TestDownloaded_FileChangedOrRemoved(t *testing.T) {
	dir := t.TempDir()
	video := writeFile(t, dir, "clip.mp4", "abc")

	m, err := NewManager(filepath.Join(dir, "history.json"), "f")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := m.Record("id1", "clip.mp4", video); err != nil {
		t.Fatalf("Record: %v", err)
	}

	writeFile(t, dir, "clip.mp4", "abcdef")
	if _, ok := m.Downloaded("id1"); ok {
		t.Error("size change should invalidate the entry")
	}

	os.Remove(video)
	if _, ok := m.Downloaded("id1"); ok {
		t.Error("missing file should invalidate the entry")
	}
}

func TestForgetAndAll(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(filepath.Join(dir, "history.json"), "f")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	for _, id := range []string{"a", "b"} {
		if _, err := m.Record(id, id, writeFile(t, dir, id, id)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if n := len(m.All()); n != 2 {
		t.Fatalf("All = %d entries", n)
	}
	if !m.Forget("a") || m.Forget("a") {
		t.Error("Forget should succeed once")
	}
	if all := m.All(); len(all) != 1 || all[0].ID != "b" {
		t.Errorf("All = %+v", all)
	}
}

func TestNewManager_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "history.json", "{not json")
	if _, err := NewManager(p, "f"); err == nil {
		t.Fatal("expected error for corrupt history")
	}
}

func TestRecord_NullDownloadsInFile(t *testing.T) {
	dir := t.TempDir()
	dataPath := writeFile(t, dir, "history.json", `{"folders":{"f":{"folder_id":"f","downloads":null},"g":null}}`)
	video := writeFile(t, dir, "clip.mp4", "video bytes")

	m, err := NewManager(dataPath, "f")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := m.Record("id1", "clip.mp4", video); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, ok := m.Downloaded("id1"); !ok {
		t.Fatal("expected id1 to be recorded")
	}
	if err := m.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	other, err := NewManager(dataPath, "g")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := other.Record("id2", "clip.mp4", video); err != nil {
		t.Fatalf("Record into a null folder entry: %v", err)
	}
}
