package state

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestNewState(t *testing.T) {
	s := NewState()

	if s.Pages == nil {
		t.Error("Pages map should be initialized")
	}
	if len(s.Pages) != 0 {
		t.Error("Pages map should be empty")
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "state.json")

	state := NewState()
	state.Pages["content/index.md"] = &PageState{
		MTime: 123456789,
		Hash:  "sha256:abc123",
		Dest:  "public/index.html",
		Title: "Home",
	}
	state.TemplateHash = "sha256:tmpl"
	state.BuildID = "build-1"
	state.BuiltAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	if err := state.Save(statePath); err != nil {
		t.Fatalf("Failed to save state: %v", err)
	}

	loaded, err := Load(statePath)
	if err != nil {
		t.Fatalf("Failed to load state: %v", err)
	}

	if len(loaded.Pages) != 1 {
		t.Errorf("Expected 1 page, got %d", len(loaded.Pages))
	}

	page := loaded.Pages["content/index.md"]
	if page == nil {
		t.Fatal("Page state not found")
	}
	if page.MTime != 123456789 {
		t.Errorf("MTime mismatch: got %d, want 123456789", page.MTime)
	}
	if page.Hash != "sha256:abc123" {
		t.Errorf("Hash mismatch: got %s, want sha256:abc123", page.Hash)
	}
	if page.Dest != "public/index.html" {
		t.Errorf("Dest mismatch: got %s, want public/index.html", page.Dest)
	}
	if page.Title != "Home" {
		t.Errorf("Title mismatch: got %s, want Home", page.Title)
	}
	if loaded.TemplateHash != "sha256:tmpl" {
		t.Errorf("TemplateHash mismatch: got %s", loaded.TemplateHash)
	}
	if loaded.BuildID != "build-1" {
		t.Errorf("BuildID mismatch: got %s", loaded.BuildID)
	}
	if !loaded.BuiltAt.Equal(state.BuiltAt) {
		t.Errorf("BuiltAt mismatch: got %v", loaded.BuiltAt)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "nonexistent.json")

	// Should return empty state, not error
	state, err := Load(statePath)
	if err != nil {
		t.Fatalf("Load should not error on missing file: %v", err)
	}

	if state == nil {
		t.Fatal("State should not be nil")
	}
	if len(state.Pages) != 0 {
		t.Error("State should be empty")
	}
}

func TestLoadCorrupt(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(statePath, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write state: %v", err)
	}

	if _, err := Load(statePath); err == nil {
		t.Error("Expected error for corrupt state file")
	}
}

func TestComputeHash(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.md")

	if err := os.WriteFile(testFile, []byte("# Hello, World!"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	hash, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("ComputeHash failed: %v", err)
	}
	if hash[:7] != "sha256:" {
		t.Errorf("Hash should start with 'sha256:', got: %s", hash)
	}

	hash2, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("Second ComputeHash failed: %v", err)
	}
	if hash != hash2 {
		t.Error("Hash should be deterministic")
	}

	if err := os.WriteFile(testFile, []byte("Different content"), 0644); err != nil {
		t.Fatalf("Failed to update test file: %v", err)
	}
	hash3, err := ComputeHash(testFile)
	if err != nil {
		t.Fatalf("Third ComputeHash failed: %v", err)
	}
	if hash == hash3 {
		t.Error("Hash should change when content changes")
	}
}

func TestHasChanged(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.md")

	if err := os.WriteFile(testFile, []byte("Initial content"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	base := time.Now().Add(-time.Hour)
	if err := os.Chtimes(testFile, base, base); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	state := NewState()

	// New file - should be changed
	changed, err := state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if !changed {
		t.Error("New file should be marked as changed")
	}

	if err := state.Update(testFile, "public/test.html", "Test"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed: %v", err)
	}
	if changed {
		t.Error("Unchanged file should not be marked as changed")
	}

	// Touch file (change mtime but not content)
	touched := base.Add(10 * time.Minute)
	if err := os.Chtimes(testFile, touched, touched); err != nil {
		t.Fatalf("Failed to touch file: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed after touch: %v", err)
	}
	if changed {
		t.Error("File with only mtime change should not be marked as changed")
	}

	// Actually change content
	if err := os.WriteFile(testFile, []byte("New content"), 0644); err != nil {
		t.Fatalf("Failed to update file: %v", err)
	}
	modified := base.Add(20 * time.Minute)
	if err := os.Chtimes(testFile, modified, modified); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	changed, err = state.HasChanged(testFile)
	if err != nil {
		t.Fatalf("HasChanged failed after content change: %v", err)
	}
	if !changed {
		t.Error("File with content change should be marked as changed")
	}
}

func TestHasChangedMissingFile(t *testing.T) {
	state := NewState()
	if _, err := state.HasChanged(filepath.Join(t.TempDir(), "gone.md")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestTemplateChanged(t *testing.T) {
	tmpl := filepath.Join(t.TempDir(), "template.html")
	if err := os.WriteFile(tmpl, []byte("{{ Content }}"), 0644); err != nil {
		t.Fatalf("Failed to write template: %v", err)
	}

	state := NewState()
	changed, err := state.TemplateChanged(tmpl)
	if err != nil {
		t.Fatalf("TemplateChanged failed: %v", err)
	}
	if !changed {
		t.Error("Unrecorded template should be marked as changed")
	}

	if err := state.SetTemplate(tmpl); err != nil {
		t.Fatalf("SetTemplate failed: %v", err)
	}
	changed, err = state.TemplateChanged(tmpl)
	if err != nil {
		t.Fatalf("TemplateChanged failed: %v", err)
	}
	if changed {
		t.Error("Recorded template should not be marked as changed")
	}
}

func TestUpdateAndForget(t *testing.T) {
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.md")

	if err := os.WriteFile(testFile, []byte("# Test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	state := NewState()
	if err := state.Update(testFile, "public/test.html", "Test"); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	page := state.Pages[testFile]
	if page == nil {
		t.Fatal("Page state not found after update")
	}
	if page.MTime == 0 {
		t.Error("MTime should be set")
	}
	if page.Hash == "" {
		t.Error("Hash should be set")
	}
	if page.Dest != "public/test.html" {
		t.Errorf("Dest mismatch: got %s", page.Dest)
	}

	state.Forget(testFile)
	if _, ok := state.Pages[testFile]; ok {
		t.Error("Page should be removed after Forget")
	}
}

func TestSources(t *testing.T) {
	state := NewState()
	state.Pages["b.md"] = &PageState{}
	state.Pages["a.md"] = &PageState{}
	state.Pages["c/d.md"] = &PageState{}

	expected := []string{"a.md", "b.md", "c/d.md"}
	if actual := state.Sources(); !reflect.DeepEqual(actual, expected) {
		t.Errorf("Sources() = %v, want %v", actual, expected)
	}
}

func TestGetMTime(t *testing.T) {
	state := NewState()

	mtime := state.GetMTime("nonexistent.md")
	if !mtime.IsZero() {
		t.Error("MTime for non-existent file should be zero")
	}

	state.Pages["test.md"] = &PageState{
		MTime: 1234567890,
		Hash:  "sha256:test",
	}

	mtime = state.GetMTime("test.md")
	if mtime.Unix() != 1234567890 {
		t.Errorf("MTime mismatch: got %d, want 1234567890", mtime.Unix())
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	statePath := filepath.Join(tmpDir, "nested", "dir", "state.json")

	state := NewState()
	state.Pages["test.md"] = &PageState{
		MTime: 123,
		Hash:  "sha256:test",
	}

	if err := state.Save(statePath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(statePath); os.IsNotExist(err) {
		t.Error("State file was not created")
	}
}
