package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// withTempState points the package at a fresh directory for one test.
func withTempState(t *testing.T) string {
	t.Helper()
	originalPath := path
	originalCurrent := current
	t.Cleanup(func() {
		path = originalPath
		current = originalCurrent
	})
	dir := filepath.Join(t.TempDir(), ".config", "notehub")
	if err := InitWithDir(dir); err != nil {
		t.Fatalf("InitWithDir() failed: %v", err)
	}
	return dir
}

func TestInit(t *testing.T) {
	withTempState(t)
	if current == nil {
		t.Fatal("current state should be initialized")
	}
	if got := GetMarkdown(true); !got {
		t.Error("unset markdown should fall back to default")
	}
	if got := GetPerPage(12); got != 12 {
		t.Errorf("GetPerPage(12) = %d, want 12", got)
	}
}

func TestLoad_ExistingFile(t *testing.T) {
	dir := withTempState(t)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	data := []byte(`{"notes":{"markdown":false,"perPage":20}}`)
	if err := os.WriteFile(filepath.Join(dir, "state.json"), data, 0644); err != nil {
		t.Fatal(err)
	}
	if err := Load(); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if GetMarkdown(true) {
		t.Error("markdown should be false from file")
	}
	if got := GetPerPage(12); got != 20 {
		t.Errorf("GetPerPage = %d, want 20", got)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	dir := withTempState(t)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "state.json"), []byte(`{bad`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Load(); err == nil {
		t.Error("Load() should fail on invalid JSON")
	}
}

func TestSetters_Persist(t *testing.T) {
	dir := withTempState(t)

	if err := SetMarkdown(false); err != nil {
		t.Fatalf("SetMarkdown() failed: %v", err)
	}
	if err := SetPerPage(6); err != nil {
		t.Fatalf("SetPerPage() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "state.json"))
	if err != nil {
		t.Fatalf("state file not written: %v", err)
	}
	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatal(err)
	}
	if s.Notes.Markdown == nil || *s.Notes.Markdown {
		t.Errorf("markdown not persisted: %+v", s.Notes)
	}
	if s.Notes.PerPage != 6 {
		t.Errorf("perPage = %d, want 6", s.Notes.PerPage)
	}

	// Reload from disk
	if err := Load(); err != nil {
		t.Fatal(err)
	}
	if GetMarkdown(true) || GetPerPage(12) != 6 {
		t.Error("values lost after reload")
	}
}

func TestSave_BeforeInit(t *testing.T) {
	originalPath := path
	originalCurrent := current
	defer func() {
		path = originalPath
		current = originalCurrent
	}()
	path = ""
	current = nil
	if err := SetMarkdown(true); err != nil {
		t.Errorf("SetMarkdown before Init should not fail: %v", err)
	}
}

func TestConcurrentAccess(t *testing.T) {
	withTempState(t)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = SetPerPage(n + 1)
		}(i)
		go func() {
			defer wg.Done()
			_ = GetPerPage(12)
			_ = GetMarkdown(true)
		}()
	}
	wg.Wait()
}
