package repl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	if h.maxSize != DefaultHistorySize {
		t.Errorf("maxSize = %d, want %d", h.maxSize, DefaultHistorySize)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d, want 0", h.Len())
	}
	if err := h.Save(); err != nil {
		t.Errorf("Save() without file error = %v", err)
	}
	if err := h.Load(); err != nil {
		t.Errorf("Load() without file error = %v", err)
	}
}

func TestHistory_AddAndGet(t *testing.T) {
	h := NewHistory()
	h.Add("cmd1")
	h.Add("cmd2")
	h.Add("cmd2")
	h.Add("cmd3")

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (consecutive duplicates collapsed)", h.Len())
	}
	if h.Get(0) != "cmd3" || h.Get(2) != "cmd1" {
		t.Errorf("Get(0)=%q Get(2)=%q", h.Get(0), h.Get(2))
	}
	if h.Get(-1) != "" || h.Get(3) != "" {
		t.Error("out of range Get should return empty string")
	}
}

func TestHistory_Add_MaxSize(t *testing.T) {
	h := NewHistory()
	h.maxSize = 3

	for _, c := range []string{"cmd1", "cmd2", "cmd3", "cmd4"} {
		h.Add(c)
	}

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want 3", h.Len())
	}
	if h.Get(2) != "cmd2" {
		t.Errorf("oldest entry = %q, want cmd2", h.Get(2))
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history")

	h := NewFileHistory(path)
	h.Add("SET k v")
	h.Add("GET k")
	if err := h.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("history mode = %v, want 0600", info.Mode().Perm())
	}

	loaded := NewFileHistory(path)
	if err := loaded.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 2 || loaded.Get(0) != "GET k" {
		t.Errorf("loaded entries: len=%d latest=%q", loaded.Len(), loaded.Get(0))
	}
}

func TestHistory_LoadMissingFile(t *testing.T) {
	h := NewFileHistory(filepath.Join(t.TempDir(), "none"))
	if err := h.Load(); err != nil {
		t.Errorf("Load() on missing file error = %v", err)
	}
}

func TestDefaultHistoryPath(t *testing.T) {
	if p := DefaultHistoryPath(); !strings.HasSuffix(p, filepath.Join(".respkv", "history")) {
		t.Errorf("DefaultHistoryPath() = %q", p)
	}
}
