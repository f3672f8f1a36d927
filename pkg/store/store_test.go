package store

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

type record struct {
	ID    int    `json:"id"`
	Team1 string `json:"team1"`
	Team2 string `json:"team2"`
}

func TestLoadCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "matches.json")
	def := []record{}

	got := Load(path, def)
	if len(got) != 0 {
		t.Fatalf("expected default value, got %v", got)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to be created: %v", err)
	}
}

func TestLoadReturnsDefaultOnCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	def := []record{{ID: 7}}
	got := Load(path, def)
	if !reflect.DeepEqual(got, def) {
		t.Fatalf("expected default %v, got %v", def, got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	records := []record{
		{ID: 1, Team1: "<@123> Lions", Team2: "Tigers"},
		{ID: 2, Team1: "فريق الصقور", Team2: "Águilas & <@&456>"},
	}

	Save(path, records)
	got := Load(path, []record{})
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("round trip mismatch:\nsaved  %v\nloaded %v", records, got)
	}

	// Multi-byte text must survive on disk unescaped.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read saved file: %v", err)
	}
	if !strings.Contains(string(data), "فريق الصقور") {
		t.Fatalf("expected Arabic text to be preserved in file:\n%s", data)
	}
	if !strings.Contains(string(data), "&") {
		t.Fatalf("expected ampersand to be unescaped in file:\n%s", data)
	}
}

func TestFileUpdatePersistsOnlyWhenChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.json")
	file := NewFile(path, func() []record { return []record{} })

	file.Update(func(records []record) ([]record, bool) {
		return append(records, record{ID: 1}), true
	})
	if got := file.Load(); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("expected one persisted record, got %v", got)
	}

	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat data file: %v", err)
	}
	file.Update(func(records []record) ([]record, bool) {
		return nil, false
	})
	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat data file: %v", err)
	}
	if !after.ModTime().Equal(before.ModTime()) && after.Size() != before.Size() {
		t.Fatal("expected no write when fn reports no change")
	}
	if got := file.Load(); len(got) != 1 {
		t.Fatalf("expected record to survive a no-op update, got %v", got)
	}
}
