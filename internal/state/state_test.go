package state

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := Open(MemoryPath)
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestOpen_CreatesFileAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.db")

	m, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()

	var version int
	if err := m.DB().QueryRow(`SELECT version FROM schema_version`).Scan(&version); err != nil {
		t.Fatalf("schema_version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	m, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.SaveVolume(33); err != nil {
		t.Fatal(err)
	}
	m.Close()

	m, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()
	if v, ok, _ := m.GetVolume(); !ok || v != 33 {
		t.Errorf("GetVolume() after reopen = %d, %v", v, ok)
	}
}

func TestVolume(t *testing.T) {
	m := openTestManager(t)

	if _, ok, err := m.GetVolume(); err != nil || ok {
		t.Fatalf("GetVolume() on empty db: ok=%v err=%v", ok, err)
	}

	if err := m.SaveVolume(70); err != nil {
		t.Fatal(err)
	}
	if err := m.SaveVolume(45); err != nil {
		t.Fatal(err)
	}

	v, ok, err := m.GetVolume()
	if err != nil || !ok || v != 45 {
		t.Errorf("GetVolume() = %d, %v, %v; want 45, true, nil", v, ok, err)
	}
}

func TestLastSession(t *testing.T) {
	m := openTestManager(t)

	if _, ok, _ := m.GetLastSession(); ok {
		t.Fatal("GetLastSession() on empty db should report ok=false")
	}
	if err := m.SaveLastSession("/home/u/.local/share/wavedeck/session.txt"); err != nil {
		t.Fatal(err)
	}

	got, ok, err := m.GetLastSession()
	if err != nil || !ok || got != "/home/u/.local/share/wavedeck/session.txt" {
		t.Errorf("GetLastSession() = %q, %v, %v", got, ok, err)
	}
}

func TestPlayHistory(t *testing.T) {
	m := openTestManager(t)
	ctx := context.Background()
	_, err := m.DB().Exec(`INSERT INTO library_tracks (id, path, added_at) VALUES (7, '/m/a.mp3', 0)`)
	if err != nil {
		t.Fatal(err)
	}
	base := time.Unix(1_700_000_000, 0)

	entries := []PlayHistoryEntry{
		{TrackID: 7, Path: "/m/a.mp3", PlayedAt: base, SecondsPlayed: 120, PercentPlayed: 50,
			SessionID: "s1", Device: "box", OS: "linux/amd64", AppVersion: "1.0.0"},
		{Path: "/m/unknown.mp3", PlayedAt: base.Add(time.Minute), SecondsPlayed: 10, SessionID: "s1"},
	}
	for _, e := range entries {
		if err := m.AddPlayHistory(ctx, e); err != nil {
			t.Fatalf("AddPlayHistory: %v", err)
		}
	}

	got, err := m.RecentPlayHistory(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Path != "/m/unknown.mp3" || got[0].TrackID != 0 {
		t.Errorf("newest entry = %+v", got[0])
	}
	if got[1] != entries[0] {
		t.Errorf("oldest entry = %+v, want %+v", got[1], entries[0])
	}
}
