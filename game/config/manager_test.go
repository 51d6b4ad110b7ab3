package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/wricardo/strands-coop/game/board"
)

func boardJSON(date, clue string) string {
	return `{
	"printDate": "` + date + `",
	"id": 7,
	"editor": "Tracy Bennett",
	"constructors": "Juliana Tringali",
	"spangram": "CATS",
	"clue": "` + clue + `",
	"startingBoard": ["CATS", "DOGX"],
	"solutions": ["CATS", "DOG"],
	"themeCoords": {"DOG": [[1, 0], [1, 1], [1, 2]]}
}`
}

func writeBoardFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write board file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeBoardFile(t, dir, "default", boardJSON("2024-01-01", "Default"))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if got := manager.GetDefault().Clue; got != "Default" {
			t.Errorf("Expected default board clue 'Default', got %q", got)
		}
	})

	t.Run("missing directory is an empty library", func(t *testing.T) {
		manager, err := NewManager(filepath.Join(t.TempDir(), "absent"))
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if manager.GetDefault().PrintDate != board.Default().PrintDate {
			t.Error("Expected built-in default board")
		}
		boards, err := manager.ListBoards()
		if err != nil || len(boards) != 0 {
			t.Errorf("Expected empty library, got %v, %v", boards, err)
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "boards")
		if err := os.WriteFile(file, nil, 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := NewManager(file); err == nil {
			t.Error("Expected error when board path is a file")
		}
	})

	t.Run("first board becomes default without default file", func(t *testing.T) {
		dir := t.TempDir()
		writeBoardFile(t, dir, "2024-03-02", boardJSON("2024-03-02", "Second"))
		writeBoardFile(t, dir, "2024-03-01", boardJSON("2024-03-01", "First"))

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatal(err)
		}
		if got := manager.GetDefault().Clue; got != "First" {
			t.Errorf("Expected first board as default, got %q", got)
		}
	})
}

func TestManager_LoadBoard(t *testing.T) {
	dir := t.TempDir()
	writeBoardFile(t, dir, "2024-04-27", boardJSON("2024-04-27", "Felines"))
	writeBoardFile(t, dir, "broken", `{"printDate": "x"`)
	writeBoardFile(t, dir, "ragged", `{"printDate": "x", "spangram": "AB", "solutions": ["AB"], "startingBoard": ["AB", "C"]}`)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("load existing", func(t *testing.T) {
		doc, err := manager.LoadBoard("2024-04-27")
		if err != nil {
			t.Fatalf("Failed to load board: %v", err)
		}
		if doc.Clue != "Felines" {
			t.Errorf("Expected clue 'Felines', got %q", doc.Clue)
		}
	})

	t.Run("json suffix accepted", func(t *testing.T) {
		if _, err := manager.LoadBoard("2024-04-27.json"); err != nil {
			t.Errorf("Expected load with suffix to succeed, got %v", err)
		}
	})

	t.Run("cached", func(t *testing.T) {
		first, _ := manager.LoadBoard("2024-04-27")
		second, _ := manager.LoadBoard("2024-04-27")
		if first != second {
			t.Error("Expected the same cached document")
		}
	})

	tests := []struct {
		name    string
		board   string
		wantErr error
	}{
		{"not found", "nope", ErrBoardNotFound},
		{"path traversal", "../etc/passwd", ErrBoardNotFound},
		{"empty name", "", ErrBoardNotFound},
		{"malformed json", "broken", ErrInvalidBoard},
		{"fails validation", "ragged", ErrInvalidBoard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.LoadBoard(tt.board)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestManager_ListBoards(t *testing.T) {
	dir := t.TempDir()
	writeBoardFile(t, dir, "b", boardJSON("2024-02-02", "Bee"))
	writeBoardFile(t, dir, "a", boardJSON("2024-01-01", "Ay"))
	writeBoardFile(t, dir, "broken", `{`)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.json"), 0755); err != nil {
		t.Fatal(err)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	boards, err := manager.ListBoards()
	if err != nil {
		t.Fatalf("Failed to list boards: %v", err)
	}
	if len(boards) != 2 {
		t.Fatalf("Expected 2 boards, got %d", len(boards))
	}
	if boards[0].BoardID != "a" || boards[1].BoardID != "b" {
		t.Errorf("Expected name order, got %s, %s", boards[0].BoardID, boards[1].BoardID)
	}
	info := boards[0]
	if info.Filename != "a.json" || info.PrintDate != "2024-01-01" || info.Clue != "Ay" {
		t.Errorf("Unexpected board info: %+v", info)
	}
	if info.Credits != "Tracy Bennett, Juliana Tringali" {
		t.Errorf("Unexpected credits: %q", info.Credits)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	writeBoardFile(t, dir, "default", boardJSON("2024-01-01", "Default"))
	writeBoardFile(t, dir, "other", boardJSON("2024-01-02", "Other"))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := manager.SetDefault("other"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if got := manager.GetDefault().Clue; got != "Other" {
		t.Errorf("Expected 'Other' as default, got %q", got)
	}

	if err := manager.SetDefault("missing"); !errors.Is(err, ErrBoardNotFound) {
		t.Errorf("Expected ErrBoardNotFound, got %v", err)
	}
	if got := manager.GetDefault().Clue; got != "Other" {
		t.Errorf("Default changed after failed SetDefault: %q", got)
	}
}

func TestManager_RefreshCache(t *testing.T) {
	dir := t.TempDir()
	writeBoardFile(t, dir, "default", boardJSON("2024-01-01", "Before"))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	writeBoardFile(t, dir, "default", boardJSON("2024-01-01", "After"))
	if doc, _ := manager.LoadBoard("default"); doc.Clue != "Before" {
		t.Errorf("Expected cached board before refresh, got %q", doc.Clue)
	}

	manager.RefreshCache()

	if doc, _ := manager.LoadBoard("default"); doc.Clue != "After" {
		t.Errorf("Expected reloaded board after refresh, got %q", doc.Clue)
	}
	if got := manager.GetDefault().Clue; got != "After" {
		t.Errorf("Expected default refreshed, got %q", got)
	}
}

func TestManager_SaveBoard(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "boards")
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := manager.SaveBoard("2024-04-27", []byte(boardJSON("2024-04-27", "Felines")))
	if err != nil {
		t.Fatalf("SaveBoard failed: %v", err)
	}
	if doc.Clue != "Felines" {
		t.Errorf("Unexpected saved document: %+v", doc)
	}
	if _, err := os.Stat(filepath.Join(dir, "2024-04-27.json")); err != nil {
		t.Errorf("Expected board file on disk: %v", err)
	}

	loaded, err := manager.LoadBoard("2024-04-27")
	if err != nil || loaded != doc {
		t.Errorf("Expected saved board to be cached, got %v, %v", loaded, err)
	}

	t.Run("rejects invalid", func(t *testing.T) {
		_, err := manager.SaveBoard("bad", []byte(`{"printDate": ""}`))
		if !errors.Is(err, ErrInvalidBoard) {
			t.Errorf("Expected ErrInvalidBoard, got %v", err)
		}
		if _, statErr := os.Stat(filepath.Join(dir, "bad.json")); !os.IsNotExist(statErr) {
			t.Error("Invalid board should not be written")
		}
	})

	t.Run("rejects bad name", func(t *testing.T) {
		_, err := manager.SaveBoard("../escape", []byte(boardJSON("2024-04-27", "x")))
		if err == nil || !strings.Contains(err.Error(), "bad board name") {
			t.Errorf("Expected bad name error, got %v", err)
		}
	})
}

func TestManager_ConcurrentLoad(t *testing.T) {
	dir := t.TempDir()
	writeBoardFile(t, dir, "default", boardJSON("2024-01-01", "Default"))

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadBoard("default"); err != nil {
				t.Errorf("Concurrent load failed: %v", err)
			}
			manager.GetDefault()
		}()
	}
	wg.Wait()
}
