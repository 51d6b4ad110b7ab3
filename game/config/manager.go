package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/strands-coop/game/board"
)

var (
	ErrBoardNotFound = errors.New("board not found")
	ErrInvalidBoard  = errors.New("invalid board")
)

// BoardInfo describes one board file.
type BoardInfo struct {
	Filename  string `json:"filename"`
	BoardID   string `json:"board_id"`
	PrintDate string `json:"print_date"`
	Clue      string `json:"clue"`
	Credits   string `json:"credits"`
}

// Manager loads and caches board documents from a directory.
type Manager struct {
	boardDir     string
	defaultBoard *board.Document
	boards       map[string]*board.Document
	mu           sync.RWMutex
}

// NewManager creates a board library over boardDir.
func NewManager(boardDir string) (*Manager, error) {
	if info, err := os.Stat(boardDir); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("board path is not a directory: %s", boardDir)
	}

	m := &Manager{
		boardDir: boardDir,
		boards:   make(map[string]*board.Document),
	}
	m.loadDefaultBoard()
	return m, nil
}

// Dir returns the library directory.
func (m *Manager) Dir() string {
	return m.boardDir
}

// LoadBoard loads a board by id.
func (m *Manager) LoadBoard(name string) (*board.Document, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, ErrBoardNotFound
	}

	m.mu.RLock()
	if doc, exists := m.boards[name]; exists {
		m.mu.RUnlock()
		return doc, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if doc, exists := m.boards[name]; exists {
		return doc, nil
	}

	data, err := os.ReadFile(filepath.Join(m.boardDir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}

	doc, err := board.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}
	if err := board.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}

	m.boards[name] = doc
	return doc, nil
}

// ListBoards describes every valid board in the library, in name order.
// Invalid files are skipped.
func (m *Manager) ListBoards() ([]*BoardInfo, error) {
	entries, err := os.ReadDir(m.boardDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read board directory: %w", err)
	}

	var boards []*BoardInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		doc, err := m.LoadBoard(name)
		if err != nil {
			continue
		}

		boards = append(boards, &BoardInfo{
			Filename:  entry.Name(),
			BoardID:   name,
			PrintDate: doc.PrintDate,
			Clue:      doc.Clue,
			Credits:   doc.Credits(),
		})
	}
	sort.Slice(boards, func(i, j int) bool { return boards[i].BoardID < boards[j].BoardID })
	return boards, nil
}

// GetDefault returns the default board. It is never nil.
func (m *Manager) GetDefault() *board.Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultBoard
}

// SetDefault makes the named board the default.
func (m *Manager) SetDefault(name string) error {
	doc, err := m.LoadBoard(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultBoard = doc
	return nil
}

// RefreshCache drops cached boards and picks the default again.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.boards = make(map[string]*board.Document)
	m.mu.Unlock()

	m.loadDefaultBoard()
}

func (m *Manager) loadDefaultBoard() {
	doc, err := m.LoadBoard("default")
	if err != nil {
		boards, listErr := m.ListBoards()
		if listErr == nil && len(boards) > 0 {
			doc, err = m.LoadBoard(boards[0].BoardID)
		}
	}
	if err != nil || doc == nil {
		doc = board.Default()
	}

	m.mu.Lock()
	m.defaultBoard = doc
	m.mu.Unlock()
}

// SaveBoard validates a raw board document and stores it under name.
func (m *Manager) SaveBoard(name string, data []byte) (*board.Document, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, fmt.Errorf("%w: bad board name %q", ErrInvalidBoard, name)
	}

	doc, err := board.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}
	if err := board.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}

	if err := os.MkdirAll(m.boardDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create board directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(m.boardDir, name+".json"), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write board file: %w", err)
	}

	m.mu.Lock()
	m.boards[name] = doc
	m.mu.Unlock()

	return doc, nil
}
