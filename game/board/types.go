package board

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	// DefaultWordsToHint is the number of non-theme words a player must
	// find before a hint becomes available.
	DefaultWordsToHint = 3
)

var ErrInvalidDocument = errors.New("invalid board document")

// Coord is a single letter position on the grid.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.Row, c.Col)
}

// Document is a puzzle definition as served by the catalog.
type Document struct {
	PrintDate     string             `json:"printDate"`
	ID            int                `json:"id"`
	Editor        string             `json:"editor"`
	Constructors  string             `json:"constructors"`
	Spangram      string             `json:"spangram"`
	Clue          string             `json:"clue"`
	StartingBoard []string           `json:"startingBoard"`
	Solutions     []string           `json:"solutions"`
	ThemeCoords   map[string][]Coord `json:"themeCoords"`
}

// Credits returns the editor, followed by the constructors when they differ.
func (d *Document) Credits() string {
	if d.Editor == d.Constructors || d.Constructors == "" {
		return d.Editor
	}
	return d.Editor + ", " + d.Constructors
}

// Rows returns the grid height.
func (d *Document) Rows() int {
	return len(d.StartingBoard)
}

// Cols returns the grid width, or 0 for an empty grid.
func (d *Document) Cols() int {
	if len(d.StartingBoard) == 0 {
		return 0
	}
	return len(d.StartingBoard[0])
}

// Letter returns the letter at c, or 0 if c is out of bounds.
func (d *Document) Letter(c Coord) byte {
	if c.Row < 0 || c.Row >= d.Rows() || c.Col < 0 || c.Col >= len(d.StartingBoard[c.Row]) {
		return 0
	}
	return d.StartingBoard[c.Row][c.Col]
}

// Parse decodes a board document. Theme coordinates are stored as
// [row, col] pairs in the JSON form.
func Parse(data []byte) (*Document, error) {
	var raw struct {
		Document
		ThemeCoords map[string][][2]int `json:"themeCoords"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	doc := raw.Document
	doc.ThemeCoords = make(map[string][]Coord, len(raw.ThemeCoords))
	for word, pairs := range raw.ThemeCoords {
		coords := make([]Coord, 0, len(pairs))
		for _, p := range pairs {
			coords = append(coords, Coord{Row: p[0], Col: p[1]})
		}
		doc.ThemeCoords[word] = coords
	}
	return &doc, nil
}

// Marshal encodes a document back into its catalog JSON form.
func Marshal(d *Document) ([]byte, error) {
	type plain Document
	out := struct {
		plain
		ThemeCoords map[string][][2]int `json:"themeCoords"`
	}{plain: plain(*d)}
	out.ThemeCoords = make(map[string][][2]int, len(d.ThemeCoords))
	for word, coords := range d.ThemeCoords {
		pairs := make([][2]int, 0, len(coords))
		for _, c := range coords {
			pairs = append(pairs, [2]int{c.Row, c.Col})
		}
		out.ThemeCoords[word] = pairs
	}
	return json.Marshal(out)
}

// Summary is one catalog listing entry.
type Summary struct {
	Date   string `json:"date"`
	Clue   string `json:"clue"`
	Editor string `json:"editor"`
}

// Snapshot is the unit of progress replicated from a host to a joining peer.
// It is never sent as one message; see the multiplayer package.
type Snapshot struct {
	ThemeWordsFound []string `json:"theme_words_found"`
	SpangramFound   bool     `json:"spangram_found"`
	SpangramCoords  []Coord  `json:"spangram_coords,omitempty"`
	CurrentGuess    []Coord  `json:"current_guess,omitempty"`
	WordsToHint     int      `json:"words_to_hint"`
}
