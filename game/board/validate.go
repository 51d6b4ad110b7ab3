package board

import (
	"fmt"
	"strings"
)

// Validate checks a document for structural correctness: a non-empty
// rectangular grid, theme coordinates inside it spelling their word, and a
// spangram listed among the solutions. It does not check solvability.
func Validate(d *Document) error {
	if d == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}
	if d.PrintDate == "" {
		return fmt.Errorf("%w: printDate is required", ErrInvalidDocument)
	}
	if len(d.StartingBoard) == 0 {
		return fmt.Errorf("%w: startingBoard is empty", ErrInvalidDocument)
	}

	width := len(d.StartingBoard[0])
	if width == 0 {
		return fmt.Errorf("%w: row 1 is empty", ErrInvalidDocument)
	}
	for i, row := range d.StartingBoard {
		if len(row) != width {
			return fmt.Errorf("%w: row %d must have %d letters, got %d", ErrInvalidDocument, i+1, width, len(row))
		}
	}

	if d.Spangram == "" {
		return fmt.Errorf("%w: spangram is required", ErrInvalidDocument)
	}
	found := false
	for _, s := range d.Solutions {
		if strings.EqualFold(s, d.Spangram) {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: spangram %q is not listed in solutions", ErrInvalidDocument, d.Spangram)
	}

	for word, coords := range d.ThemeCoords {
		if len(coords) != len(word) {
			return fmt.Errorf("%w: theme word %q has %d coordinates", ErrInvalidDocument, word, len(coords))
		}
		for i, c := range coords {
			letter := d.Letter(c)
			if letter == 0 {
				return fmt.Errorf("%w: theme word %q coordinate %s is out of bounds", ErrInvalidDocument, word, c)
			}
			if !strings.EqualFold(string(letter), string(word[i])) {
				return fmt.Errorf("%w: theme word %q expects %q at %s, grid has %q",
					ErrInvalidDocument, word, word[i], c, letter)
			}
		}
	}
	return nil
}
