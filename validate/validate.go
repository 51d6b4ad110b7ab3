// Command validate checks board JSON files in a directory (default
// ../boards, or the first argument). Beyond the structural checks every
// board must pass to be loaded, it verifies that:
//   - every theme word, the spangram included, is a path of adjacent cells
//   - no cell belongs to two theme words
//   - every letter of the grid belongs to some theme word
//   - the spangram touches two opposite sides of the grid
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wricardo/strands-coop/game/board"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

func (r *ValidationResult) fail(format string, args ...interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// validateBoard loads and validates a single board file.
func validateBoard(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.fail("Failed to read file: %v", err)
		return result
	}

	doc, err := board.Parse(data)
	if err != nil {
		result.fail("Invalid JSON: %v", err)
		return result
	}
	if err := board.Validate(doc); err != nil {
		result.fail("%v", err)
		return result
	}

	words := make([]string, 0, len(doc.ThemeCoords))
	for word := range doc.ThemeCoords {
		words = append(words, word)
	}
	sort.Strings(words)

	pathResult := validatePaths(doc, words)
	if !pathResult.Valid {
		result.Valid = false
	}
	result.Errors = append(result.Errors, pathResult.Errors...)

	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Board: %d (%s)", doc.ID, doc.PrintDate))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Clue: %s", doc.Clue))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", doc.Rows(), doc.Cols()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Theme words: %d (spangram %s)", len(words), doc.Spangram))
		if credits := doc.Credits(); credits != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ By: %s", credits))
		}
	}

	return result
}

// validatePaths checks adjacency, overlap and coverage of the theme word
// paths, and that the spangram spans the grid.
func validatePaths(doc *board.Document, words []string) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	owner := make(map[board.Coord]string)
	for _, word := range words {
		coords := doc.ThemeCoords[word]
		for i, c := range coords {
			if i > 0 && !adjacent(coords[i-1], c) {
				result.fail("Theme word %s: %s does not touch %s", word, coords[i-1], c)
			}
			if prev, taken := owner[c]; taken {
				if prev == word {
					result.fail("Theme word %s uses %s twice", word, c)
				} else {
					result.fail("Cell %s is used by both %s and %s", c, prev, word)
				}
				continue
			}
			owner[c] = word
		}
	}

	// Non-letter cells are filler.
	letters, uncovered := 0, 0
	for row := 0; row < doc.Rows(); row++ {
		for col := 0; col < doc.Cols(); col++ {
			c := board.Coord{Row: row, Col: col}
			if !isLetter(doc.Letter(c)) {
				continue
			}
			letters++
			if _, ok := owner[c]; !ok {
				uncovered++
			}
		}
	}
	if uncovered > 0 {
		result.fail("%d of %d letters are not part of any theme word", uncovered, letters)
	}

	spangram := spangramCoords(doc)
	switch {
	case spangram == nil:
		result.fail("Spangram %s has no coordinates", doc.Spangram)
	case !spans(spangram, doc.Rows(), doc.Cols()):
		result.fail("Spangram %s does not touch two opposite sides", doc.Spangram)
	}

	return result
}

func spangramCoords(doc *board.Document) []board.Coord {
	for word, coords := range doc.ThemeCoords {
		if strings.EqualFold(word, doc.Spangram) {
			return coords
		}
	}
	return nil
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func adjacent(a, b board.Coord) bool {
	dr, dc := a.Row-b.Row, a.Col-b.Col
	return a != b && dr >= -1 && dr <= 1 && dc >= -1 && dc <= 1
}

// spans reports whether coords reach both the top and bottom rows, or both
// the left and right columns.
func spans(coords []board.Coord, rows, cols int) bool {
	var top, bottom, left, right bool
	for _, c := range coords {
		top = top || c.Row == 0
		bottom = bottom || c.Row == rows-1
		left = left || c.Col == 0
		right = right || c.Col == cols-1
	}
	return (top && bottom) || (left && right)
}

func main() {
	boardDir := "../boards"
	if len(os.Args) > 1 {
		boardDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(boardDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding board files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No board files in %s\n", boardDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateBoard(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All boards are valid!")
	} else {
		fmt.Println("❌ Some boards have errors")
		os.Exit(1)
	}
}
