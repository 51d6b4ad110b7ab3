// Command analyze prints quick, human-readable heuristics about the boards in
// a board library directory (default "boards", or the first argument). It
// summarizes dimensions, theme word lengths, the spangram's direction and how
// many hints the non-theme solutions can earn.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wricardo/strands-coop/game/board"
	"github.com/wricardo/strands-coop/game/config"
)

// Analysis is the summary of one board.
type Analysis struct {
	Rows, Cols     int
	ThemeWords     int
	LongestWord    string
	AverageLength  float64
	Direction      string
	BonusWords     int
	HintsAvailable int
}

func main() {
	dir := "boards"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	manager, err := config.NewManager(dir)
	if err != nil {
		fmt.Printf("Error opening board library: %v\n", err)
		os.Exit(1)
	}
	boards, err := manager.ListBoards()
	if err != nil {
		fmt.Printf("Error listing boards: %v\n", err)
		os.Exit(1)
	}
	if len(boards) == 0 {
		fmt.Printf("No valid boards in %s\n", dir)
		return
	}

	for _, info := range boards {
		doc, err := manager.LoadBoard(info.BoardID)
		if err != nil {
			fmt.Printf("Error loading %s: %v\n", info.Filename, err)
			continue
		}
		fmt.Printf("\n=== Analyzing %s ===\n", info.Filename)
		printAnalysis(os.Stdout, doc, analyzeBoard(doc))
	}
}

func analyzeBoard(doc *board.Document) Analysis {
	a := Analysis{
		Rows:       doc.Rows(),
		Cols:       doc.Cols(),
		ThemeWords: len(doc.ThemeCoords),
		Direction:  "none",
	}

	total := 0
	for word := range doc.ThemeCoords {
		total += len(word)
		if len(word) > len(a.LongestWord) || (len(word) == len(a.LongestWord) && word < a.LongestWord) {
			a.LongestWord = word
		}
	}
	if a.ThemeWords > 0 {
		a.AverageLength = float64(total) / float64(a.ThemeWords)
	}

	for word, coords := range doc.ThemeCoords {
		if strings.EqualFold(word, doc.Spangram) {
			a.Direction = direction(coords, a.Rows, a.Cols)
		}
	}

	for _, s := range doc.Solutions {
		if _, theme := doc.ThemeCoords[strings.ToUpper(s)]; !theme && !strings.EqualFold(s, doc.Spangram) {
			a.BonusWords++
		}
	}
	a.HintsAvailable = a.BonusWords / board.DefaultWordsToHint

	return a
}

// direction names the sides the path connects.
func direction(coords []board.Coord, rows, cols int) string {
	var top, bottom, left, right bool
	for _, c := range coords {
		top = top || c.Row == 0
		bottom = bottom || c.Row == rows-1
		left = left || c.Col == 0
		right = right || c.Col == cols-1
	}
	switch {
	case top && bottom && left && right:
		return "both"
	case left && right:
		return "horizontal"
	case top && bottom:
		return "vertical"
	}
	return "none"
}

func printAnalysis(w io.Writer, doc *board.Document, a Analysis) {
	fmt.Fprintf(w, "Clue: %s\n", doc.Clue)
	fmt.Fprintf(w, "Date: %s\n", doc.PrintDate)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", a.Cols, a.Rows)
	fmt.Fprintf(w, "Theme Words: %d (longest %s, average %.1f letters)\n", a.ThemeWords, a.LongestWord, a.AverageLength)
	fmt.Fprintf(w, "Spangram: %s (%s)\n", doc.Spangram, a.Direction)
	fmt.Fprintf(w, "Bonus Words: %d\n", a.BonusWords)

	if a.Direction == "none" {
		fmt.Fprintf(w, "⚠️  WARNING: the spangram does not connect opposite sides\n")
	}
	if a.HintsAvailable == 0 {
		fmt.Fprintf(w, "⚠️  WARNING: no hint can be earned from bonus words\n")
	} else {
		fmt.Fprintf(w, "✅ Up to %d hints can be earned\n", a.HintsAvailable)
	}
}
