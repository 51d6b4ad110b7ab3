package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wricardo/strands-coop/game/board"
)

func testDocument() *board.Document {
	return &board.Document{
		PrintDate:     "2024-03-04",
		Spangram:      "DOGS",
		Clue:          "Pets",
		StartingBoard: []string{"DOGS", "CATS"},
		Solutions:     []string{"DOGS", "CATS", "DOG", "CAT", "TAG", "GOD"},
		ThemeCoords: map[string][]board.Coord{
			"DOGS": {{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 0, Col: 3}},
			"CATS": {{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 1, Col: 3}},
		},
	}
}

func TestAnalyzeBoard(t *testing.T) {
	a := analyzeBoard(testDocument())

	if a.Rows != 2 || a.Cols != 4 {
		t.Errorf("Expected 2x4 grid, got %dx%d", a.Rows, a.Cols)
	}
	if a.ThemeWords != 2 {
		t.Errorf("Expected 2 theme words, got %d", a.ThemeWords)
	}
	if a.LongestWord != "CATS" {
		t.Errorf("Expected CATS as first longest word, got %s", a.LongestWord)
	}
	if a.AverageLength != 4 {
		t.Errorf("Expected average length 4, got %f", a.AverageLength)
	}
	if a.Direction != "horizontal" {
		t.Errorf("Expected horizontal spangram, got %s", a.Direction)
	}
	if a.BonusWords != 4 || a.HintsAvailable != 1 {
		t.Errorf("Expected 4 bonus words and 1 hint, got %d and %d", a.BonusWords, a.HintsAvailable)
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		name   string
		coords []board.Coord
		want   string
	}{
		{name: "horizontal", coords: []board.Coord{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}}, want: "horizontal"},
		{name: "vertical", coords: []board.Coord{{Row: 0, Col: 1}, {Row: 1, Col: 1}, {Row: 2, Col: 1}}, want: "vertical"},
		{name: "both", coords: []board.Coord{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}}, want: "both"},
		{name: "none", coords: []board.Coord{{Row: 0, Col: 0}, {Row: 1, Col: 1}}, want: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := direction(tt.coords, 3, 3); got != tt.want {
				t.Errorf("direction() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPrintAnalysisWarnings(t *testing.T) {
	doc := testDocument()
	doc.Solutions = []string{"DOGS", "CATS"}
	doc.ThemeCoords["DOGS"] = []board.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}}

	var buf bytes.Buffer
	printAnalysis(&buf, doc, analyzeBoard(doc))

	out := buf.String()
	if !strings.Contains(out, "does not connect opposite sides") {
		t.Errorf("Expected spangram warning in:\n%s", out)
	}
	if !strings.Contains(out, "no hint can be earned") {
		t.Errorf("Expected hint warning in:\n%s", out)
	}
}
