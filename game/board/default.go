package board

// Default returns the placeholder board shown before any puzzle is loaded.
func Default() *Document {
	return &Document{
		PrintDate:    "2024-05-24",
		ID:           -1,
		Editor:       "Harvey Tindall",
		Constructors: "Harvey Tindall",
		Spangram:     "ALRIGHTY",
		Clue:         "(Down)load a game below to start.",
		StartingBoard: []string{
			"THIS-Y",
			"ISNT-T",
			"AREALH",
			"BOARDG",
			"LOAD-I",
			"O-E--R",
			"<N---L",
			"OKAY?A",
		},
		Solutions: []string{
			"ALRIGHTY", "THIS", "ISNT", "REAL", "BOARD", "LOAD", "ONE",
			"OKAY", "BOAR", "EAR", "ALRIGHT", "LONE", "OK",
		},
		ThemeCoords: map[string][]Coord{
			"THIS":  {{0, 0}, {0, 1}, {0, 2}, {0, 3}},
			"ISNT":  {{1, 0}, {1, 1}, {1, 2}, {1, 3}},
			"REAL":  {{2, 1}, {2, 2}, {2, 3}, {2, 4}},
			"BOARD": {{3, 0}, {3, 1}, {3, 2}, {3, 3}, {3, 4}},
			"LOAD":  {{4, 0}, {4, 1}, {4, 2}, {4, 3}},
			"ONE":   {{5, 0}, {6, 1}, {5, 2}},
			"OKAY":  {{7, 0}, {7, 1}, {7, 2}, {7, 3}},
		},
	}
}
