package wire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wricardo/strands-coop/game/board"
)

// FormatCoords writes coordinates as "row,col" tokens.
func FormatCoords(coords []board.Coord) []string {
	out := make([]string, 0, len(coords))
	for _, c := range coords {
		out = append(out, c.String())
	}
	return out
}

// ParseCoords reads coordinates from decoded fields. The final field may
// hold several space separated pairs.
func ParseCoords(fields []string) ([]board.Coord, error) {
	tokens := strings.Fields(strings.Join(fields, Separator))
	coords := make([]board.Coord, 0, len(tokens))
	for _, tok := range tokens {
		row, col, ok := strings.Cut(tok, ",")
		if !ok {
			return nil, fmt.Errorf("%w: coordinate %q", ErrMalformed, tok)
		}
		r, err := strconv.Atoi(row)
		if err != nil {
			return nil, fmt.Errorf("%w: coordinate %q", ErrMalformed, tok)
		}
		c, err := strconv.Atoi(col)
		if err != nil {
			return nil, fmt.Errorf("%w: coordinate %q", ErrMalformed, tok)
		}
		coords = append(coords, board.Coord{Row: r, Col: c})
	}
	return coords, nil
}
