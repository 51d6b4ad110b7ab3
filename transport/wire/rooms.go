package wire

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wricardo/strands-coop/game/board"
)

// RoomEntry is one decoded ROOM line.
type RoomEntry struct {
	ID          string
	Occupants   int
	Name        string
	HasPassword bool
}

// ParseRoom decodes "ROOM roomId count encName [PASSWORD]". Servers that
// predate room names send only the id and count.
func ParseRoom(ev Event) (RoomEntry, error) {
	if ev.Tag != TagRoom || len(ev.Args) < 2 {
		return RoomEntry{}, fmt.Errorf("%w: %q", ErrMalformed, ev.Raw)
	}
	count, err := strconv.Atoi(ev.Args[1])
	if err != nil {
		return RoomEntry{}, fmt.Errorf("%w: occupant count %q", ErrMalformed, ev.Args[1])
	}
	entry := RoomEntry{ID: ev.Args[0], Occupants: count}
	if len(ev.Args) < 3 {
		return entry, nil
	}
	name, flag, _ := strings.Cut(ev.Args[2], Separator)
	entry.HasPassword = strings.TrimSpace(flag) == PasswordFlag
	if entry.Name, err = DecodeOptionalText(name); err != nil {
		return RoomEntry{}, err
	}
	return entry, nil
}

// ParseSummary decodes "BOARDSUMMARY date encClue encEditor".
func ParseSummary(ev Event) (board.Summary, error) {
	if ev.Tag != TagBoardSummary || len(ev.Args) < 3 {
		return board.Summary{}, fmt.Errorf("%w: %q", ErrMalformed, ev.Raw)
	}
	clue, err := DecodeText(ev.Args[1])
	if err != nil {
		return board.Summary{}, err
	}
	editor, err := DecodeText(ev.Args[2])
	if err != nil {
		return board.Summary{}, err
	}
	return board.Summary{Date: ev.Args[0], Clue: clue, Editor: editor}, nil
}
