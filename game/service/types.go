package service

import (
	"github.com/wricardo/strands-coop/game/board"
	"github.com/wricardo/strands-coop/game/engine"
	"github.com/wricardo/strands-coop/game/session"
)

// SessionInfo describes the participant's connection to the server.
type SessionInfo struct {
	LoggedIn bool         `json:"logged_in"`
	Session  session.View `json:"session"`
}

// RoomResult is the outcome of a room command. Accepted is false when the
// server refused it; the room fields then describe where the participant
// ended up.
type RoomResult struct {
	Accepted bool         `json:"accepted"`
	RoomID   string       `json:"room_id,omitempty"`
	Message  string       `json:"message"`
	Session  session.View `json:"session"`
}

// GameState is the full local view: membership, puzzle status and the
// progress a host would replicate.
type GameState struct {
	Session  session.View   `json:"session"`
	Status   engine.Status  `json:"status"`
	Snapshot board.Snapshot `json:"snapshot"`
}

// GuessResult is the outcome of ending a selection.
type GuessResult struct {
	Guess     engine.Guess `json:"guess"`
	Relayed   bool         `json:"relayed"`
	GameState *GameState   `json:"game_state"`
}

// HintResult reports the theme word a hint revealed.
type HintResult struct {
	Word      string     `json:"word"`
	Relayed   bool       `json:"relayed"`
	GameState *GameState `json:"game_state"`
}

// BoardResult is the outcome of loading or downloading a board.
type BoardResult struct {
	BoardID   string     `json:"board_id"`
	PrintDate string     `json:"print_date"`
	Clue      string     `json:"clue"`
	Credits   string     `json:"credits"`
	Published bool       `json:"published"`
	GameState *GameState `json:"game_state"`
}
