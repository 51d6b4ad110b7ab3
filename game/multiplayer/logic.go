package multiplayer

import (
	"log/slog"

	"github.com/wricardo/strands-coop/game/board"
)

// GameLogic is the puzzle side of the client: rendering, selection and word
// checking live behind it. Callbacks are never invoked while the client
// holds its lock, so implementations may call back into the Client.
type GameLogic interface {
	// OnLetterTouched reports a peer touching the letter at column x, row y.
	OnLetterTouched(x, y int)
	OnSelectionEnded()
	OnHintUsed()
	OnHostPromoted()
	OnPeerJoined(id string)
	OnPeerLeft(id string)
	OnThemeWordRevealed(word string)
	OnSpangramRevealed(coords []board.Coord)
	OnHintBudgetChanged(n int)
	OnCatalogEntry(s board.Summary)
	OnBoardReady(doc *board.Document)

	// ProduceSnapshot is called only on the host, when a peer asks to
	// catch up.
	ProduceSnapshot() board.Snapshot

	// LocalBoard is the document the host publishes when its room has
	// none yet.
	LocalBoard() string
}

// Notifier receives user-facing notices. Keys are stable identifiers such as
// "failedJoin"; messages are human readable.
type Notifier interface {
	Error(key, msg string)
	Info(key, msg string)
}

// Recorder counts wire traffic.
type Recorder interface {
	Inbound(tag string)
	Outbound(tag string)
	Dropped(reason string)
	LinkLost()
}

type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) Error(key, msg string) {
	n.logger.Warn(msg, "notice", key)
}

func (n logNotifier) Info(key, msg string) {
	n.logger.Info(msg, "notice", key)
}

type nopRecorder struct{}

func (nopRecorder) Inbound(string)  {}
func (nopRecorder) Outbound(string) {}
func (nopRecorder) Dropped(string)  {}
func (nopRecorder) LinkLost()       {}
