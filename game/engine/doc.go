// Package engine holds the local state of a cooperative word-search puzzle.
//
// The engine package implements:
//   - Letter selection along adjacent cells
//   - Classification of a finished selection (theme word, spangram, word)
//   - The hint budget: every three non-theme words earn one hint
//   - The snapshot a host replicates to peers that join late
//
// Core Types:
//
// The Engine interface is the local-play contract, implemented by Progress.
// Progress also carries the callbacks the multiplayer client drives, so a
// peer's touches, found words and hints land in the same state as local
// play does.
//
// Usage:
//
//	progress := engine.NewProgress(nil) // default board
//	progress.OnChange(func(s board.Snapshot) {
//		hub.BroadcastSnapshot(roomID, s)
//	})
//
//	progress.Touch(0, 0)
//	progress.Touch(1, 0)
//	guess := progress.EndSelection()
//
// Coordinates:
//
// Touch takes x (column) and y (row), as the wire GUESS line does. Stored
// selections and snapshots use board.Coord, which is row first.
//
// Concurrency:
//
// Progress is safe for concurrent use. OnChange subscribers are called
// after the lock is released.
package engine
