// Package multiplayer is the client engine of the cooperative puzzle.
//
// A Client speaks the line protocol of package wire over a Link, keeps the
// participant's session (identity, room, host flag) and the room directory,
// matches replies to the commands that asked for them, and turns everything
// else the server sends into GameLogic callbacks.
//
// Replies:
//
// The protocol has no request ids. Some replies are named (HELLO, NEWROOM,
// BOARD) and some are shared by several commands (COOL, NO, END, INVALID).
// Each command method arms the reply tags it can be answered with and
// returns a *Request completion handle. While a tag is armed, any other
// command that would arm it is refused with ErrRequestPending and nothing
// is sent, so a reply can never be credited to the wrong command. The first
// matching reply completes the request and disarms all of its tags. A lost
// link fails every pending request with ErrLinkLost.
//
//	COOL      join, leave, publish board
//	NO        join, publish board, fetch board, download board
//	INVALID   resume identity, create room, join, leave, publish, fetch
//	END       room listing, catalog listing
//	BOARD     fetch board, download board
//
// Refusals by the server complete with a false or empty value and a nil
// error. Errors are kept for local failures: no identity, a busy reply
// slot, a dead link.
//
// Room lifecycle:
//
// Login resumes a cached identity and silently falls back to a new one if
// the server rejects it. CreateRoom joins the new room and becomes host
// only after the join succeeds. JoinRoom drops the previous room before
// sending, so a refused join leaves the client in no room. LeaveRoom clears
// the room once the server acknowledges. Room commands issued outside a
// room send nothing.
//
// Board sync:
//
// After a successful join the client fetches the room board. A guest
// parses it, hands it to GameLogic.OnBoardReady and asks the host for its
// progress with GETSTATE. A host whose room has no board yet publishes
// GameLogic.LocalBoard.
//
// The server turns GETSTATE into HOSTSTATE on the host, which answers with
// independent forwarded lines: TWORD per found theme word, SPANGRAM if
// found, CURRENTGUESS if a selection is in progress, and WORDSTOHINT. They
// are not atomic; live moves may interleave with them and the guest applies
// each as it arrives. CURRENTGUESS is replayed one letter at a time,
// WithReplayStep apart, in the order sent.
//
// Usage:
//
//	link := websocket.NewLink(websocket.LinkConfig{URL: url})
//	client := multiplayer.New(link, progress,
//		multiplayer.WithLogger(logger),
//		multiplayer.WithIdentityStore(session.NewFilePersistence("identity.json")),
//	)
//	if err := client.Connect(ctx); err != nil {
//		return err
//	}
//	if _, err := client.LoginCached().Wait(ctx); err != nil {
//		return err
//	}
//	roomID, err := client.CreateRoom("Alpha", "").Wait(ctx)
//
// Concurrency:
//
// All methods are safe for concurrent use. GameLogic and Notifier
// callbacks run on the link's read goroutine (or a replay timer) without
// the client lock held. Never block a callback on a Request: its reply is
// delivered on the same goroutine.
package multiplayer
