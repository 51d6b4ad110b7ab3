package multiplayer

import "errors"

var (
	ErrRequestPending = errors.New("a request waiting on the same reply is still pending")
	ErrLinkLost       = errors.New("link lost before the reply arrived")
	ErrNoIdentity     = errors.New("no identity, log in first")
	ErrNotHost        = errors.New("only the room host can do that")
	ErrBoardPublished = errors.New("room board already published")
)
