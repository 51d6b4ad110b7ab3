package service

import (
	"context"

	"github.com/wricardo/strands-coop/game/board"
	"github.com/wricardo/strands-coop/game/config"
	"github.com/wricardo/strands-coop/game/multiplayer"
	"github.com/wricardo/strands-coop/game/session"
)

// MultiplayerService defines every operation the local API exposes. Each
// call blocks until the server answers, ctx ends, or the request timeout
// passes.
type MultiplayerService interface {
	// Identity
	GetSession(ctx context.Context) (*SessionInfo, error)
	Login(ctx context.Context, fresh bool) (*SessionInfo, error)
	Reconnect(ctx context.Context) (*SessionInfo, error)

	// Rooms
	ListRooms(ctx context.Context) ([]multiplayer.RoomDescriptor, error)
	CreateRoom(ctx context.Context, name, password string) (*RoomResult, error)
	JoinRoom(ctx context.Context, roomID, password string) (*RoomResult, error)
	LeaveRoom(ctx context.Context) (*RoomResult, error)

	// Play
	GetGameState(ctx context.Context) (*GameState, error)
	Touch(ctx context.Context, x, y int) (*GameState, error)
	EndSelection(ctx context.Context) (*GuessResult, error)
	UseHint(ctx context.Context) (*HintResult, error)

	// Boards
	ListCatalog(ctx context.Context) ([]board.Summary, error)
	DownloadBoard(ctx context.Context, date string) (*BoardResult, error)
	ListBoards(ctx context.Context) ([]*config.BoardInfo, error)
	LoadBoard(ctx context.Context, name string) (*BoardResult, error)
}

// Multiplayer is the part of the multiplayer client the service drives.
// *multiplayer.Client implements it.
type Multiplayer interface {
	Connect(ctx context.Context) error
	State() session.View
	Identity() session.Identity

	Login(cached session.Identity) *multiplayer.Request[session.Identity]
	LoginCached() *multiplayer.Request[session.Identity]

	ListRooms() *multiplayer.Request[[]multiplayer.RoomDescriptor]
	CreateRoom(name, password string) *multiplayer.Request[string]
	JoinRoom(roomID, password string) *multiplayer.Request[bool]
	LeaveRoom() *multiplayer.Request[bool]

	PublishBoard(document string) *multiplayer.Request[bool]
	DownloadBoard(date string) *multiplayer.Request[string]
	ListCatalog() *multiplayer.Request[[]board.Summary]

	Guess(x, y int) error
	EndSelection() error
	UseHint() error
}

// BoardLibrary handles local board files. *config.Manager implements it.
type BoardLibrary interface {
	LoadBoard(name string) (*board.Document, error)
	ListBoards() ([]*config.BoardInfo, error)
	GetDefault() *board.Document
	SaveBoard(name string, data []byte) (*board.Document, error)
}
