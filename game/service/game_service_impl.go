package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wricardo/strands-coop/game/board"
	"github.com/wricardo/strands-coop/game/config"
	"github.com/wricardo/strands-coop/game/engine"
	"github.com/wricardo/strands-coop/game/multiplayer"
	"github.com/wricardo/strands-coop/game/session"
)

// DefaultRequestTimeout bounds every wait on the server.
const DefaultRequestTimeout = 10 * time.Second

var (
	ErrRoomBoardFixed = errors.New("the room board is already set")
	ErrInvalidDate    = errors.New("catalog dates look like 2024-05-24")
)

// multiplayerServiceImpl implements the MultiplayerService interface
type multiplayerServiceImpl struct {
	client  Multiplayer
	engine  engine.Engine
	boards  BoardLibrary
	timeout time.Duration

	// play serializes local moves with their relays so peers see them in
	// the order they were applied here.
	play sync.Mutex
}

// NewMultiplayerService creates the blocking facade. A timeout of zero or
// less means DefaultRequestTimeout.
func NewMultiplayerService(client Multiplayer, eng engine.Engine, boards BoardLibrary, timeout time.Duration) MultiplayerService {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &multiplayerServiceImpl{
		client:  client,
		engine:  eng,
		boards:  boards,
		timeout: timeout,
	}
}

// await waits for req, bounded by ctx and the service timeout.
func await[T any](s *multiplayerServiceImpl, ctx context.Context, req *multiplayer.Request[T]) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return req.Wait(ctx)
}

func (s *multiplayerServiceImpl) GetSession(ctx context.Context) (*SessionInfo, error) {
	return &SessionInfo{
		LoggedIn: !s.client.Identity().Empty(),
		Session:  s.client.State(),
	}, nil
}

// Login presents the cached identity, or asks for a new one when fresh is
// set or nothing is cached.
func (s *multiplayerServiceImpl) Login(ctx context.Context, fresh bool) (*SessionInfo, error) {
	var req *multiplayer.Request[session.Identity]
	if fresh {
		req = s.client.Login(session.Identity{})
	} else {
		req = s.client.LoginCached()
	}
	if _, err := await(s, ctx, req); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return s.GetSession(ctx)
}

// Reconnect opens the server link again and logs in with the kept
// identity. The room is not rejoined.
func (s *multiplayerServiceImpl) Reconnect(ctx context.Context) (*SessionInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.client.Connect(ctx); err != nil {
		return nil, err
	}
	if _, err := s.client.LoginCached().Wait(ctx); err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return s.GetSession(ctx)
}

func (s *multiplayerServiceImpl) ListRooms(ctx context.Context) ([]multiplayer.RoomDescriptor, error) {
	rooms, err := await(s, ctx, s.client.ListRooms())
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	if rooms == nil {
		rooms = []multiplayer.RoomDescriptor{}
	}
	return rooms, nil
}

func (s *multiplayerServiceImpl) CreateRoom(ctx context.Context, name, password string) (*RoomResult, error) {
	roomID, err := await(s, ctx, s.client.CreateRoom(name, password))
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}
	result := s.roomResult(roomID != "")
	if result.Accepted {
		result.Message = fmt.Sprintf("Created room %s; you are the host", roomID)
	} else {
		result.Message = "The server refused to create the room"
	}
	return result, nil
}

func (s *multiplayerServiceImpl) JoinRoom(ctx context.Context, roomID, password string) (*RoomResult, error) {
	if roomID == "" {
		return nil, errors.New("room id is required")
	}
	ok, err := await(s, ctx, s.client.JoinRoom(roomID, password))
	if err != nil {
		return nil, fmt.Errorf("failed to join room %s: %w", roomID, err)
	}
	result := s.roomResult(ok)
	if ok {
		result.Message = fmt.Sprintf("Joined room %s", roomID)
	} else {
		result.Message = fmt.Sprintf("Could not join room %s; check the id and password", roomID)
	}
	return result, nil
}

func (s *multiplayerServiceImpl) LeaveRoom(ctx context.Context) (*RoomResult, error) {
	before := s.client.State().RoomID
	if before == "" {
		result := s.roomResult(false)
		result.Message = "Not in a room"
		return result, nil
	}
	ok, err := await(s, ctx, s.client.LeaveRoom())
	if err != nil {
		return nil, fmt.Errorf("failed to leave room: %w", err)
	}
	result := s.roomResult(ok)
	if ok {
		result.RoomID = before
		result.Message = fmt.Sprintf("Left room %s", before)
	} else {
		result.Message = "The server refused to let you leave"
	}
	return result, nil
}

func (s *multiplayerServiceImpl) roomResult(accepted bool) *RoomResult {
	view := s.client.State()
	return &RoomResult{
		Accepted: accepted,
		RoomID:   view.RoomID,
		Session:  view,
	}
}

func (s *multiplayerServiceImpl) GetGameState(ctx context.Context) (*GameState, error) {
	return s.gameState(), nil
}

func (s *multiplayerServiceImpl) gameState() *GameState {
	state := &GameState{
		Session:  s.client.State(),
		Status:   s.engine.Status(),
		Snapshot: s.engine.Snapshot(),
	}
	state.Status.Host = state.Session.Host
	return state
}

// Touch selects the letter at column x, row y and relays it to the room.
func (s *multiplayerServiceImpl) Touch(ctx context.Context, x, y int) (*GameState, error) {
	doc := s.engine.Board()
	if y < 0 || y >= doc.Rows() || x < 0 || x >= doc.Cols() {
		return nil, fmt.Errorf("letter %d,%d is outside the %dx%d board", x, y, doc.Cols(), doc.Rows())
	}

	s.play.Lock()
	defer s.play.Unlock()

	s.engine.Touch(x, y)
	if err := s.client.Guess(x, y); err != nil {
		return nil, fmt.Errorf("failed to relay touch: %w", err)
	}
	return s.gameState(), nil
}

func (s *multiplayerServiceImpl) EndSelection(ctx context.Context) (*GuessResult, error) {
	s.play.Lock()
	defer s.play.Unlock()

	guess := s.engine.EndSelection()
	relayed := s.client.State().RoomID != ""
	if err := s.client.EndSelection(); err != nil {
		return nil, fmt.Errorf("failed to relay selection end: %w", err)
	}
	return &GuessResult{Guess: guess, Relayed: relayed, GameState: s.gameState()}, nil
}

// UseHint reveals a theme word locally and, when that succeeds, tells the
// room so every peer spends the same budget.
func (s *multiplayerServiceImpl) UseHint(ctx context.Context) (*HintResult, error) {
	s.play.Lock()
	defer s.play.Unlock()

	word, err := s.engine.UseHint()
	if err != nil {
		return nil, err
	}
	relayed := s.client.State().RoomID != ""
	if err := s.client.UseHint(); err != nil {
		return nil, fmt.Errorf("failed to relay hint: %w", err)
	}
	return &HintResult{Word: word, Relayed: relayed, GameState: s.gameState()}, nil
}

func (s *multiplayerServiceImpl) ListCatalog(ctx context.Context) ([]board.Summary, error) {
	entries, err := await(s, ctx, s.client.ListCatalog())
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	if entries == nil {
		entries = []board.Summary{}
	}
	return entries, nil
}

// DownloadBoard fetches a catalog board, saves it to the library under its
// date and plays it.
func (s *multiplayerServiceImpl) DownloadBoard(ctx context.Context, date string) (*BoardResult, error) {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidDate, date)
	}
	if err := s.checkBoardChangeable(); err != nil {
		return nil, err
	}

	raw, err := await(s, ctx, s.client.DownloadBoard(date))
	if err != nil {
		return nil, fmt.Errorf("failed to download board %s: %w", date, err)
	}
	if raw == "" {
		return nil, fmt.Errorf("%w: no catalog board for %s", config.ErrBoardNotFound, date)
	}

	doc, err := s.boards.SaveBoard(date, []byte(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to save board %s: %w", date, err)
	}
	return s.startBoard(ctx, date, doc)
}

func (s *multiplayerServiceImpl) ListBoards(ctx context.Context) ([]*config.BoardInfo, error) {
	boards, err := s.boards.ListBoards()
	if err != nil {
		return nil, err
	}
	if boards == nil {
		boards = []*config.BoardInfo{}
	}
	return boards, nil
}

// LoadBoard plays a board from the library. In a room only the host may
// switch boards, and only before one is published.
func (s *multiplayerServiceImpl) LoadBoard(ctx context.Context, name string) (*BoardResult, error) {
	if err := s.checkBoardChangeable(); err != nil {
		return nil, err
	}

	var doc *board.Document
	if name == "" {
		name = "default"
		doc = s.boards.GetDefault()
	} else {
		var err error
		if doc, err = s.boards.LoadBoard(name); err != nil {
			return nil, err
		}
	}
	return s.startBoard(ctx, name, doc)
}

func (s *multiplayerServiceImpl) checkBoardChangeable() error {
	view := s.client.State()
	switch {
	case view.RoomID == "":
		return nil
	case !view.Host:
		return fmt.Errorf("%w: only the host picks the board", ErrRoomBoardFixed)
	case view.BoardLoaded:
		return ErrRoomBoardFixed
	}
	return nil
}

// startBoard switches the engine to doc and, for a host whose room has no board
// yet, publishes it.
func (s *multiplayerServiceImpl) startBoard(ctx context.Context, id string, doc *board.Document) (*BoardResult, error) {
	s.play.Lock()
	s.engine.LoadBoard(doc)
	s.play.Unlock()

	result := &BoardResult{
		BoardID:   id,
		PrintDate: doc.PrintDate,
		Clue:      doc.Clue,
		Credits:   doc.Credits(),
	}

	view := s.client.State()
	if view.RoomID != "" && view.Host && !view.BoardLoaded {
		data, err := board.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode board: %w", err)
		}
		ok, err := await(s, ctx, s.client.PublishBoard(string(data)))
		if err != nil {
			return nil, fmt.Errorf("failed to publish board: %w", err)
		}
		result.Published = ok
	}

	result.GameState = s.gameState()
	return result, nil
}
