package wire

import (
	"strconv"

	"github.com/wricardo/strands-coop/game/board"
)

// Hello requests a brand new identity.
func Hello() Command {
	return Command{Tag: TagHello}
}

// Resume presents a cached identity.
func Resume(id, secret string) Command {
	return Command{Tag: TagHello, Args: []string{id, secret}}
}

// NewRoom asks the server for a fresh room. The password token is omitted
// when empty.
func NewRoom(id, secret, name, password string) Command {
	args := []string{id, secret, EncodeOptionalText(name)}
	if password != "" {
		args = append(args, EncodeText(password))
	}
	return Command{Tag: TagNewRoom, Args: args}
}

func ListRooms() Command {
	return Command{Tag: TagListRooms}
}

// Join enters a room. The password token is omitted when empty.
func Join(id, secret, roomID, password string) Command {
	args := []string{id, secret, roomID}
	if password != "" {
		args = append(args, EncodeText(password))
	}
	return Command{Tag: TagJoin, Args: args}
}

func Leave(id, secret string) Command {
	return Command{Tag: TagLeave, Args: []string{id, secret}}
}

// SetBoard publishes a board document to the current room.
func SetBoard(id, secret, document string) Command {
	return Command{Tag: TagSetBoard, Args: []string{id, secret, EncodeText(document)}}
}

// GetBoard fetches the current room's board document.
func GetBoard(id, secret string) Command {
	return Command{Tag: TagBoard, Args: []string{id, secret}}
}

// DownloadBoard fetches a catalog board by its YYYY-MM-DD date.
func DownloadBoard(date string) Command {
	return Command{Tag: TagDownloadBoard, Args: []string{date}}
}

func BoardSummaries() Command {
	return Command{Tag: TagBoardSummaries}
}

// Guess relays a letter touch at column x, row y.
func Guess(id, secret string, x, y int) Command {
	return Command{Tag: TagGuess, Args: []string{id, secret, strconv.Itoa(x), strconv.Itoa(y)}}
}

func EndGuess(id, secret string) Command {
	return Command{Tag: TagEndGuess, Args: []string{id, secret}}
}

func Hint(id, secret string) Command {
	return Command{Tag: TagHint, Args: []string{id, secret}}
}

// GetState asks the room host, through the server, for a catch-up.
func GetState(id, secret string) Command {
	return Command{Tag: TagGetState, Args: []string{id, secret}}
}

// Forward wraps inner so the server relays it verbatim to peerID.
func Forward(id, secret, peerID string, inner Command) (Command, error) {
	body, err := inner.Body()
	if err != nil {
		return Command{}, err
	}
	return Command{Tag: TagForward, Args: []string{id, secret, peerID, body}}, nil
}

func Ping() Command {
	return Command{Tag: TagPing}
}

// Snapshot pieces, sent inside Forward.

func ThemeWord(word string) Command {
	return Command{Tag: TagThemeWord, Args: []string{word}}
}

func Spangram(coords []board.Coord) Command {
	return Command{Tag: TagSpangram, Args: FormatCoords(coords)}
}

func CurrentGuess(coords []board.Coord) Command {
	return Command{Tag: TagCurrentGuess, Args: FormatCoords(coords)}
}

func WordsToHint(n int) Command {
	return Command{Tag: TagWordsToHint, Args: []string{strconv.Itoa(n)}}
}
