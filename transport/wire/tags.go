package wire

// Tag is the first token of a line.
type Tag string

// Client to server.
const (
	TagHello          Tag = "HELLO"
	TagNewRoom        Tag = "NEWROOM"
	TagListRooms      Tag = "ROOMS"
	TagJoin           Tag = "JOIN"
	TagLeave          Tag = "LEAVE"
	TagSetBoard       Tag = "SETBOARD"
	TagBoard          Tag = "BOARD"
	TagDownloadBoard  Tag = "DLBOARD"
	TagBoardSummaries Tag = "BOARDSUMMARIES"
	TagGuess          Tag = "GUESS"
	TagEndGuess       Tag = "ENDGUESS"
	TagHint           Tag = "HINT"
	TagGetState       Tag = "GETSTATE"
	TagForward        Tag = "FORWARD"
	TagPing           Tag = "PING"
)

// Server to client. HELLO, NEWROOM, BOARD, GUESS, ENDGUESS and HINT are
// shared with the outbound set.
const (
	TagRoom         Tag = "ROOM"
	TagBoardSummary Tag = "BOARDSUMMARY"
	TagHostState    Tag = "HOSTSTATE"
	TagThemeWord    Tag = "TWORD"
	TagSpangram     Tag = "SPANGRAM"
	TagCurrentGuess Tag = "CURRENTGUESS"
	TagWordsToHint  Tag = "WORDSTOHINT"
	TagNewHost      Tag = "NEWHOST"
	TagJoined       Tag = "JOINED"
	TagLeft         Tag = "LEFT"
	TagPong         Tag = "PONG"
	TagStart        Tag = "START"

	// Generic completions.
	TagSuccess Tag = "COOL"
	TagFail    Tag = "NO"
	TagEnd     Tag = "END"
	TagInvalid Tag = "INVALID"
)

var inbound = map[Tag]bool{
	TagHello:        true,
	TagNewRoom:      true,
	TagRoom:         true,
	TagBoard:        true,
	TagBoardSummary: true,
	TagGuess:        true,
	TagEndGuess:     true,
	TagHint:         true,
	TagHostState:    true,
	TagThemeWord:    true,
	TagSpangram:     true,
	TagCurrentGuess: true,
	TagWordsToHint:  true,
	TagNewHost:      true,
	TagJoined:       true,
	TagLeft:         true,
	TagPong:         true,
	TagStart:        true,
	TagSuccess:      true,
	TagFail:         true,
	TagEnd:          true,
	TagInvalid:      true,
}

// Known reports whether t is a tag the server may send.
func (t Tag) Known() bool {
	return inbound[t]
}

// Generic reports whether t is one of the un-parameterized completions
// shared across command types.
func (t Tag) Generic() bool {
	switch t {
	case TagSuccess, TagFail, TagEnd, TagInvalid:
		return true
	}
	return false
}
