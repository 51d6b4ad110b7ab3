package wire

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/wricardo/strands-coop/game/board"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"bare tag", "COOL\n", []string{"COOL"}},
		{"two fields", "JOINED abc\n", []string{"JOINED", "abc"}},
		{"exactly four", "BOARDSUMMARY 2024-05-24 Y2x1ZQ== ZWQ=\n", []string{"BOARDSUMMARY", "2024-05-24", "Y2x1ZQ==", "ZWQ="}},
		{"tail keeps separators", "SPANGRAM 0,0 0,1 0,2 1,2 2,2\n", []string{"SPANGRAM", "0,0", "0,1", "0,2 1,2 2,2"}},
		{"trailing whitespace trimmed", "ROOM r1 2 TkFNRQ== PASSWORD \r\n", []string{"ROOM", "r1", "2", "TkFNRQ== PASSWORD"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("ROOM a 1\nROOM b 2\r\n\nEND\n")
	want := []string{"ROOM a 1", "ROOM b 2", "END"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines = %q, want %q", got, want)
	}
}

func TestDecode(t *testing.T) {
	t.Run("known tag", func(t *testing.T) {
		ev, err := Decode("GUESS 3 4\n")
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if ev.Tag != TagGuess {
			t.Errorf("expected GUESS, got %s", ev.Tag)
		}
		x, err := ev.IntArg(0)
		if err != nil || x != 3 {
			t.Errorf("expected x=3, got %d (%v)", x, err)
		}
		if ev.Arg(5) != "" {
			t.Errorf("expected empty string for missing argument")
		}
	})

	t.Run("unknown tag is soft", func(t *testing.T) {
		ev, err := Decode("WHATEVER 1 2\n")
		if !errors.Is(err, ErrUnknownTag) {
			t.Fatalf("expected ErrUnknownTag, got %v", err)
		}
		if ev.Raw != "WHATEVER 1 2\n" {
			t.Errorf("expected raw line to be kept, got %q", ev.Raw)
		}
	})

	t.Run("empty line", func(t *testing.T) {
		if _, err := Decode("\n"); !errors.Is(err, ErrEmptyLine) {
			t.Errorf("expected ErrEmptyLine, got %v", err)
		}
	})

	t.Run("malformed integer", func(t *testing.T) {
		ev, _ := Decode("WORDSTOHINT many")
		if _, err := ev.IntArg(0); !errors.Is(err, ErrMalformed) {
			t.Errorf("expected ErrMalformed, got %v", err)
		}
	})
}

func TestRoundTrip_MultiCoordinatePayload(t *testing.T) {
	coords := []board.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 2}, {Row: 3, Col: 1}, {Row: 4, Col: 0}}
	line, err := Spangram(coords).Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	ev, err := Decode(line)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(ev.Args) != MaxFields-1 {
		t.Fatalf("expected %d args, got %d", MaxFields-1, len(ev.Args))
	}
	got, err := ParseCoords(ev.Args)
	if err != nil {
		t.Fatalf("ParseCoords failed: %v", err)
	}
	if !reflect.DeepEqual(got, coords) {
		t.Errorf("coords changed across round trip: got %v, want %v", got, coords)
	}
}

func TestRoundTrip_Base64Payload(t *testing.T) {
	doc := "{\"clue\": \"Spaces, newlines\nand ünïcödé 🎉\"}"
	line, err := SetBoard("uid", "key", doc).Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if strings.Count(line, "\n") != 1 || !strings.HasSuffix(line, "\n") {
		t.Fatalf("expected one terminating newline, got %q", line)
	}

	// The server answers with the same token in the last slot.
	token := Split(line)[3]
	ev, err := Decode("BOARD " + token + "\n")
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	got, err := DecodeText(ev.Arg(0))
	if err != nil {
		t.Fatalf("DecodeText failed: %v", err)
	}
	if got != doc {
		t.Errorf("document changed across round trip: %q", got)
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
		want string
	}{
		{"hello", Hello(), "HELLO\n"},
		{"resume", Resume("u", "k"), "HELLO u k\n"},
		{"new room without name or password", NewRoom("u", "k", "", ""), "NEWROOM u k NONE\n"},
		{"new room with both", NewRoom("u", "k", "Alpha", "pw"), "NEWROOM u k " + EncodeText("Alpha") + " " + EncodeText("pw") + "\n"},
		{"join without password", Join("u", "k", "r1", ""), "JOIN u k r1\n"},
		{"join with password", Join("u", "k", "r1", "pw"), "JOIN u k r1 " + EncodeText("pw") + "\n"},
		{"guess", Guess("u", "k", 2, 5), "GUESS u k 2 5\n"},
		{"download", DownloadBoard("2024-05-24"), "DLBOARD 2024-05-24\n"},
		{"ping", Ping(), "PING\n"},
		{"words to hint", WordsToHint(0), "WORDSTOHINT 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.Encode()
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncode_RejectsEmbeddedNewline(t *testing.T) {
	_, err := ThemeWord("CAT\nLEAVE u k").Encode()
	if !errors.Is(err, ErrNewlineInToken) {
		t.Errorf("expected ErrNewlineInToken, got %v", err)
	}
}

func TestForward(t *testing.T) {
	cmd, err := Forward("u", "k", "peer", CurrentGuess([]board.Coord{{Row: 1, Col: 2}, {Row: 2, Col: 3}}))
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	line, _ := cmd.Encode()
	if line != "FORWARD u k peer CURRENTGUESS 1,2 2,3\n" {
		t.Errorf("unexpected forward line %q", line)
	}

	// The server splits the last field into target and verbatim payload.
	target, payload, _ := strings.Cut(Split(line)[3], " ")
	if target != "peer" {
		t.Errorf("expected target peer, got %q", target)
	}
	ev, err := Decode(payload)
	if err != nil || ev.Tag != TagCurrentGuess {
		t.Fatalf("forwarded payload did not decode: %v %v", ev, err)
	}
}

func TestParseRoom(t *testing.T) {
	tests := []struct {
		name string
		line string
		want RoomEntry
	}{
		{"legacy id and count", "ROOM r1 3", RoomEntry{ID: "r1", Occupants: 3}},
		{"no name", "ROOM r1 1 NONE", RoomEntry{ID: "r1", Occupants: 1}},
		{"named", "ROOM r1 2 " + EncodeText("Alpha room"), RoomEntry{ID: "r1", Occupants: 2, Name: "Alpha room"}},
		{"named with password", "ROOM r1 2 " + EncodeText("Ωmega") + " PASSWORD", RoomEntry{ID: "r1", Occupants: 2, Name: "Ωmega", HasPassword: true}},
		{"no name with password", "ROOM r1 4 NONE PASSWORD", RoomEntry{ID: "r1", Occupants: 4, HasPassword: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := Decode(tt.line)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			got, err := ParseRoom(ev)
			if err != nil {
				t.Fatalf("ParseRoom failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}

	t.Run("bad count", func(t *testing.T) {
		ev, _ := Decode("ROOM r1 lots")
		if _, err := ParseRoom(ev); !errors.Is(err, ErrMalformed) {
			t.Errorf("expected ErrMalformed, got %v", err)
		}
	})
}

func TestParseSummary(t *testing.T) {
	ev, err := Decode("BOARDSUMMARY 2024-05-24 " + EncodeText("Fine and dandy") + " " + EncodeText("Harvey Tindall"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	s, err := ParseSummary(ev)
	if err != nil {
		t.Fatalf("ParseSummary failed: %v", err)
	}
	if s.Date != "2024-05-24" || s.Clue != "Fine and dandy" || s.Editor != "Harvey Tindall" {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestOptionalText(t *testing.T) {
	if EncodeOptionalText("") != None {
		t.Errorf("expected empty text to encode as %s", None)
	}
	got, err := DecodeOptionalText(None)
	if err != nil || got != "" {
		t.Errorf("expected NONE to decode as empty, got %q (%v)", got, err)
	}
	if _, err := DecodeText("%%%"); !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed for bad base64, got %v", err)
	}
}

func TestParseCoords_Malformed(t *testing.T) {
	for _, in := range [][]string{{"1"}, {"a,1"}, {"1,b"}} {
		if _, err := ParseCoords(in); !errors.Is(err, ErrMalformed) {
			t.Errorf("ParseCoords(%q): expected ErrMalformed, got %v", in, err)
		}
	}
}
