package engine

import "errors"

var (
	ErrHintUnavailable = errors.New("not enough words found for a hint")
	ErrNothingToHint   = errors.New("every theme word is already found")
)

// GuessResult classifies a finished selection.
type GuessResult int

const (
	GuessInvalid GuessResult = iota
	GuessTooShort
	GuessWord
	GuessRepeated
	GuessThemeWord
	GuessSpangram
)

func (r GuessResult) String() string {
	switch r {
	case GuessTooShort:
		return "too_short"
	case GuessWord:
		return "word"
	case GuessRepeated:
		return "repeated"
	case GuessThemeWord:
		return "theme_word"
	case GuessSpangram:
		return "spangram"
	default:
		return "invalid"
	}
}

// Guess is the outcome of EndSelection.
type Guess struct {
	Word   string      `json:"word"`
	Result GuessResult `json:"-"`
	Kind   string      `json:"result"`
}

// Status summarizes the puzzle for display.
type Status struct {
	Clue            string   `json:"clue"`
	Credits         string   `json:"credits"`
	Grid            []string `json:"grid"`
	ThemeWordCount  int      `json:"theme_word_count"`
	ThemeWordsFound []string `json:"theme_words_found"`
	SpangramFound   bool     `json:"spangram_found"`
	Selection       string   `json:"selection"`
	WordsToHint     int      `json:"words_to_hint"`
	Hinted          string   `json:"hinted,omitempty"`
	Won             bool     `json:"won"`
	Host            bool     `json:"host"` // filled from the session, not the engine
	Peers           []string `json:"peers"`
}
