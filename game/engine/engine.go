package engine

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/strands-coop/game/board"
)

// Engine is the local puzzle: what has been found, what is selected, and
// the hint budget. Remote events and local play both land here.
type Engine interface {
	// Local play
	Touch(x, y int)
	EndSelection() Guess
	UseHint() (string, error)

	// State
	Snapshot() board.Snapshot
	Status() Status
	Board() *board.Document
	LoadBoard(doc *board.Document)
	Won() bool
}

// Progress implements Engine and the multiplayer client's game logic
// callbacks. It is safe for concurrent use.
type Progress struct {
	mu sync.RWMutex

	doc           *board.Document
	themeFound    map[string]bool
	themeOrder    []string
	spangramFound bool
	spangram      []board.Coord
	wordsFound    map[string]bool
	selection     []board.Coord
	wordsToHint   int
	hinted        string

	peers   map[string]bool
	catalog []board.Summary

	onChange func(board.Snapshot)
	logger   *slog.Logger
}

// NewProgress starts a puzzle on doc, or on the default board when doc is
// nil.
func NewProgress(doc *board.Document) *Progress {
	p := &Progress{peers: make(map[string]bool), logger: slog.Default()}
	if doc == nil {
		doc = board.Default()
	}
	p.reset(doc)
	return p
}

// OnChange registers fn to receive a snapshot after every change. It runs
// without the lock held.
func (p *Progress) OnChange(fn func(board.Snapshot)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

// SetLogger replaces the logger used for remote events the puzzle ignores.
func (p *Progress) SetLogger(logger *slog.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logger = logger
}

func (p *Progress) reset(doc *board.Document) {
	p.doc = doc
	p.themeFound = make(map[string]bool)
	p.themeOrder = nil
	p.spangramFound = false
	p.spangram = nil
	p.wordsFound = make(map[string]bool)
	p.selection = nil
	p.wordsToHint = board.DefaultWordsToHint
	p.hinted = ""
}

// update applies fn under the lock and then reports the change.
func (p *Progress) update(fn func()) {
	p.mu.Lock()
	fn()
	notify := p.onChange
	var snap board.Snapshot
	if notify != nil {
		snap = p.snapshotLocked()
	}
	p.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
}

// LoadBoard replaces the puzzle and clears all progress.
func (p *Progress) LoadBoard(doc *board.Document) {
	if doc == nil {
		return
	}
	p.update(func() { p.reset(doc) })
}

func (p *Progress) Board() *board.Document {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.doc
}

// Touch adds the letter at column x, row y to the selection. Touching the
// letter before the last one backs the selection up; touching a letter
// already selected elsewhere, or one that is not adjacent, is ignored.
func (p *Progress) Touch(x, y int) {
	p.update(func() { p.touchLocked(board.Coord{Row: y, Col: x}) })
}

func (p *Progress) touchLocked(c board.Coord) {
	if p.doc.Letter(c) == 0 {
		return
	}
	n := len(p.selection)
	if n >= 2 && p.selection[n-2] == c {
		p.selection = p.selection[:n-1]
		return
	}
	for _, s := range p.selection {
		if s == c {
			return
		}
	}
	if n > 0 && !adjacent(p.selection[n-1], c) {
		return
	}
	p.selection = append(p.selection, c)
}

func adjacent(a, b board.Coord) bool {
	dr, dc := a.Row-b.Row, a.Col-b.Col
	return a != b && dr >= -1 && dr <= 1 && dc >= -1 && dc <= 1
}

// EndSelection checks the selection against the board and clears it.
func (p *Progress) EndSelection() Guess {
	var g Guess
	p.update(func() { g = p.endSelectionLocked() })
	return g
}

func (p *Progress) endSelectionLocked() Guess {
	sel := p.selection
	p.selection = nil

	word := p.spell(sel)
	g := Guess{Word: word}
	switch {
	case len(sel) < 2:
		g.Result = GuessTooShort
	case strings.EqualFold(word, p.doc.Spangram) && !p.spangramFound:
		p.spangramFound = true
		p.spangram = sel
		g.Result = GuessSpangram
	case p.isThemePath(word, sel):
		if p.themeFound[word] {
			g.Result = GuessRepeated
			break
		}
		p.markThemeLocked(word)
		g.Result = GuessThemeWord
	case p.isSolution(word):
		if p.wordsFound[word] {
			g.Result = GuessRepeated
			break
		}
		p.wordsFound[word] = true
		p.wordsToHint--
		g.Result = GuessWord
	default:
		g.Result = GuessInvalid
	}
	g.Kind = g.Result.String()
	return g
}

func (p *Progress) spell(sel []board.Coord) string {
	var sb strings.Builder
	for _, c := range sel {
		sb.WriteByte(p.doc.Letter(c))
	}
	return sb.String()
}

func (p *Progress) isThemePath(word string, sel []board.Coord) bool {
	coords, ok := p.doc.ThemeCoords[word]
	if !ok || len(coords) != len(sel) {
		return false
	}
	for i := range coords {
		if coords[i] != sel[i] {
			return false
		}
	}
	return true
}

func (p *Progress) isSolution(word string) bool {
	for _, s := range p.doc.Solutions {
		if strings.EqualFold(s, word) {
			return true
		}
	}
	return false
}

func (p *Progress) markThemeLocked(word string) {
	if p.themeFound[word] {
		return
	}
	p.themeFound[word] = true
	p.themeOrder = append(p.themeOrder, word)
	if p.hinted == word {
		p.hinted = ""
	}
}

// UseHint spends the hint budget and returns the theme word it reveals.
func (p *Progress) UseHint() (string, error) {
	var (
		word string
		err  error
	)
	p.update(func() {
		if p.wordsToHint > 0 {
			err = ErrHintUnavailable
			return
		}
		word, err = p.hintLocked()
	})
	return word, err
}

// hintLocked picks the first unfound theme word and resets the budget.
func (p *Progress) hintLocked() (string, error) {
	words := make([]string, 0, len(p.doc.ThemeCoords))
	for w := range p.doc.ThemeCoords {
		if !p.themeFound[w] {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return "", ErrNothingToHint
	}
	sort.Strings(words)
	p.hinted = words[0]
	p.wordsToHint = board.DefaultWordsToHint
	return p.hinted, nil
}

// Snapshot returns the facts replicated to a catching-up peer.
func (p *Progress) Snapshot() board.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

func (p *Progress) snapshotLocked() board.Snapshot {
	s := board.Snapshot{
		ThemeWordsFound: append([]string(nil), p.themeOrder...),
		SpangramFound:   p.spangramFound,
		WordsToHint:     p.wordsToHint,
	}
	if p.spangramFound {
		s.SpangramCoords = append([]board.Coord(nil), p.spangram...)
	}
	if len(p.selection) > 0 {
		s.CurrentGuess = append([]board.Coord(nil), p.selection...)
	}
	return s
}

// Won reports whether every theme word and the spangram are found.
func (p *Progress) Won() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.wonLocked()
}

func (p *Progress) wonLocked() bool {
	return p.spangramFound && len(p.themeFound) >= len(p.doc.ThemeCoords)
}

func (p *Progress) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()

	peers := make([]string, 0, len(p.peers))
	for id := range p.peers {
		peers = append(peers, id)
	}
	sort.Strings(peers)

	return Status{
		Clue:            p.doc.Clue,
		Credits:         p.doc.Credits(),
		Grid:            append([]string(nil), p.doc.StartingBoard...),
		ThemeWordCount:  len(p.doc.ThemeCoords),
		ThemeWordsFound: append([]string(nil), p.themeOrder...),
		SpangramFound:   p.spangramFound,
		Selection:       p.spell(p.selection),
		WordsToHint:     p.wordsToHint,
		Hinted:          p.hinted,
		Won:             p.wonLocked(),
		Peers:           peers,
	}
}

// Catalog returns the catalog entries reported so far.
func (p *Progress) Catalog() []board.Summary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]board.Summary(nil), p.catalog...)
}
