package games

import (
	"errors"
	"math/rand/v2"
	"strings"
)

// Word-guessing game over 5-letter Latvian words with 6 attempts.

const (
	WordLength  = 5
	MaxAttempts = 6
)

var (
	ErrGameOver      = errors.New("wordle: game is over")
	ErrWordLength    = errors.New("wordle: wrong word length")
	ErrNotInWordList = errors.New("wordle: word not in list")
	ErrHintUsed      = errors.New("wordle: hint already used")
)

// LetterState classifies one guessed letter.
type LetterState string

const (
	Correct LetterState = "correct"
	Present LetterState = "present"
	Absent  LetterState = "absent"
)

// Tile is one evaluated letter of a guess.
type Tile struct {
	Letter string      `json:"letter"`
	State  LetterState `json:"state"`
}

// defaultWords is the built-in answer and guess dictionary, uppercase.
var defaultWords = []string{
	"SAULE", "ZIEMA", "LAIKS", "DIENA", "GALDS", "SIRDS", "VĀRDS",
	"MĀJAS", "MAIZE", "PIENS", "ŪDENS", "SVECE", "ROKAS", "KRĀSA",
	"SKOLA", "TAUTA", "PUTNS", "ZVANS", "LAPAS", "KOKLE",
}

// Evaluate classifies a guess against a target using two passes: exact
// matches consume their target letters first, then remaining letters are
// matched anywhere in what is left. Both words must be the same rune length
// and uppercase.
func Evaluate(guess, target string) []Tile {
	g := []rune(guess)
	t := []rune(target)
	tiles := make([]Tile, len(g))

	for i, r := range g {
		tiles[i] = Tile{Letter: string(r), State: Absent}
		if i < len(t) && r == t[i] {
			tiles[i].State = Correct
			t[i] = 0 // consumed
		}
	}
	for i, r := range g {
		if tiles[i].State == Correct {
			continue
		}
		for j, tr := range t {
			if tr == r {
				tiles[i].State = Present
				t[j] = 0
				break
			}
		}
	}
	return tiles
}

// Wordle is one game: a hidden target word and up to MaxAttempts guesses.
type Wordle struct {
	words    []string
	target   string
	attempts int
	guesses  [][]Tile
	over     bool
	won      bool
	hintUsed bool
	// positions already revealed as correct, by index
	solved [WordLength]bool
}

// WordleOption configures a new game.
type WordleOption func(*Wordle)

// WithWords replaces the built-in dictionary; the target is drawn from it.
func WithWords(words []string) WordleOption {
	return func(w *Wordle) { w.words = words }
}

// WithWordleRand injects a deterministic random source for tests.
func WithWordleRand(rng *rand.Rand) WordleOption {
	return func(w *Wordle) {
		w.target = w.words[rng.IntN(len(w.words))]
	}
}

func NewWordle(opts ...WordleOption) *Wordle {
	w := &Wordle{words: defaultWords}
	for _, opt := range opts {
		opt(w)
	}
	if w.target == "" {
		w.target = w.words[rand.IntN(len(w.words))]
	}
	return w
}

// Guess evaluates one attempt. It rejects guesses of the wrong length or
// not in the dictionary without consuming an attempt.
func (w *Wordle) Guess(word string) ([]Tile, error) {
	if w.over {
		return nil, ErrGameOver
	}
	word = strings.ToUpper(strings.TrimSpace(word))
	if len([]rune(word)) != WordLength {
		return nil, ErrWordLength
	}
	if !w.inWordList(word) {
		return nil, ErrNotInWordList
	}

	tiles := Evaluate(word, w.target)
	w.guesses = append(w.guesses, tiles)
	w.attempts++
	for i, tile := range tiles {
		if tile.State == Correct {
			w.solved[i] = true
		}
	}

	if word == w.target {
		w.over = true
		w.won = true
	} else if w.attempts >= MaxAttempts {
		w.over = true
	}
	return tiles, nil
}

func (w *Wordle) inWordList(word string) bool {
	for _, candidate := range w.words {
		if candidate == word {
			return true
		}
	}
	return false
}

// Hint reveals one target letter at a position no guess has gotten right
// yet. It can be used once per game.
func (w *Wordle) Hint() (letter string, pos int, err error) {
	if w.over {
		return "", 0, ErrGameOver
	}
	if w.hintUsed {
		return "", 0, ErrHintUsed
	}
	target := []rune(w.target)
	for i, solved := range w.solved {
		if !solved {
			w.hintUsed = true
			return string(target[i]), i, nil
		}
	}
	return "", 0, ErrHintUsed
}

// Over reports whether the game has ended.
func (w *Wordle) Over() bool { return w.over }

// Won reports whether the last guess hit the target.
func (w *Wordle) Won() bool { return w.won }

// Attempts returns how many guesses were made.
func (w *Wordle) Attempts() int { return w.attempts }

// Guesses returns the evaluated rows so far.
func (w *Wordle) Guesses() [][]Tile { return w.guesses }

// Target returns the hidden word once the game is over, empty otherwise.
func (w *Wordle) Target() string {
	if !w.over {
		return ""
	}
	return w.target
}
