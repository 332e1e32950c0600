package games

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 7))
}

func TestCruncherDivisionIsIntegral(t *testing.T) {
	for _, d := range []Difficulty{Easy, Medium, Hard} {
		c := NewCruncher(d, Divide, WithCruncherRand(testRand()))
		for i := 0; i < 200; i++ {
			p := c.Next()
			parts := strings.Split(strings.TrimSuffix(p.Text, " = ?"), " ÷ ")
			if len(parts) != 2 {
				t.Fatalf("unexpected problem text %q", p.Text)
			}
			num1, err1 := strconv.Atoi(parts[0])
			num2, err2 := strconv.Atoi(parts[1])
			if err1 != nil || err2 != nil {
				t.Fatalf("non-numeric operands in %q", p.Text)
			}
			if num2 == 0 {
				t.Fatalf("zero divisor in %q", p.Text)
			}
			if num1 != num2*p.Answer {
				t.Errorf("%q: answer %d is not the integral quotient", p.Text, p.Answer)
			}
		}
	}
}

func TestCruncherSubtractionNonNegativeBelowHard(t *testing.T) {
	for _, d := range []Difficulty{Easy, Medium} {
		c := NewCruncher(d, Subtract, WithCruncherRand(testRand()))
		for i := 0; i < 200; i++ {
			if p := c.Next(); p.Answer < 0 {
				t.Fatalf("%s subtraction produced negative answer: %q", d, p.Text)
			}
		}
	}
}

func TestCruncherScoring(t *testing.T) {
	c := NewCruncher(Easy, Add, WithCruncherRand(testRand()))
	p := Problem{Text: "1 + 1 = ?", Answer: 2}

	if !c.Check(p, 2) {
		t.Error("correct answer should report true")
	}
	if c.Score() != 10 {
		t.Errorf("score = %d, want 10", c.Score())
	}

	if c.Check(p, 3) {
		t.Error("wrong answer should report false")
	}
	if c.Score() != 5 {
		t.Errorf("score = %d, want 5", c.Score())
	}

	// Penalties floor at zero.
	c.Check(p, 3)
	if c.Score() != 0 {
		t.Errorf("score = %d, want 0", c.Score())
	}
	c.Check(p, 3)
	if c.Score() != 0 {
		t.Errorf("score must not go negative, got %d", c.Score())
	}

	c.Reset()
	if c.Score() != 0 {
		t.Error("Reset should zero the score")
	}
}

func TestCruncherMixedUsesAllOperations(t *testing.T) {
	c := NewCruncher(Medium, Mixed, WithCruncherRand(testRand()))
	seen := map[string]bool{}
	for i := 0; i < 300; i++ {
		text := c.Next().Text
		for _, sym := range []string{"+", "-", "×", "÷"} {
			if strings.Contains(text, " "+sym+" ") {
				seen[sym] = true
			}
		}
	}
	if len(seen) != 4 {
		t.Errorf("mixed mode used operations %v, want all four", seen)
	}
}

func TestEvaluateExactAndPresent(t *testing.T) {
	tiles := Evaluate("SAULE", "SAULE")
	for i, tile := range tiles {
		if tile.State != Correct {
			t.Errorf("tile %d = %s, want correct", i, tile.State)
		}
	}

	tiles = Evaluate("ESAUL", "SAULE")
	for i, tile := range tiles {
		if tile.State != Present {
			t.Errorf("tile %d = %s, want present (anagram)", i, tile.State)
		}
	}
}

// Duplicate letters must consume target letters: exact matches first, then
// one "present" per remaining occurrence.
func TestEvaluateDuplicateLetters(t *testing.T) {
	tiles := Evaluate("AABBA", "ABABA")
	want := []LetterState{Correct, Present, Present, Correct, Correct}
	for i, tile := range tiles {
		if tile.State != want[i] {
			t.Errorf("tile %d = %s, want %s", i, tile.State, want[i])
		}
	}

	// Surplus duplicates go absent once the target letters are used up.
	tiles = Evaluate("AAAAA", "ABABA")
	want = []LetterState{Correct, Absent, Correct, Absent, Correct}
	for i, tile := range tiles {
		if tile.State != want[i] {
			t.Errorf("surplus tile %d = %s, want %s", i, tile.State, want[i])
		}
	}
}

func TestEvaluateHandlesMultibyteRunes(t *testing.T) {
	tiles := Evaluate("VĀRDS", "VĀRDS")
	if len(tiles) != 5 {
		t.Fatalf("got %d tiles, want 5", len(tiles))
	}
	if tiles[1].Letter != "Ā" || tiles[1].State != Correct {
		t.Errorf("tile 1 = %+v, want correct Ā", tiles[1])
	}
}

func TestWordleWinAndLoss(t *testing.T) {
	words := []string{"SAULE", "ZIEMA"}
	w := NewWordle(WithWords(words), WithWordleRand(rand.New(rand.NewPCG(0, 0))))
	target := w.target

	other := words[0]
	if other == target {
		other = words[1]
	}

	for i := 0; i < MaxAttempts-1; i++ {
		if _, err := w.Guess(other); err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
	}
	if w.Over() {
		t.Fatal("game should still be running with one attempt left")
	}
	if _, err := w.Guess(target); err != nil {
		t.Fatalf("winning guess: %v", err)
	}
	if !w.Over() || !w.Won() {
		t.Error("guessing the target should win the game")
	}
	if w.Target() != target {
		t.Error("target should be revealed after the game ends")
	}
	if _, err := w.Guess(other); err != ErrGameOver {
		t.Errorf("guess after game over: %v, want ErrGameOver", err)
	}

	// Loss path: exhaust every attempt.
	l := NewWordle(WithWords(words), WithWordleRand(rand.New(rand.NewPCG(0, 0))))
	for i := 0; i < MaxAttempts; i++ {
		if _, err := l.Guess(other); err != nil {
			t.Fatalf("guess %d: %v", i, err)
		}
	}
	if !l.Over() || l.Won() {
		t.Error("running out of attempts should lose the game")
	}
}

func TestWordleRejectsInvalidGuesses(t *testing.T) {
	w := NewWordle(WithWords([]string{"SAULE"}))
	if _, err := w.Guess("SAUL"); err != ErrWordLength {
		t.Errorf("short word: %v, want ErrWordLength", err)
	}
	if _, err := w.Guess("XXXXX"); err != ErrNotInWordList {
		t.Errorf("unknown word: %v, want ErrNotInWordList", err)
	}
	if w.Attempts() != 0 {
		t.Error("rejected guesses must not consume attempts")
	}
	// Lowercase input is accepted.
	if _, err := w.Guess("saule"); err != nil {
		t.Errorf("lowercase guess: %v", err)
	}
}

func TestWordleHintOncePerGame(t *testing.T) {
	w := NewWordle(WithWords([]string{"SAULE"}))
	letter, pos, err := w.Hint()
	if err != nil {
		t.Fatalf("Hint: %v", err)
	}
	if letter != string([]rune(w.target)[pos]) {
		t.Errorf("hint %q at %d does not match the target", letter, pos)
	}
	if _, _, err := w.Hint(); err != ErrHintUsed {
		t.Errorf("second hint: %v, want ErrHintUsed", err)
	}
}
