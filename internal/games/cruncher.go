// Package games holds the two mini-games: a timed mental-arithmetic game
// and a Latvian word-guessing game. Both are engines without any
// presentation; the HTTP layer renders their state.
package games

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Difficulty selects the operand ranges for cruncher problems.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Operation is the arithmetic mode a cruncher game runs in. Mixed picks a
// random operation per problem.
type Operation string

const (
	Add      Operation = "add"
	Subtract Operation = "subtract"
	Multiply Operation = "multiply"
	Divide   Operation = "divide"
	Mixed    Operation = "mixed"
)

// CruncherDuration is the fixed length of one game.
const CruncherDuration = 60 * time.Second

// Problem is one arithmetic question. Answer is always integral, including
// for division, because division problems are generated backwards from the
// answer.
type Problem struct {
	Text   string `json:"text"`
	Answer int    `json:"answer"`
}

// Cruncher generates problems and keeps the running score. A correct answer
// is worth 10 points; a wrong one costs 5, floored at zero.
type Cruncher struct {
	difficulty Difficulty
	mode       Operation
	rng        *rand.Rand
	score      int
}

// CruncherOption configures a Cruncher.
type CruncherOption func(*Cruncher)

// WithCruncherRand injects a deterministic random source for tests.
func WithCruncherRand(rng *rand.Rand) CruncherOption {
	return func(c *Cruncher) { c.rng = rng }
}

func NewCruncher(difficulty Difficulty, mode Operation, opts ...CruncherOption) *Cruncher {
	c := &Cruncher{difficulty: difficulty, mode: mode}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return c
}

// Score returns the current score.
func (c *Cruncher) Score() int { return c.score }

// Reset zeroes the score for a new game.
func (c *Cruncher) Reset() { c.score = 0 }

// Check scores an answer against a problem and returns whether it was
// correct.
func (c *Cruncher) Check(p Problem, answer int) bool {
	if answer == p.Answer {
		c.score += 10
		return true
	}
	if c.score > 5 {
		c.score -= 5
	} else {
		c.score = 0
	}
	return false
}

// operand ranges per difficulty: additive max, then multiplier min and max.
func (c *Cruncher) ranges() (maxOp, minMult, maxMult int) {
	switch c.difficulty {
	case Medium:
		return 50, 0, 12
	case Hard:
		return 100, -10, 20
	default:
		return 10, 0, 5
	}
}

// intN returns a random int in [lo, hi] inclusive.
func (c *Cruncher) intN(lo, hi int) int {
	return lo + c.rng.IntN(hi-lo+1)
}

// Next generates the next problem.
func (c *Cruncher) Next() Problem {
	op := c.mode
	if op == Mixed {
		ops := []Operation{Add, Subtract, Multiply, Divide}
		op = ops[c.rng.IntN(len(ops))]
	}

	maxOp, minMult, maxMult := c.ranges()

	var num1, num2, answer int
	var sym string
	switch op {
	case Add:
		if c.difficulty == Hard {
			num1 = c.intN(-maxOp/2, maxOp/2)
			num2 = c.intN(-maxOp/2, maxOp/2)
		} else {
			num1 = c.intN(0, maxOp)
			num2 = c.intN(0, maxOp)
		}
		answer = num1 + num2
		sym = "+"
	case Subtract:
		num1 = c.intN(0, maxOp)
		if c.difficulty == Hard {
			num2 = c.intN(0, maxOp)
		} else {
			// keep results non-negative on easy and medium
			num2 = c.intN(0, num1)
		}
		answer = num1 - num2
		sym = "-"
	case Multiply:
		num1 = c.intN(minMult, maxMult)
		num2 = c.intN(minMult, maxMult)
		answer = num1 * num2
		sym = "×"
	case Divide:
		// generated backwards so the quotient is always integral
		num2 = c.intN(1, maxMult)
		answer = c.intN(minMult, maxMult)
		num1 = num2 * answer
		sym = "÷"
	default:
		num1, num2, answer, sym = 1, 1, 2, "+"
	}

	return Problem{
		Text:   fmt.Sprintf("%d %s %d = ?", num1, sym, num2),
		Answer: answer,
	}
}
