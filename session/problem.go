package session

import (
	"fmt"
	"math/rand/v2"
)

// Problem is one arithmetic item shown while cognitive load is on.
type Problem struct {
	A, B   int
	Op     byte
	Answer int
}

func (p Problem) String() string {
	return fmt.Sprintf("%d %c %d = ?", p.A, p.Op, p.B)
}

var ops = []byte{'+', '-', '*'}

// NewProblem draws operands in 10..50 for addition and subtraction, and
// 2..12 times 2..20 for multiplication.
func NewProblem(rng *rand.Rand) Problem {
	a := randInt(rng, 10, 50)
	b := randInt(rng, 10, 50)
	op := ops[rng.IntN(len(ops))]

	var answer int
	switch op {
	case '+':
		answer = a + b
	case '-':
		answer = a - b
	case '*':
		a = randInt(rng, 2, 12)
		b = randInt(rng, 2, 20)
		answer = a * b
	}
	return Problem{A: a, B: b, Op: op, Answer: answer}
}

// randInt returns a value in [lo, hi].
func randInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.IntN(hi-lo+1)
}
