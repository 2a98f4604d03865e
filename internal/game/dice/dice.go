// Package dice provides the randomness abstraction and the dice expressions
// used for skill magnitudes (for example "2d6+3" shield points).
package dice

import (
	"fmt"
	"strings"
)

// Source is the randomness provider for rolls and random choices.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// Result is the audit trail of one evaluated expression.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type Result struct {
	Expr     string
	Dice     []int
	Modifier int
}

// Total returns the dice sum plus the modifier.
func (r Result) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String renders the result as "2d6+3: 4 5 +3 = 12".
func (r Result) String() string {
	parts := make([]string, len(r.Dice))
	for i, d := range r.Dice {
		parts[i] = fmt.Sprint(d)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s = %d", r.Expr, r.Total())
	}
	return fmt.Sprintf("%s: %s %+d = %d", r.Expr, strings.Join(parts, " "), r.Modifier, r.Total())
}
