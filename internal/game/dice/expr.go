package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a parsed amount: either a flat number ("12") or dice with an
// optional modifier ("d6", "2d6", "3d4-1").
//
// Invariant: Count == 0 for flat amounts; otherwise Count >= 1 and Sides >= 2.
type Expr struct {
	Raw      string
	Count    int
	Sides    int
	Modifier int
}

// Parse parses s into an Expr.
//
// Precondition: s is non-empty.
// Postcondition: Returns a valid Expr or a descriptive error.
func Parse(s string) (Expr, error) {
	raw := s
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Expr{}, fmt.Errorf("dice: empty expression")
	}
	countStr, rest, hasDice := strings.Cut(s, "d")
	if !hasDice {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Expr{}, fmt.Errorf("dice: %q is neither a number nor a dice expression", raw)
		}
		return Expr{Raw: raw, Modifier: n}, nil
	}

	e := Expr{Raw: raw, Count: 1}
	if countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil || n < 1 {
			return Expr{}, fmt.Errorf("dice: invalid die count in %q", raw)
		}
		e.Count = n
	}

	sidesStr, modStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i >= 0 {
		sidesStr, modStr = rest[:i], rest[i:]
	}
	sides, err := strconv.Atoi(sidesStr)
	if err != nil || sides < 2 {
		return Expr{}, fmt.Errorf("dice: invalid die sides in %q", raw)
	}
	e.Sides = sides
	if modStr != "" {
		m, err := strconv.Atoi(modStr)
		if err != nil {
			return Expr{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
		e.Modifier = m
	}
	return e, nil
}

// MustParse is Parse for literals; it panics on error.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return e
}

// IsFlat reports whether e involves no dice.
func (e Expr) IsFlat() bool { return e.Count == 0 }

// Bounds returns the smallest and largest possible totals.
func (e Expr) Bounds() (int, int) {
	return e.Count + e.Modifier, e.Count*e.Sides + e.Modifier
}

// Roll evaluates e with src.
//
// Postcondition: len(Dice) == Count and every die is in [1, Sides].
func (e Expr) Roll(src Source) Result {
	r := Result{Expr: e.Raw, Modifier: e.Modifier}
	for i := 0; i < e.Count; i++ {
		r.Dice = append(r.Dice, src.Intn(e.Sides)+1)
	}
	return r
}

// String returns the original text.
func (e Expr) String() string { return e.Raw }
