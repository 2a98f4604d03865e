// Package grid provides the battle board: coordinates, directions, tiles,
// battlefields and shortest-path search over them.
package grid

import "fmt"

// Coordinate is a board square. X is the column, Y is the row.
type Coordinate struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// String renders the coordinate as "(x,y)".
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns c translated by d's unit vector.
func (c Coordinate) Add(d Direction) Coordinate {
	dx, dy := d.Delta()
	return Coordinate{X: c.X + dx, Y: c.Y + dy}
}

// Distance returns the Manhattan distance between c and o.
//
// Postcondition: Returns >= 0.
func (c Coordinate) Distance(o Coordinate) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

// Adjacent reports whether o is one cardinal step away from c.
func (c Coordinate) Adjacent(o Coordinate) bool {
	return c.Distance(o) == 1
}

// Neighbors returns the four cardinal neighbours of c in Up, Down, Left, Right
// order. Results may lie outside any particular board; callers filter with Size.Contains.
func (c Coordinate) Neighbors() []Coordinate {
	out := make([]Coordinate, 0, len(Cardinals))
	for _, d := range Cardinals {
		out = append(out, c.Add(d))
	}
	return out
}

// Size is the board extent: Length columns by Height rows.
type Size struct {
	Length int
	Height int
}

// Contains reports whether c lies on a board of this size.
func (s Size) Contains(c Coordinate) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < s.Length && c.Y < s.Height
}

// Direction is a cardinal movement direction.
type Direction string

// Cardinal directions. Up decreases Y.
const (
	Up    Direction = "up"
	Down  Direction = "down"
	Left  Direction = "left"
	Right Direction = "right"
)

// Cardinals lists the four movement directions.
var Cardinals = []Direction{Up, Down, Left, Right}

// Delta returns the unit vector for d; (0,0) for an unknown direction.
func (d Direction) Delta() (int, int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 0
	}
}

// ParseDirection maps a user token to a Direction. Single-letter and compass
// aliases (u/d/l/r, n/s/w/e) are accepted.
//
// Postcondition: Returns an error for anything that is not a cardinal direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up", "u", "north", "n":
		return Up, nil
	case "down", "d", "south", "s":
		return Down, nil
	case "left", "l", "west", "w":
		return Left, nil
	case "right", "r", "east", "e":
		return Right, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
