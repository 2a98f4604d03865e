package grid

import (
	"errors"
	"fmt"
)

// TileType classifies a board square.
type TileType int

const (
	Wall TileType = iota
	Walkable
	PlayerStart
	EnemyStart
)

// String returns the tile label used in content files and logs.
func (t TileType) String() string {
	switch t {
	case Wall:
		return "wall"
	case Walkable:
		return "walkable"
	case PlayerStart:
		return "player_start"
	case EnemyStart:
		return "enemy_start"
	default:
		return "unknown"
	}
}

// IsWalkable reports whether a combatant may stand on the tile.
// Start tiles are walkable.
func (t TileType) IsWalkable() bool {
	return t != Wall
}

// Battlefield is an immutable tile grid. Tiles are row-major: tiles[y][x].
//
// Invariant: every row has Size.Length entries; EnemyCount equals the number of
// EnemyStart tiles.
type Battlefield struct {
	name        string
	description string
	tiles       [][]TileType
	size        Size
	enemyCount  int
}

// NewBattlefield validates tiles and builds a Battlefield that owns a private copy.
//
// Precondition: tiles must be non-empty and rectangular.
// Postcondition: Returns a Battlefield or an error describing the first violation.
func NewBattlefield(name, description string, tiles [][]TileType) (*Battlefield, error) {
	if name == "" {
		return nil, errors.New("battlefield: name must not be empty")
	}
	if len(tiles) == 0 || len(tiles[0]) == 0 {
		return nil, fmt.Errorf("battlefield %q: tiles must not be empty", name)
	}
	length := len(tiles[0])
	enemies := 0
	cp := make([][]TileType, len(tiles))
	for y, row := range tiles {
		if len(row) != length {
			return nil, fmt.Errorf("battlefield %q: row %d has %d tiles, want %d", name, y, len(row), length)
		}
		cp[y] = make([]TileType, length)
		copy(cp[y], row)
		for _, t := range row {
			if t < Wall || t > EnemyStart {
				return nil, fmt.Errorf("battlefield %q: row %d: invalid tile %d", name, y, t)
			}
			if t == EnemyStart {
				enemies++
			}
		}
	}
	return &Battlefield{
		name:        name,
		description: description,
		tiles:       cp,
		size:        Size{Length: length, Height: len(tiles)},
		enemyCount:  enemies,
	}, nil
}

// Name returns the display name.
func (b *Battlefield) Name() string { return b.name }

// Description returns the flavour text.
func (b *Battlefield) Description() string { return b.description }

// Size returns the board extent.
func (b *Battlefield) Size() Size { return b.size }

// EnemyCount returns how many enemies this map is built for.
func (b *Battlefield) EnemyCount() int { return b.enemyCount }

// Tile returns the tile at c.
//
// Precondition: Size().Contains(c).
func (b *Battlefield) Tile(c Coordinate) TileType {
	return b.tiles[c.Y][c.X]
}

// IsWalkable reports whether c is on the board and not a wall.
func (b *Battlefield) IsWalkable(c Coordinate) bool {
	return b.size.Contains(c) && b.tiles[c.Y][c.X].IsWalkable()
}

// StartTiles returns every tile of type t in row-major order.
func (b *Battlefield) StartTiles(t TileType) []Coordinate {
	var out []Coordinate
	for y, row := range b.tiles {
		for x, tile := range row {
			if tile == t {
				out = append(out, Coordinate{X: x, Y: y})
			}
		}
	}
	return out
}

// WalkableGrid returns a passability mask indexed [y][x]. A cell is passable iff
// its tile is walkable and it is not listed in excluded.
//
// Postcondition: The returned mask is a fresh allocation owned by the caller.
func (b *Battlefield) WalkableGrid(excluded []Coordinate) [][]bool {
	mask := make([][]bool, b.size.Height)
	for y, row := range b.tiles {
		mask[y] = make([]bool, b.size.Length)
		for x, t := range row {
			mask[y][x] = t.IsWalkable()
		}
	}
	for _, c := range excluded {
		if b.size.Contains(c) {
			mask[c.Y][c.X] = false
		}
	}
	return mask
}

// Clone returns an independent copy so per-battle state never touches a shared template.
func (b *Battlefield) Clone() *Battlefield {
	cp := make([][]TileType, len(b.tiles))
	for y, row := range b.tiles {
		cp[y] = make([]TileType, len(row))
		copy(cp[y], row)
	}
	return &Battlefield{
		name:        b.name,
		description: b.description,
		tiles:       cp,
		size:        b.size,
		enemyCount:  b.enemyCount,
	}
}

// ParseRows builds tiles from the content notation: '#' wall, '.' walkable,
// 'P' player start, 'E' enemy start.
//
// Postcondition: Returns an error on an unknown rune or a ragged row.
func ParseRows(rows []string) ([][]TileType, error) {
	tiles := make([][]TileType, 0, len(rows))
	for y, r := range rows {
		row := make([]TileType, 0, len(r))
		for x, ch := range r {
			switch ch {
			case '#':
				row = append(row, Wall)
			case '.':
				row = append(row, Walkable)
			case 'P':
				row = append(row, PlayerStart)
			case 'E':
				row = append(row, EnemyStart)
			default:
				return nil, fmt.Errorf("row %d col %d: unknown tile %q", y, x, ch)
			}
		}
		if len(tiles) > 0 && len(row) != len(tiles[0]) {
			return nil, fmt.Errorf("row %d: length %d differs from row 0 length %d", y, len(row), len(tiles[0]))
		}
		tiles = append(tiles, row)
	}
	return tiles, nil
}
