package grid

import "container/heap"

// FindPath runs A* over mask from start to goal using 4-neighbour moves of unit
// cost and the Manhattan heuristic. The start square itself need not be passable,
// so a combatant can plan from the square it occupies.
//
// Precondition: mask is indexed [y][x] and rectangular.
// Postcondition: On success the returned path excludes start, ends at goal, and
// every step is one cardinal move onto a passable square. Returns (nil, false)
// when goal is off the mask, impassable, or unreachable. start == goal yields an
// empty, non-nil path.
func FindPath(mask [][]bool, start, goal Coordinate) ([]Coordinate, bool) {
	if start == goal {
		return []Coordinate{}, true
	}
	if !passable(mask, goal) {
		return nil, false
	}

	open := &nodeQueue{}
	heap.Init(open)
	gScore := map[Coordinate]int{start: 0}
	cameFrom := map[Coordinate]Coordinate{}
	closed := map[Coordinate]bool{}
	seq := 0
	heap.Push(open, &node{at: start, g: 0, f: start.Distance(goal), seq: seq})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if cur.at == goal {
			return reconstruct(cameFrom, start, goal), true
		}
		if closed[cur.at] {
			continue
		}
		closed[cur.at] = true

		for _, next := range cur.at.Neighbors() {
			if !passable(mask, next) || closed[next] {
				continue
			}
			g := cur.g + 1
			if best, seen := gScore[next]; seen && g >= best {
				continue
			}
			gScore[next] = g
			cameFrom[next] = cur.at
			seq++
			heap.Push(open, &node{at: next, g: g, f: g + next.Distance(goal), seq: seq})
		}
	}
	return nil, false
}

func passable(mask [][]bool, c Coordinate) bool {
	if c.Y < 0 || c.Y >= len(mask) || c.X < 0 || c.X >= len(mask[c.Y]) {
		return false
	}
	return mask[c.Y][c.X]
}

func reconstruct(cameFrom map[Coordinate]Coordinate, start, goal Coordinate) []Coordinate {
	var rev []Coordinate
	for at := goal; at != start; at = cameFrom[at] {
		rev = append(rev, at)
	}
	path := make([]Coordinate, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}

type node struct {
	at  Coordinate
	g   int
	f   int
	seq int
}

// nodeQueue orders by f, then by g descending (deeper nodes first), then by
// insertion so that equal-cost searches are reproducible.
type nodeQueue []*node

func (q nodeQueue) Len() int { return len(q) }

func (q nodeQueue) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	if q[i].g != q[j].g {
		return q[i].g > q[j].g
	}
	return q[i].seq < q[j].seq
}

func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *nodeQueue) Push(x any) { *q = append(*q, x.(*node)) }

func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
