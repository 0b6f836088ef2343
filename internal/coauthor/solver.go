package coauthor

import (
	"container/heap"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Mode selects how arcs are costed by the solver.
type Mode int

const (
	// ModeHops costs every arc 1 regardless of how many articles it stands for.
	ModeHops Mode = iota
	// ModeWeighted uses the accumulated coauthorship count as the arc cost.
	ModeWeighted
)

// ParseMode accepts "hops" (or "") and "weighted".
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "hops", "hop":
		return ModeHops, nil
	case "weighted", "weight":
		return ModeWeighted, nil
	default:
		return ModeHops, fmt.Errorf("unknown distance mode %q", value)
	}
}

func (m Mode) String() string {
	if m == ModeWeighted {
		return "weighted"
	}
	return "hops"
}

// Result is the outcome of a distance query. The zero value is Unreachable.
type Result struct {
	Distance  int64
	Reachable bool
}

// Unreachable is the result of a query with no connecting path.
var Unreachable = Result{}

func (r Result) String() string {
	if !r.Reachable {
		return "unreachable"
	}
	return strconv.FormatInt(r.Distance, 10)
}

// Solver runs Dijkstra searches over a Graph. It holds no state between calls
// and is safe for concurrent use on a shared graph.
type Solver struct {
	mode Mode
}

// NewSolver returns a solver costing arcs according to mode.
func NewSolver(mode Mode) Solver {
	return Solver{mode: mode}
}

// Mode reports the solver's cost mode.
func (s Solver) Mode() Mode {
	return s.mode
}

// Distance returns the shortest distance from source to target.
func (s Solver) Distance(g *Graph, source, target int64) (Result, error) {
	if !g.Contains(target) {
		return Unreachable, fmt.Errorf("%w: target %d", ErrInvalidNode, target)
	}
	if source == target && g.Contains(source) {
		return Result{Reachable: true}, nil
	}
	tree, err := s.ShortestPaths(g, source)
	if err != nil {
		return Unreachable, err
	}
	return tree.DistanceTo(target)
}

// ShortestPaths runs a single-source search from source and returns the
// distances to every node together with the predecessors on shortest paths.
func (s Solver) ShortestPaths(g *Graph, source int64) (*Tree, error) {
	src, ok := g.index[source]
	if !ok {
		return nil, fmt.Errorf("%w: source %d", ErrInvalidNode, source)
	}

	n := g.NumNodes()
	dist := make([]int64, n)
	prev := make([]int, n)
	for i := range dist {
		dist[i] = -1
		prev[i] = -1
	}
	settled := make([]bool, n)

	dist[src] = 0
	pq := &frontier{{node: src}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(frontierItem)
		if settled[item.node] {
			continue
		}
		settled[item.node] = true

		start, end := g.edgesFrom(item.node)
		for e := start; e < end; e++ {
			next := g.targets[e]
			if settled[next] {
				continue
			}
			candidate := item.dist + s.cost(g.weights[e])
			if dist[next] < 0 || candidate < dist[next] {
				dist[next] = candidate
				prev[next] = item.node
				heap.Push(pq, frontierItem{node: next, dist: candidate})
			}
		}
	}

	return &Tree{graph: g, dist: dist, prev: prev}, nil
}

func (s Solver) cost(weight uint32) int64 {
	if s.mode == ModeWeighted {
		return int64(weight)
	}
	return 1
}

// Tree holds the outcome of a single-source search.
type Tree struct {
	graph *Graph
	dist  []int64
	prev  []int
}

// Reached is a node reached by a search and its distance.
type Reached struct {
	ID       int64
	Distance int64
}

// DistanceTo reads the distance to target off the tree.
func (t *Tree) DistanceTo(target int64) (Result, error) {
	i, ok := t.graph.index[target]
	if !ok {
		return Unreachable, fmt.Errorf("%w: target %d", ErrInvalidNode, target)
	}
	if t.dist[i] < 0 {
		return Unreachable, nil
	}
	return Result{Distance: t.dist[i], Reachable: true}, nil
}

// PathTo returns the ids on a shortest path from the source to target, both
// ends included. It returns nil when target is unreachable.
func (t *Tree) PathTo(target int64) ([]int64, error) {
	i, ok := t.graph.index[target]
	if !ok {
		return nil, fmt.Errorf("%w: target %d", ErrInvalidNode, target)
	}
	if t.dist[i] < 0 {
		return nil, nil
	}
	var path []int64
	for cur := i; cur >= 0; cur = t.prev[cur] {
		path = append(path, t.graph.ids[cur])
	}
	slices.Reverse(path)
	return path, nil
}

// Reached lists every node reachable from the source, the source included,
// ordered by distance and then by id.
func (t *Tree) Reached() []Reached {
	var out []Reached
	for i, d := range t.dist {
		if d < 0 {
			continue
		}
		out = append(out, Reached{ID: t.graph.ids[i], Distance: d})
	}
	slices.SortFunc(out, func(a, b Reached) int {
		if a.Distance != b.Distance {
			if a.Distance < b.Distance {
				return -1
			}
			return 1
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

type frontierItem struct {
	node int
	dist int64
}

// frontier is a binary min-heap on tentative distance.
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].node < f[j].node
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
