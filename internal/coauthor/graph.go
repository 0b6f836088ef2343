// Package coauthor builds coauthorship graphs from bibliographic records and
// answers shortest-path queries over them.
package coauthor

import (
	"fmt"
	"math"
	"slices"
)

// Edge is an outgoing arc of a node, addressed by external author id.
type Edge struct {
	To     int64
	Weight uint32
}

// arc is a directed weighted arc used to assemble a Graph by hand.
type arc struct {
	From   int64
	To     int64
	Weight uint32
}

// Graph is an immutable directed graph in compressed sparse row form.
//
// Nodes are stored under a dense index; ids maps the index back to the author
// id and index maps it forward, so sparse or negative ids never become storage
// offsets. offsets[i]..offsets[i+1] delimit the arcs leaving node i.
type Graph struct {
	ids     []int64
	index   map[int64]int
	offsets []int
	targets []int
	weights []uint32
}

// newGraph assembles a graph over ids from explicit arcs. Parallel arcs are
// summed and self-loops are dropped. Arcs naming an id outside ids fail with
// ErrInvalidNode.
func newGraph(ids []int64, arcs []arc) (*Graph, error) {
	acc, err := newAccumulator(ids)
	if err != nil {
		return nil, err
	}
	for _, a := range arcs {
		from, ok := acc.index[a.From]
		if !ok {
			return nil, fmt.Errorf("%w: arc source %d", ErrInvalidNode, a.From)
		}
		to, ok := acc.index[a.To]
		if !ok {
			return nil, fmt.Errorf("%w: arc target %d", ErrInvalidNode, a.To)
		}
		acc.add(from, to, a.Weight)
	}
	return acc.compress(), nil
}

// NumNodes returns the number of authors in the graph, isolated ones included.
func (g *Graph) NumNodes() int {
	return len(g.ids)
}

// NumEdges returns the number of stored directed arcs.
func (g *Graph) NumEdges() int {
	return len(g.targets)
}

// Contains reports whether id is a node of the graph.
func (g *Graph) Contains(id int64) bool {
	_, ok := g.index[id]
	return ok
}

// IDs returns the node ids in index order.
func (g *Graph) IDs() []int64 {
	return slices.Clone(g.ids)
}

// Degree returns the out-degree of id, or 0 when id is not a node.
func (g *Graph) Degree(id int64) int {
	i, ok := g.index[id]
	if !ok {
		return 0
	}
	start, end := g.edgesFrom(i)
	return end - start
}

// Neighbors returns the arcs leaving id ordered by target index.
func (g *Graph) Neighbors(id int64) ([]Edge, error) {
	i, ok := g.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNode, id)
	}
	start, end := g.edgesFrom(i)
	edges := make([]Edge, 0, end-start)
	for e := start; e < end; e++ {
		edges = append(edges, Edge{To: g.ids[g.targets[e]], Weight: g.weights[e]})
	}
	return edges, nil
}

// weight returns the weight of the arc from -> to, or 0 when there is none.
func (g *Graph) weight(from, to int64) uint32 {
	i, ok := g.index[from]
	if !ok {
		return 0
	}
	j, ok := g.index[to]
	if !ok {
		return 0
	}
	start, end := g.edgesFrom(i)
	row := g.targets[start:end]
	if k, found := slices.BinarySearch(row, j); found {
		return g.weights[start+k]
	}
	return 0
}

func (g *Graph) edgesFrom(i int) (start, end int) {
	return g.offsets[i], g.offsets[i+1]
}

// accumulator gathers weighted arcs per row before compression.
type accumulator struct {
	ids   []int64
	index map[int64]int
	rows  []map[int]uint32
}

func newAccumulator(ids []int64) (*accumulator, error) {
	acc := &accumulator{
		ids:   slices.Clone(ids),
		index: make(map[int64]int, len(ids)),
		rows:  make([]map[int]uint32, len(ids)),
	}
	for i, id := range acc.ids {
		if _, dup := acc.index[id]; dup {
			return nil, fmt.Errorf("%w: id %d", ErrDuplicateAuthor, id)
		}
		acc.index[id] = i
	}
	return acc, nil
}

func (a *accumulator) add(from, to int, weight uint32) {
	if from == to {
		return
	}
	row := a.rows[from]
	if row == nil {
		row = make(map[int]uint32)
		a.rows[from] = row
	}
	row[to] = saturatingAdd(row[to], weight)
}

func (a *accumulator) compress() *Graph {
	total := 0
	for _, row := range a.rows {
		total += len(row)
	}

	g := &Graph{
		ids:     a.ids,
		index:   a.index,
		offsets: make([]int, len(a.ids)+1),
		targets: make([]int, 0, total),
		weights: make([]uint32, 0, total),
	}
	for i, row := range a.rows {
		neighbours := make([]int, 0, len(row))
		for to := range row {
			neighbours = append(neighbours, to)
		}
		slices.Sort(neighbours)
		for _, to := range neighbours {
			g.targets = append(g.targets, to)
			g.weights = append(g.weights, row[to])
		}
		g.offsets[i+1] = len(g.targets)
	}
	return g
}

func saturatingAdd(a, b uint32) uint32 {
	if a > math.MaxUint32-b {
		return math.MaxUint32
	}
	return a + b
}
