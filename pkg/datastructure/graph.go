package datastructure

import (
	"errors"
	"sort"
)

type Index uint32

var (
	ErrCycle          = errors.New("graph contains a cycle")
	ErrAmbiguousOrder = errors.New("graph has no unique topological order")
)

// Graph is an adjacency-list graph over the vertices 0..n-1. the same type serves undirected
// graphs (AddUndirectedEdge) and directed graphs (AddEdge).
type Graph struct {
	adj      [][]Index
	inDegree []int
}

func NewGraph(n int) *Graph {
	return &Graph{
		adj:      make([][]Index, n),
		inDegree: make([]int, n),
	}
}

func (g *Graph) NumberOfVertices() int {
	return len(g.adj)
}

// AddEdge. directed edge u -> v. duplicate edges are ignored.
func (g *Graph) AddEdge(u, v Index) {
	for _, w := range g.adj[u] {
		if w == v {
			return
		}
	}
	g.adj[u] = append(g.adj[u], v)
	g.inDegree[v]++
}

func (g *Graph) AddUndirectedEdge(u, v Index) {
	g.AddEdge(u, v)
	g.AddEdge(v, u)
}

func (g *Graph) ForOutEdgesOf(u Index, handle func(v Index)) {
	for _, v := range g.adj[u] {
		handle(v)
	}
}

// TopologicalOrder. kahn's algorithm over the subgraph induced by vertices. the order must be
// unique: if more than one vertex is available at any step ErrAmbiguousOrder is returned, and if
// the subgraph has a cycle ErrCycle is returned.
func (g *Graph) TopologicalOrder(vertices []Index) ([]Index, error) {
	inSub := make(map[Index]bool, len(vertices))
	for _, v := range vertices {
		inSub[v] = true
	}

	inDegree := make(map[Index]int, len(vertices))
	for _, u := range vertices {
		g.ForOutEdgesOf(u, func(v Index) {
			if inSub[v] {
				inDegree[v]++
			}
		})
	}

	queue := make([]Index, 0, len(vertices))
	for _, v := range vertices {
		if inDegree[v] == 0 {
			queue = append(queue, v)
		}
	}

	order := make([]Index, 0, len(vertices))
	for len(queue) > 0 {
		if len(queue) > 1 {
			return nil, ErrAmbiguousOrder
		}
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)

		g.ForOutEdgesOf(u, func(v Index) {
			if !inSub[v] {
				return
			}
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		})
	}

	if len(order) != len(vertices) {
		return nil, ErrCycle
	}
	return order, nil
}

func sortIndices(ids []Index) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
