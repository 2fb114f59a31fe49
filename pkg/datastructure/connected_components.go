package datastructure

// ConnectedComponents. breadth-first search over the undirected graph. components are ordered by
// their smallest vertex and each component lists its vertices in ascending order. isolated
// vertices form singleton components.
func (g *Graph) ConnectedComponents() [][]Index {
	n := g.NumberOfVertices()
	visited := make([]bool, n)
	components := make([][]Index, 0, 10)

	for s := 0; s < n; s++ {
		if visited[s] {
			continue
		}
		component := make([]Index, 0, 4)
		queue := []Index{Index(s)}
		visited[s] = true

		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			component = append(component, u)

			g.ForOutEdgesOf(u, func(v Index) {
				if !visited[v] {
					visited[v] = true
					queue = append(queue, v)
				}
			})
		}

		sortIndices(component)
		components = append(components, component)
	}
	return components
}
