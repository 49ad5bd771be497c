package engine

// TopoOrder returns node ids in execution order using Kahn's algorithm.
//
// Ready nodes are processed in FIFO arrival order: the initial frontier follows
// graph node order and neighbours are released in edge-list order. The graph
// must already have passed Validate; nodes on a cycle never reach in-degree
// zero and are left out of the result.
func TopoOrder(g *Graph) []string {
	idx := g.nodeIndex()
	adj := g.adjacency(idx)

	inDegree := make(map[string]int, len(idx))
	for id := range idx {
		inDegree[id] = 0
	}
	for _, targets := range adj {
		for _, t := range targets {
			inDegree[t]++
		}
	}

	queue := make([]string, 0, len(idx))
	queued := make(map[string]bool, len(idx))
	for _, n := range g.Nodes {
		if inDegree[n.ID] == 0 && !queued[n.ID] {
			queue = append(queue, n.ID)
			queued[n.ID] = true
		}
	}

	order := make([]string, 0, len(idx))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		order = append(order, current)

		for _, next := range adj[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	return order
}
