package stats

import "github.com/nrayman/satlink/topology"

// connectedComponents counts connected components via iterative DFS.
func connectedComponents(g *topology.Graph) int {
	visited := make(map[int]bool)
	count := 0
	for _, n := range g.Nodes() {
		if visited[n] {
			continue
		}
		count++
		stack := []int{n}
		visited[n] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, nb := range g.Neighbors(cur) {
				if !visited[nb] {
					visited[nb] = true
					stack = append(stack, nb)
				}
			}
		}
	}
	return count
}

// frame is one DFS stack entry for the iterative Tarjan walk below: the
// node being visited, its full neighbor list, and the index of the next
// neighbor to examine. Recursion depth would otherwise be bounded by the
// default goroutine stack, which does not hold for constellations of a
// few thousand satellites (spec.md §9 "Recursion depth").
type frame struct {
	node      int
	neighbors []int
	i         int
}

// articulationPoints returns the articulation points of g via standard
// Tarjan low-link DFS, reimplemented with an explicit stack in place of
// the recursive formulation (spec.md §4.7). A non-root node v is an
// articulation point iff it has a child u with low[u] >= depth[v]; the
// root is an articulation point iff it has at least two DFS children.
// Back-edges to a node's own parent do not update low.
func articulationPoints(g *topology.Graph) []int {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}

	const noParent = -1
	visited := make(map[int]bool, len(nodes))
	depth := make(map[int]int, len(nodes))
	low := make(map[int]int, len(nodes))
	parent := make(map[int]int, len(nodes))
	isArticulation := make(map[int]bool)
	timer := 0

	for _, root := range nodes {
		if visited[root] {
			continue
		}

		visited[root] = true
		depth[root] = timer
		low[root] = timer
		parent[root] = noParent
		timer++
		rootChildren := 0

		stack := []*frame{{node: root, neighbors: g.Neighbors(root)}}

		for len(stack) > 0 {
			top := stack[len(stack)-1]

			if top.i < len(top.neighbors) {
				n := top.neighbors[top.i]
				top.i++

				if !visited[n] {
					visited[n] = true
					parent[n] = top.node
					depth[n] = timer
					low[n] = timer
					timer++
					if top.node == root {
						rootChildren++
					}
					stack = append(stack, &frame{node: n, neighbors: g.Neighbors(n)})
				} else if n != parent[top.node] {
					if depth[n] < low[top.node] {
						low[top.node] = depth[n]
					}
				}
				continue
			}

			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				continue
			}

			p := stack[len(stack)-1]
			if low[top.node] < low[p.node] {
				low[p.node] = low[top.node]
			}
			if p.node != root && low[top.node] >= depth[p.node] {
				isArticulation[p.node] = true
			}
		}

		if rootChildren > 1 {
			isArticulation[root] = true
		}
	}

	points := make([]int, 0, len(isArticulation))
	for n := range isArticulation {
		points = append(points, n)
	}
	return points
}
