package ijgp

import (
	"strconv"

	"github.com/katalvlaran/lvlath/core"
)

// BuildPrimalGraph constructs the undirected primal graph over p's
// variables: an edge connects two variable ids whenever some constraint's
// scope contains both. Variable ids are stringified into lvlath vertex ids.
func BuildPrimalGraph(p *Problem) (*core.Graph, error) {
	g := core.NewGraph()
	for _, v := range p.Variables() {
		if err := g.AddVertex(varVertexID(v.ID())); err != nil {
			return nil, err
		}
	}
	for _, c := range p.Constraints() {
		scope := c.Scope()
		for i := 0; i < len(scope); i++ {
			for j := i + 1; j < len(scope); j++ {
				from, to := varVertexID(scope[i]), varVertexID(scope[j])
				if g.HasEdge(from, to) || g.HasEdge(to, from) {
					continue
				}
				if _, err := g.AddEdge(from, to, 0); err != nil {
					return nil, err
				}
			}
		}
	}
	return g, nil
}

func varVertexID(id VarID) string {
	return strconv.Itoa(int(id))
}

func vertexIDToVar(s string) VarID {
	n, _ := strconv.Atoi(s)
	return VarID(n)
}

// MinInducedWidthOrdering computes an elimination ordering by iterated
// min-degree vertex removal: repeatedly pick the remaining vertex of
// smallest degree, place it at the current last position of the ordering,
// and connect every pair of its still-remaining neighbours ("fill-in")
// before removing it. Ties are broken by the graph's vertex iteration
// order. The first-eliminated vertex therefore lands at the end of the
// returned slice and the last-eliminated vertex at the front — buckets and
// join-graph construction consume the ordering front-to-back, i.e. in
// reverse elimination order. Grounded on the original
// minInducedWidthOrdering.
func MinInducedWidthOrdering(g *core.Graph) ([]VarID, error) {
	work := g.Clone()
	ordering := make([]VarID, work.VertexCount())
	next := len(ordering) - 1

	for work.VertexCount() > 0 {
		vertices := work.Vertices()

		bestID := ""
		bestDegree := -1
		for _, id := range vertices {
			neighbors, err := work.NeighborIDs(id)
			if err != nil {
				return nil, err
			}
			degree := len(neighbors)
			if bestDegree < 0 || degree < bestDegree {
				bestDegree = degree
				bestID = id
			}
		}

		neighbors, err := work.NeighborIDs(bestID)
		if err != nil {
			return nil, err
		}
		for i := 0; i < len(neighbors); i++ {
			for j := i + 1; j < len(neighbors); j++ {
				a, b := neighbors[i], neighbors[j]
				if !work.HasEdge(a, b) && !work.HasEdge(b, a) {
					if _, err := work.AddEdge(a, b, 0); err != nil {
						return nil, err
					}
				}
			}
		}

		if err := work.RemoveVertex(bestID); err != nil {
			return nil, err
		}
		ordering[next] = vertexIDToVar(bestID)
		next--
	}

	return ordering, nil
}
