// Package linkpred suggests missing translations from the existing
// translation graph. Lexemes are nodes, translation relations are
// undirected edges, and candidates two hops away through a pivot language
// are ranked by the Jaccard coefficient of their neighbourhoods.
package linkpred

import (
	"slices"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/verdd/verdd-backend/internal/domain"
)

// Graph is an undirected lexeme graph.
type Graph struct {
	g     *simple.UndirectedGraph
	ids   map[uuid.UUID]int64
	nodes []domain.LexemeRef
}

// Build creates the graph from relation edges. Parallel relations between
// the same pair collapse into one edge; self-loops are ignored.
func Build(edges []domain.RelationEdge) *Graph {
	gr := &Graph{
		g:   simple.NewUndirectedGraph(),
		ids: make(map[uuid.UUID]int64),
	}
	for _, e := range edges {
		if e.From.ID == e.To.ID {
			continue
		}
		from := gr.node(e.From)
		to := gr.node(e.To)
		if gr.g.HasEdgeBetween(from, to) {
			continue
		}
		gr.g.SetEdge(gr.g.NewEdge(simple.Node(from), simple.Node(to)))
	}
	return gr
}

func (gr *Graph) node(ref domain.LexemeRef) int64 {
	if id, ok := gr.ids[ref.ID]; ok {
		return id
	}
	id := int64(len(gr.nodes))
	gr.ids[ref.ID] = id
	gr.nodes = append(gr.nodes, ref)
	gr.g.AddNode(simple.Node(id))
	return id
}

// NodeCount returns the number of lexemes in the graph.
func (gr *Graph) NodeCount() int { return len(gr.nodes) }

// EdgeCount returns the number of distinct undirected edges.
func (gr *Graph) EdgeCount() int { return gr.g.Edges().Len() }

// Neighbors returns the lexemes adjacent to id ordered by headword, or nil
// if id is not in the graph.
func (gr *Graph) Neighbors(id uuid.UUID) []domain.LexemeRef {
	n, ok := gr.ids[id]
	if !ok {
		return nil
	}
	var out []domain.LexemeRef
	for _, v := range graph.NodesOf(gr.g.From(n)) {
		out = append(out, gr.nodes[v.ID()])
	}
	slices.SortFunc(out, compareRefs)
	return out
}

// neighborSet returns the ids adjacent to n.
func (gr *Graph) neighborSet(n int64) map[int64]struct{} {
	it := gr.g.From(n)
	set := make(map[int64]struct{}, it.Len())
	for it.Next() {
		set[it.Node().ID()] = struct{}{}
	}
	return set
}

// Jaccard returns |a ∩ b| / |a ∪ b|, or 0 when both sets are empty.
func Jaccard(a, b map[int64]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}
