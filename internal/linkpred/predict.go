package linkpred

import (
	"cmp"
	"slices"
	"strings"

	"github.com/verdd/verdd-backend/internal/domain"
)

// Options selects which candidates Predict produces.
type Options struct {
	Source string
	Target string
	// Pivots restricts the intermediate languages. Empty means every
	// language other than Source and Target.
	Pivots []string
	// TopK keeps at most this many candidates per source lexeme. 0 keeps all.
	TopK int
	// MinScore drops candidates whose score is not above it.
	MinScore float64
	// SamePOS keeps only candidates with the source's part of speech.
	SamePOS bool
}

// Prediction is a suggested translation Source → Target.
type Prediction struct {
	Source domain.LexemeRef
	Target domain.LexemeRef
	Score  float64
	// Pivots are the pivot-language lexemes linking Source and Target,
	// sorted by text.
	Pivots []domain.LexemeRef
}

// Predict returns candidate translations ordered by source text, then
// score descending, then target text and id.
func (gr *Graph) Predict(opts Options) []Prediction {
	isPivot := pivotFilter(opts)

	sources := make([]int64, 0)
	for id, ref := range gr.nodes {
		if ref.Language == opts.Source {
			sources = append(sources, int64(id))
		}
	}
	slices.SortFunc(sources, func(a, b int64) int { return compareRefs(gr.nodes[a], gr.nodes[b]) })

	var out []Prediction
	for _, s := range sources {
		out = append(out, gr.predictFrom(s, opts, isPivot)...)
	}
	return out
}

func (gr *Graph) predictFrom(s int64, opts Options, isPivot func(string) bool) []Prediction {
	src := gr.nodes[s]
	ns := gr.neighborSet(s)

	// Candidate target → pivots reaching it.
	via := make(map[int64][]int64)
	for p := range ns {
		if !isPivot(gr.nodes[p].Language) {
			continue
		}
		for t := range gr.neighborSet(p) {
			if t == s {
				continue
			}
			ref := gr.nodes[t]
			if ref.Language != opts.Target {
				continue
			}
			if _, adjacent := ns[t]; adjacent {
				continue
			}
			if opts.SamePOS && ref.POS != src.POS {
				continue
			}
			via[t] = append(via[t], p)
		}
	}

	preds := make([]Prediction, 0, len(via))
	for t, pivots := range via {
		score := Jaccard(ns, gr.neighborSet(t))
		if score <= opts.MinScore {
			continue
		}
		refs := make([]domain.LexemeRef, len(pivots))
		for i, p := range pivots {
			refs[i] = gr.nodes[p]
		}
		slices.SortFunc(refs, compareRefs)
		preds = append(preds, Prediction{Source: src, Target: gr.nodes[t], Score: score, Pivots: refs})
	}

	slices.SortFunc(preds, func(a, b Prediction) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return compareRefs(a.Target, b.Target)
	})
	if opts.TopK > 0 && len(preds) > opts.TopK {
		preds = preds[:opts.TopK]
	}
	return preds
}

func pivotFilter(opts Options) func(string) bool {
	if len(opts.Pivots) == 0 {
		return func(lang string) bool { return lang != opts.Source && lang != opts.Target }
	}
	allowed := make(map[string]bool, len(opts.Pivots))
	for _, p := range opts.Pivots {
		allowed[p] = true
	}
	return func(lang string) bool { return allowed[lang] }
}

func compareRefs(a, b domain.LexemeRef) int {
	if c := strings.Compare(a.Lexeme, b.Lexeme); c != 0 {
		return c
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}
