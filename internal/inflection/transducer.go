package inflection

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	generatorModel = "generator-gt-norm.hfstol"
	analyserModel  = "analyser-gt-desc.hfstol"
)

type runner interface {
	Run(ctx context.Context, model string, queries []string) (map[string][]string, error)
}

// Transducers generates and analyses word forms for every language that
// has models under modelsDir/<lang>/. Results are cached per language and
// query.
type Transducers struct {
	run       runner
	modelsDir string
	cache     *lru.Cache[string, []string]
}

// NewTransducers creates a cached front for the lookup runner.
func NewTransducers(run runner, modelsDir string, cacheSize int) (*Transducers, error) {
	if cacheSize <= 0 {
		cacheSize = 1
	}
	cache, err := lru.New[string, []string](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &Transducers{run: run, modelsDir: modelsDir, cache: cache}, nil
}

// Generate returns the surface forms of each query ("lemma+N+Sg+Gen").
// On ErrTimeout the forms generated before the deadline are returned.
func (t *Transducers) Generate(ctx context.Context, lang string, queries []string) (map[string][]string, error) {
	return t.lookup(ctx, "g", lang, generatorModel, queries)
}

// Analyze returns the analyses of a word form.
func (t *Transducers) Analyze(ctx context.Context, lang, wordform string) ([]Analysis, error) {
	res, err := t.lookup(ctx, "a", lang, analyserModel, []string{wordform})
	if err != nil {
		return nil, err
	}
	raw := res[wordform]
	out := make([]Analysis, 0, len(raw))
	for _, r := range raw {
		out = append(out, ParseAnalysis(r))
	}
	return out, nil
}

// HasModels reports whether a generator exists for lang.
func (t *Transducers) HasModels(lang string) bool {
	_, err := os.Stat(t.modelPath(lang, generatorModel))
	return err == nil
}

func (t *Transducers) modelPath(lang, model string) string {
	return filepath.Join(t.modelsDir, lang, model)
}

func (t *Transducers) lookup(ctx context.Context, kind, lang, model string, queries []string) (map[string][]string, error) {
	results := make(map[string][]string, len(queries))
	var missing []string
	for _, q := range queries {
		if forms, ok := t.cache.Get(cacheKey(kind, lang, q)); ok {
			results[q] = forms
			continue
		}
		missing = append(missing, q)
	}
	if len(missing) == 0 {
		return results, nil
	}

	path := t.modelPath(lang, model)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return results, fmt.Errorf("%w for %s", ErrNoModel, lang)
		}
		return results, fmt.Errorf("stat model: %w", err)
	}

	fetched, err := t.run.Run(ctx, path, missing)
	for q, forms := range fetched {
		results[q] = forms
		t.cache.Add(cacheKey(kind, lang, q), forms)
	}
	return results, err
}

func cacheKey(kind, lang, query string) string {
	return kind + "|" + lang + "|" + query
}

// Analysis is one reading of a word form.
type Analysis struct {
	Lemma string   `json:"lemma"`
	Tags  []string `json:"tags"`
	Raw   string   `json:"raw"`
}

// ParseAnalysis splits "kuõll+N+Sg+Nom" into lemma and tags. Compound
// boundaries ("#") are kept inside the lemma.
func ParseAnalysis(raw string) Analysis {
	parts := strings.Split(raw, "+")
	a := Analysis{Lemma: parts[0], Raw: raw, Tags: []string{}}
	if len(parts) > 1 {
		a.Tags = parts[1:]
	}
	return a
}

// POS returns the first tag, which Giella analysers use for part of speech.
func (a Analysis) POS() string {
	if len(a.Tags) == 0 {
		return ""
	}
	return a.Tags[0]
}
