package inflection

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdd/verdd-backend/internal/domain"
)

type fakeRunner struct {
	mu      sync.Mutex
	calls   [][]string
	results map[string][]string
	err     error
}

func (f *fakeRunner) Run(_ context.Context, _ string, queries []string) (map[string][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string(nil), queries...))
	out := make(map[string][]string)
	for _, q := range queries {
		if r, ok := f.results[q]; ok {
			out[q] = r
		}
	}
	return out, f.err
}

func modelsDir(t *testing.T, langs ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, lang := range langs {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, lang), 0o755))
		for _, m := range []string{generatorModel, analyserModel} {
			require.NoError(t, os.WriteFile(filepath.Join(dir, lang, m), nil, 0o644))
		}
	}
	return dir
}

func TestTransducers_Generate_Caches(t *testing.T) {
	t.Parallel()

	run := &fakeRunner{results: map[string][]string{
		"kuõll+N+Sg+Gen": {"kuõl"},
		"kuõll+N+Pl+Nom": {"kuõl"},
	}}
	tr, err := NewTransducers(run, modelsDir(t, "sms"), 16)
	require.NoError(t, err)

	got, err := tr.Generate(context.Background(), "sms", []string{"kuõll+N+Sg+Gen"})
	require.NoError(t, err)
	assert.Equal(t, []string{"kuõl"}, got["kuõll+N+Sg+Gen"])

	got, err = tr.Generate(context.Background(), "sms", []string{"kuõll+N+Sg+Gen", "kuõll+N+Pl+Nom"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	require.Len(t, run.calls, 2)
	assert.Equal(t, []string{"kuõll+N+Pl+Nom"}, run.calls[1])
}

func TestTransducers_NoModel(t *testing.T) {
	t.Parallel()

	tr, err := NewTransducers(&fakeRunner{}, modelsDir(t, "sms"), 4)
	require.NoError(t, err)

	assert.True(t, tr.HasModels("sms"))
	assert.False(t, tr.HasModels("fin"))

	_, err = tr.Generate(context.Background(), "fin", []string{"kala+N+Sg+Gen"})
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestTransducers_TimeoutCachesPartial(t *testing.T) {
	t.Parallel()

	run := &fakeRunner{results: map[string][]string{"a": {"a1"}}, err: ErrTimeout}
	tr, err := NewTransducers(run, modelsDir(t, "sms"), 4)
	require.NoError(t, err)

	got, err := tr.Generate(context.Background(), "sms", []string{"a", "b"})
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, []string{"a1"}, got["a"])

	run.err = nil
	_, err = tr.Generate(context.Background(), "sms", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, run.calls[1])
}

func TestTransducers_Analyze(t *testing.T) {
	t.Parallel()

	run := &fakeRunner{results: map[string][]string{"kuõl": {"kuõll+N+Sg+Gen", "kuõll+N+Pl+Nom"}}}
	tr, err := NewTransducers(run, modelsDir(t, "sms"), 4)
	require.NoError(t, err)

	got, err := tr.Analyze(context.Background(), "sms", "kuõl")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "kuõll", got[0].Lemma)
	assert.Equal(t, "N", got[0].POS())
	assert.Equal(t, []string{"N", "Sg", "Gen"}, got[0].Tags)
}

func TestParseAnalysis(t *testing.T) {
	t.Parallel()

	a := ParseAnalysis("kuõll#vuejj")
	assert.Equal(t, "kuõll#vuejj", a.Lemma)
	assert.Empty(t, a.Tags)
	assert.Empty(t, a.POS())
}

func TestTemplateAndQuery(t *testing.T) {
	t.Parallel()

	assert.NotEmpty(t, Template("sms", domain.PartOfSpeechNoun))
	assert.Nil(t, Template("eng", domain.PartOfSpeechNoun))
	assert.Equal(t, "kuõll+N+Sg+Gen", Query("kuõll", domain.PartOfSpeechNoun, "Sg+Gen"))
	assert.Equal(t, "Sg+Gen", NormalizeMSD(domain.PartOfSpeechNoun, "N+Sg+Gen"))
	assert.Equal(t, "Sg+Gen", NormalizeMSD(domain.PartOfSpeechNoun, " +Sg+Gen "))
}
