package linkpred

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdd/verdd-backend/internal/domain"
)

func TestWriteTSV(t *testing.T) {
	t.Parallel()

	preds := []Prediction{{
		Source: ref("kuõll", "sms", domain.PartOfSpeechNoun),
		Target: ref("kala", "fin", domain.PartOfSpeechNoun),
		Score:  2.0 / 3.0,
		Pivots: []domain.LexemeRef{ref("fish", "eng", ""), ref("fisk", "nob", "")},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteTSV(&buf, preds))

	want := "source\tsource_pos\ttarget\ttarget_pos\tscore\tpivots\n" +
		"kuõll\tN\tkala\tN\t0.6667\tfish, fisk\n"
	assert.Equal(t, want, buf.String())
}
