package linkpred

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var tsvHeader = []string{"source", "source_pos", "target", "target_pos", "score", "pivots"}

// WriteTSV writes predictions one per line. Pivots are joined with ", ".
func WriteTSV(w io.Writer, preds []Prediction) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write(tsvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range preds {
		pivots := make([]string, len(p.Pivots))
		for i, pv := range p.Pivots {
			pivots[i] = pv.Lexeme
		}
		row := []string{
			p.Source.Lexeme, string(p.Source.POS),
			p.Target.Lexeme, string(p.Target.POS),
			strconv.FormatFloat(p.Score, 'f', 4, 64),
			strings.Join(pivots, ", "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
