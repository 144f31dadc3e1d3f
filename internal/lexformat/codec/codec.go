// Package codec dispatches to the format packages by name.
package codec

import (
	"fmt"
	"io"

	"github.com/verdd/verdd-backend/internal/lexformat"
	"github.com/verdd/verdd-backend/internal/lexformat/dix"
	"github.com/verdd/verdd-backend/internal/lexformat/giellaxml"
	"github.com/verdd/verdd-backend/internal/lexformat/lexc"
	"github.com/verdd/verdd-backend/internal/lexformat/tabular"
)

// Parse reads r in format f.
func Parse(f lexformat.Format, r io.Reader, opts lexformat.Options) (lexformat.Result, error) {
	switch f {
	case lexformat.FormatTSV, lexformat.FormatCSV:
		return tabular.Parse(r, tabular.Separator(f), opts)
	case lexformat.FormatLEXC:
		return lexc.Parse(r, opts)
	case lexformat.FormatGiellaXML:
		return giellaxml.Parse(r, opts)
	case lexformat.FormatDIX:
		return dix.Parse(r, opts)
	}
	return lexformat.Result{}, fmt.Errorf("unsupported format %q", f)
}

// Write writes records to w in format f.
func Write(f lexformat.Format, w io.Writer, records []lexformat.Record) error {
	switch f {
	case lexformat.FormatTSV, lexformat.FormatCSV:
		return tabular.Write(w, tabular.Separator(f), records)
	case lexformat.FormatLEXC:
		return lexc.Write(w, records)
	case lexformat.FormatGiellaXML:
		return giellaxml.Write(w, records)
	case lexformat.FormatDIX:
		return dix.Write(w, records)
	}
	return fmt.Errorf("unsupported format %q", f)
}

// ContentType returns the MIME type used when serving format f.
func ContentType(f lexformat.Format) string {
	switch f {
	case lexformat.FormatTSV:
		return "text/tab-separated-values; charset=utf-8"
	case lexformat.FormatCSV:
		return "text/csv; charset=utf-8"
	case lexformat.FormatGiellaXML, lexformat.FormatDIX:
		return "application/xml; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}
