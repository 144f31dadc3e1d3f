// Package inflection drives HFST transducers through the hfst-lookup
// binary to generate and analyse word forms.
package inflection

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"
)

var (
	// ErrTimeout is returned when a lookup does not finish in time. Results
	// returned alongside it are the ones read before the deadline.
	ErrTimeout = errors.New("inflection: lookup timed out")
	// ErrNoModel is returned when no transducer exists for a language.
	ErrNoModel = errors.New("inflection: no model")
)

// waitDelay bounds how long Wait blocks on output pipes after the process
// was killed.
const waitDelay = 200 * time.Millisecond

// Lookup runs hfst-lookup over a batch of queries.
type Lookup struct {
	path    string
	timeout time.Duration
}

// NewLookup creates a runner for the hfst-lookup binary at path.
func NewLookup(path string, timeout time.Duration) *Lookup {
	return &Lookup{path: path, timeout: timeout}
}

// Run looks up every query in the transducer at model. The result maps a
// query to its outputs; queries the transducer does not know map to an
// empty slice. On timeout the partial result is returned with ErrTimeout.
func (l *Lookup) Run(ctx context.Context, model string, queries []string) (map[string][]string, error) {
	if len(queries) == 0 {
		return map[string][]string{}, nil
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	out := &syncBuffer{}
	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, l.path, "-q", model)
	cmd.Stdin = strings.NewReader(strings.Join(queries, "\n") + "\n")
	cmd.Stdout = out
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	results := parseLookup(out.Bytes(), err == nil && ctx.Err() == nil)

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return results, ErrTimeout
	case ctx.Err() != nil:
		return results, ctx.Err()
	case err != nil:
		return results, fmt.Errorf("hfst-lookup %s: %w: %s", model, err, strings.TrimSpace(stderr.String()))
	}
	return results, nil
}

// parseLookup reads hfst-lookup output: one "input<TAB>output<TAB>weight"
// line per result, a blank line after each input. Outputs ending in "+?"
// or with infinite weight mean the input is unknown. An input counts only
// once its blank line was read, unless final is set, in which case output
// still pending at the end of data is kept too.
func parseLookup(data []byte, final bool) map[string][]string {
	results := make(map[string][]string)

	var (
		input   string
		pending []string
		open    bool
	)
	commit := func() {
		if open {
			results[input] = pending
		}
		input, pending, open = "", nil, false
	}

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			commit()
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 2 {
			continue
		}
		if open && parts[0] != input {
			commit()
		}
		if !open {
			input, pending, open = parts[0], []string{}, true
		}
		output := parts[1]
		if strings.HasSuffix(output, "+?") {
			continue
		}
		if len(parts) >= 3 && strings.EqualFold(strings.TrimSpace(parts[2]), "inf") {
			continue
		}
		pending = appendUnique(pending, output)
	}
	if final {
		commit()
	}
	return results
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// syncBuffer is written by the exec copy goroutine and read after Wait.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}
