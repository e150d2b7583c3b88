// Package linefile provides the line tokenizer used to read map files.
package linefile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.LineTokenizer = (*Tokenizer)(nil)

// DefaultMaxLineSize bounds the length of one line.
const DefaultMaxLineSize = 1 << 20

// Tokenizer splits input into quote-aware tokens and dispatches each line
// by its first token. Handlers are only touched from the parsing goroutine;
// Cancel may be called from anywhere.
type Tokenizer struct {
	handlers       map[string]driven.LineHandler
	defaultHandler driven.LineHandler
	maxLineSize    int
	cancelled      atomic.Bool
}

// New creates a tokenizer with no handlers.
func New() *Tokenizer {
	return &Tokenizer{
		handlers:    make(map[string]driven.LineHandler),
		maxLineSize: DefaultMaxLineSize,
	}
}

// NewFactory returns a factory creating a fresh tokenizer per read.
func NewFactory() driven.LineTokenizerFactory {
	return func() driven.LineTokenizer { return New() }
}

// SetMaxLineSize changes the longest accepted line.
func (t *Tokenizer) SetMaxLineSize(n int) {
	if n > 0 {
		t.maxLineSize = n
	}
}

// AddHandler registers fn for lines starting with keyword.
func (t *Tokenizer) AddHandler(keyword string, fn driven.LineHandler) {
	t.handlers[strings.ToLower(keyword)] = fn
}

// RemoveHandler unregisters the handler for keyword.
func (t *Tokenizer) RemoveHandler(keyword string) {
	delete(t.handlers, strings.ToLower(keyword))
}

// HasHandler reports whether keyword has a handler.
func (t *Tokenizer) HasHandler(keyword string) bool {
	_, ok := t.handlers[strings.ToLower(keyword)]
	return ok
}

// SetDefaultHandler registers the handler for unmatched lines.
func (t *Tokenizer) SetDefaultHandler(fn driven.LineHandler) {
	t.defaultHandler = fn
}

// Cancel stops Parse before the next line.
func (t *Tokenizer) Cancel() {
	t.cancelled.Store(true)
}

// Parse reads r line by line until EOF, a handler error or cancellation.
func (t *Tokenizer) Parse(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, min(64*1024, t.maxLineSize)), t.maxLineSize)

	n := 0
	for sc.Scan() {
		n++
		if t.cancelled.Load() {
			return domain.ErrReadCancelled
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrReadCancelled, err)
		}

		text := sc.Text()
		tokens := domain.SplitTokens(text)
		if len(tokens) == 0 {
			continue
		}
		line := driven.Line{Number: n, Text: text, Keyword: tokens[0]}
		if len(tokens) > 1 {
			line.Args = tokens[1:]
		}

		fn, ok := t.handlers[strings.ToLower(line.Keyword)]
		if !ok {
			fn = t.defaultHandler
		}
		if fn == nil {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scanning line %d: %w", n+1, err)
	}
	return nil
}
