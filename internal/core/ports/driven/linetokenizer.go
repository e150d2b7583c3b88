package driven

import (
	"context"
	"io"
)

// Line is one non-blank line of a map file.
type Line struct {
	// Number is the 1-based line number in the file.
	Number int

	// Text is the line without its line ending.
	Text string

	// Keyword is the first token of the line.
	Keyword string

	// Args are the tokens after the keyword, unquoted.
	Args []string
}

// LineHandler processes one dispatched line.
// Returning an error stops parsing and Parse returns that error.
type LineHandler func(line Line) error

// LineTokenizer splits a map file into lines and dispatches them by keyword.
//
// Handlers may be added and removed while parsing; the change applies from
// the next line. Keywords match case-insensitively. Lines whose keyword has
// no handler go to the default handler. Blank lines are skipped.
type LineTokenizer interface {
	// AddHandler registers fn for lines starting with keyword,
	// replacing any previous handler.
	AddHandler(keyword string, fn LineHandler)

	// RemoveHandler unregisters the handler for keyword.
	RemoveHandler(keyword string)

	// HasHandler reports whether keyword has a handler.
	HasHandler(keyword string) bool

	// SetDefaultHandler registers the handler for unmatched lines.
	SetDefaultHandler(fn LineHandler)

	// Parse reads r to the end, dispatching every line.
	// Returns domain.ErrReadCancelled if Cancel was called or ctx was done.
	Parse(ctx context.Context, r io.Reader) error

	// Cancel stops a running Parse at the next line boundary.
	// Safe to call from any goroutine.
	Cancel()
}

// LineTokenizerFactory creates a tokenizer for one read.
type LineTokenizerFactory func() LineTokenizer
