package linefile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mapstore/internal/core/domain"
	"github.com/custodia-labs/mapstore/internal/core/ports/driven"
)

func collect(lines *[]driven.Line) driven.LineHandler {
	return func(l driven.Line) error {
		*lines = append(*lines, l)
		return nil
	}
}

func TestTokenizer_Dispatch(t *testing.T) {
	var cairns, other []driven.Line
	tok := New()
	tok.AddHandler("Cairn:", collect(&cairns))
	tok.SetDefaultHandler(collect(&other))

	input := "2D-Map\r\n\ncairn: Goal \"My Goal\" 1 2 0\n  \nDATA\n"
	require.NoError(t, tok.Parse(context.Background(), strings.NewReader(input)))

	require.Len(t, cairns, 1)
	assert.Equal(t, 3, cairns[0].Number)
	assert.Equal(t, "cairn:", cairns[0].Keyword)
	assert.Equal(t, []string{"Goal", "My Goal", "1", "2", "0"}, cairns[0].Args)

	require.Len(t, other, 2)
	assert.Equal(t, driven.Line{Number: 1, Text: "2D-Map", Keyword: "2D-Map"}, other[0])
	assert.Equal(t, "DATA", other[1].Keyword)
	assert.Nil(t, other[1].Args)
}

func TestTokenizer_HandlersChangeDuringParse(t *testing.T) {
	var seen []string
	tok := New()
	tok.AddHandler("start", func(driven.Line) error {
		tok.RemoveHandler("start")
		tok.AddHandler("x", func(l driven.Line) error {
			seen = append(seen, "x:"+l.Args[0])
			return nil
		})
		return nil
	})
	tok.SetDefaultHandler(func(l driven.Line) error {
		seen = append(seen, "default:"+l.Keyword)
		return nil
	})

	err := tok.Parse(context.Background(), strings.NewReader("x 0\nstart\nx 1\nstart\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"default:x", "x:1", "default:start"}, seen)
	assert.True(t, tok.HasHandler("X"))
	assert.False(t, tok.HasHandler("start"))
}

func TestTokenizer_HandlerErrorStops(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	tok := New()
	tok.SetDefaultHandler(func(driven.Line) error {
		calls++
		return boom
	})

	err := tok.Parse(context.Background(), strings.NewReader("a\nb\n"))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestTokenizer_Cancel(t *testing.T) {
	calls := 0
	tok := New()
	tok.SetDefaultHandler(func(driven.Line) error {
		calls++
		tok.Cancel()
		return nil
	})

	err := tok.Parse(context.Background(), strings.NewReader("a\nb\nc\n"))

	assert.ErrorIs(t, err, domain.ErrReadCancelled)
	assert.Equal(t, 1, calls)
}

func TestTokenizer_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New().Parse(ctx, strings.NewReader("a\n"))

	assert.ErrorIs(t, err, domain.ErrReadCancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTokenizer_LineTooLong(t *testing.T) {
	tok := New()
	tok.SetMaxLineSize(16)

	err := tok.Parse(context.Background(), strings.NewReader(strings.Repeat("x", 64)+"\n"))

	assert.Error(t, err)
}

func TestNewFactory(t *testing.T) {
	f := NewFactory()
	a, b := f(), f()
	a.AddHandler("k", func(driven.Line) error { return nil })

	assert.True(t, a.HasHandler("k"))
	assert.False(t, b.HasHandler("k"))
}
