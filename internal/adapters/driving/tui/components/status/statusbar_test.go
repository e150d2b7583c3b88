package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/mapstore/internal/core/domain"
)

func TestNewBar_Defaults(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, domain.StateIdle, bar.State())
	assert.Equal(t, 80, bar.Width())
	assert.Empty(t, bar.Message())
	assert.NoError(t, bar.Err())
}

func TestBar_ViewShowsState(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(domain.StateLive)
	bar.SetEventCount(3)
	bar.SetMessage("reloaded office.map")

	view := bar.View()

	assert.Contains(t, view, "live")
	assert.Contains(t, view, "3 changes")
	assert.Contains(t, view, "reloaded office.map")
	assert.Contains(t, view, "r: reload")
	assert.Contains(t, view, "q: quit")
}

func TestBar_ErrorUntilNextMessage(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)
	bar.SetError(errors.New("unrecognized map category"))

	assert.Contains(t, bar.View(), "Error: unrecognized map category")

	bar.SetMessage("reloaded")
	assert.NoError(t, bar.Err())
	assert.NotContains(t, bar.View(), "Error")
}

func TestBar_NarrowWidthStillRenders(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(10)

	assert.NotEmpty(t, bar.View())
}
