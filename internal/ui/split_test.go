package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(x int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func motion(x int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Action: tea.MouseActionMotion}
}

func release(x int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease}
}

func TestNewSplitLayoutClamps(t *testing.T) {
	def := NewSplitLayout(DefaultSplitRatio)
	assert.Equal(t, float64(DefaultSplitRatio), def.Ratio())
	low := NewSplitLayout(5)
	assert.Equal(t, float64(MinSplitRatio), low.Ratio())
	high := NewSplitLayout(99)
	assert.Equal(t, float64(MaxSplitRatio), high.Ratio())
}

func TestSplitDragLifecycle(t *testing.T) {
	s := NewSplitLayout(DefaultSplitRatio)
	s.SetWidth(100)
	require.Equal(t, 66, s.DividerX())

	// Press off the divider does nothing.
	assert.False(t, s.Update(press(10)))
	assert.False(t, s.Dragging())

	// Motion without a drag does nothing.
	assert.False(t, s.Update(motion(10)))
	assert.Equal(t, 66.0, s.Ratio())

	// Press on the divider starts the drag.
	assert.True(t, s.Update(press(66)))
	assert.True(t, s.Dragging())

	// Motion moves the divider.
	assert.True(t, s.Update(motion(40)))
	assert.Equal(t, 40.0, s.Ratio())

	// Release anywhere, even far outside the panels, ends the drag.
	assert.True(t, s.Update(release(300)))
	assert.False(t, s.Dragging())

	// Motion after release no longer moves anything.
	assert.False(t, s.Update(motion(70)))
	assert.Equal(t, 40.0, s.Ratio())
}

func TestSplitRatioAlwaysClamped(t *testing.T) {
	s := NewSplitLayout(DefaultSplitRatio)
	s.SetWidth(100)
	require.True(t, s.Update(press(s.DividerX())))

	for _, x := range []int{-50, 0, 5, 19, 20, 50, 80, 81, 99, 100, 500} {
		s.Update(motion(x))
		assert.GreaterOrEqual(t, s.Ratio(), float64(MinSplitRatio), "x=%d", x)
		assert.LessOrEqual(t, s.Ratio(), float64(MaxSplitRatio), "x=%d", x)
	}
}

func TestSplitPanelWidths(t *testing.T) {
	s := NewSplitLayout(66)
	s.SetWidth(120)

	img := s.ImageWidth()
	chat := s.ChatWidth()
	assert.Equal(t, 79, img)
	assert.Equal(t, 120, img+chat+1) // divider takes one column

	s.SetWidth(0)
	assert.Equal(t, 0, s.ImageWidth())
	assert.Equal(t, 0, s.ChatWidth())
}

func TestSplitFreshMountUsesDefault(t *testing.T) {
	s := NewSplitLayout(DefaultSplitRatio)
	s.SetWidth(100)
	s.Update(press(66))
	s.Update(motion(25))
	s.Update(release(25))
	require.Equal(t, 25.0, s.Ratio())

	// A workspace teardown discards the layout; a fresh mount starts
	// over at the default.
	s = NewSplitLayout(DefaultSplitRatio)
	assert.Equal(t, float64(DefaultSplitRatio), s.Ratio())
}
