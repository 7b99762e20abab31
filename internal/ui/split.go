package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Split ratio bounds, in percent of the container width allocated to
// the image panel. The chat panel gets the remainder.
const (
	MinSplitRatio     = 20
	MaxSplitRatio     = 80
	DefaultSplitRatio = 66
)

// SplitLayout tracks the draggable divider between the image panel and
// the chat panel. It receives every mouse event the program sees, not
// just events over the divider, so a fast drag that leaves the divider
// column and a release outside the panels still behave correctly.
type SplitLayout struct {
	ratio    float64
	dragging bool
	width    int
}

// NewSplitLayout creates a layout at the given initial ratio, clamped
// to the valid range.
func NewSplitLayout(ratio int) SplitLayout {
	return SplitLayout{ratio: clampRatio(float64(ratio))}
}

// SetWidth records the container width in cells.
func (s *SplitLayout) SetWidth(w int) {
	if w < 0 {
		w = 0
	}
	s.width = w
}

// Ratio returns the image panel's percentage width.
func (s *SplitLayout) Ratio() float64 {
	return s.ratio
}

// Dragging reports whether a divider drag is in progress.
func (s *SplitLayout) Dragging() bool {
	return s.dragging
}

// ImageWidth returns the image panel width in cells.
func (s *SplitLayout) ImageWidth() int {
	w := int(float64(s.width) * s.ratio / 100)
	if w < 0 {
		w = 0
	}
	return w
}

// ChatWidth returns the chat panel width in cells, one column short of
// the remainder to leave room for the divider.
func (s *SplitLayout) ChatWidth() int {
	w := s.width - s.ImageWidth() - 1
	if w < 0 {
		w = 0
	}
	return w
}

// DividerX returns the divider's column.
func (s *SplitLayout) DividerX() int {
	return s.ImageWidth()
}

// Update feeds one mouse event into the drag state machine. It returns
// true when the event was consumed: a press on the divider starts a
// drag, motion while dragging moves the divider (clamped), and a
// release anywhere ends the drag.
func (s *SplitLayout) Update(msg tea.MouseMsg) bool {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && msg.X == s.DividerX() {
			s.dragging = true
			return true
		}
	case tea.MouseActionMotion:
		if s.dragging && s.width > 0 {
			s.ratio = clampRatio(float64(msg.X) / float64(s.width) * 100)
			return true
		}
	case tea.MouseActionRelease:
		if s.dragging {
			s.dragging = false
			return true
		}
	}
	return false
}

func clampRatio(r float64) float64 {
	if r < MinSplitRatio {
		return MinSplitRatio
	}
	if r > MaxSplitRatio {
		return MaxSplitRatio
	}
	return r
}
