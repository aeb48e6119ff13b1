package ui

import tea "github.com/charmbracelet/bubbletea"

// Overlay is a modal drawn over the car list.
type Overlay struct {
	View    View
	Dismiss string // key that cancels it, e.g. "esc"
}

// IsDismissKey reports whether key cancels this overlay.
func (o Overlay) IsDismissKey(key string) bool {
	return o.Dismiss != "" && key == o.Dismiss
}

// OverlayStack holds the open modals; the topmost receives input.
type OverlayStack struct {
	Stack []Overlay
}

// Push opens an overlay on top.
func (s *OverlayStack) Push(o Overlay) {
	s.Stack = append(s.Stack, o)
}

// Pop closes the top overlay.
func (s *OverlayStack) Pop() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top, true
}

// Peek returns the top overlay without removing it.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// Len returns the number of open overlays.
func (s *OverlayStack) Len() int {
	return len(s.Stack)
}

// Clear closes every overlay.
func (s *OverlayStack) Clear() {
	s.Stack = nil
}

// UpdateTop passes msg to the top overlay and stores the View it returns.
// The caller runs the returned cmd.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	top := &s.Stack[len(s.Stack)-1]
	next, cmd := top.View.Update(msg)
	top.View = next
	return cmd, true
}

// topView returns the top overlay's view as T, if the stack is non-empty and the type matches.
func topView[T View](s *OverlayStack) (T, bool) {
	var zero T
	top, ok := s.Peek()
	if !ok {
		return zero, false
	}
	v, ok := top.View.(T)
	return v, ok
}
