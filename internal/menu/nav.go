package menu

// Frame is one level of the navigation stack and the cursor within it.
type Frame struct {
	Level  *Node
	Cursor int
}

// Stack is the path from the root to the current level. It is never empty.
type Stack struct {
	frames []Frame
}

// NewStack starts at root with the cursor on its first entry.
func NewStack(root *Node) *Stack {
	return &Stack{frames: []Frame{{Level: root}}}
}

// Top returns the current frame.
func (s *Stack) Top() *Frame {
	return &s.frames[len(s.frames)-1]
}

// Depth returns the number of frames, 1 at the root.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Selected returns the node under the cursor, or nil for an empty level.
func (s *Stack) Selected() *Node {
	top := s.Top()
	if len(top.Level.Children) == 0 {
		return nil
	}
	return top.Level.Children[top.Cursor]
}

// Up moves the cursor to the previous entry, wrapping to the last.
// It reports whether the cursor moved.
func (s *Stack) Up() bool {
	top := s.Top()
	n := len(top.Level.Children)
	if n < 2 {
		return false
	}
	top.Cursor = (top.Cursor - 1 + n) % n
	return true
}

// Down moves the cursor to the next entry, wrapping to the first.
// It reports whether the cursor moved.
func (s *Stack) Down() bool {
	top := s.Top()
	n := len(top.Level.Children)
	if n < 2 {
		return false
	}
	top.Cursor = (top.Cursor + 1) % n
	return true
}

// Push enters level with the cursor on its first entry.
func (s *Stack) Push(level *Node) {
	s.frames = append(s.frames, Frame{Level: level})
}

// Pop leaves the current level. The root is never popped; Pop reports
// whether a frame was removed.
func (s *Stack) Pop() bool {
	if len(s.frames) == 1 {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

// Labels returns the labels of the levels from the root down.
func (s *Stack) Labels() []string {
	labels := make([]string, len(s.frames))
	for i, f := range s.frames {
		labels[i] = f.Level.Label
	}
	return labels
}
