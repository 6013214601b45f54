package scanner

import "github.com/DaviTostes/bruno-language-server/internal/brufile"

// State is the block nesting state. Blocks never nest, so there are only two.
type State int

const (
	Outside State = iota
	InsideBlock
)

func (s State) String() string {
	if s == InsideBlock {
		return "inside-block"
	}
	return "outside"
}

// Step describes what a single line did to the machine.
type Step struct {
	Line Line
	// Closed is the block that ended on this line, explicitly with "}" or
	// implicitly because another block started.
	Closed *brufile.Block
	// Implicit is set when Closed ended without its own closing line.
	Implicit bool
	Opened   *brufile.Block
	// Content is the block that owns a content line.
	Content *brufile.Block
}

type Machine struct {
	state   State
	current brufile.Block
}

func (m *Machine) State() State {
	return m.state
}

// Current returns the open block, if any.
func (m *Machine) Current() (brufile.Block, bool) {
	if m.state != InsideBlock {
		return brufile.Block{}, false
	}
	return m.current, true
}

func (m *Machine) Step(line Line) Step {
	step := Step{Line: line}
	switch line.Kind {
	case LineBlockStart:
		if m.state == InsideBlock {
			closed := m.current
			closed.EndLine = line.Number
			step.Closed = &closed
			step.Implicit = true
		}
		opened := line.Block
		m.current = opened
		m.state = InsideBlock
		step.Opened = &opened
	case LineBlockEnd:
		if m.state == InsideBlock {
			closed := m.current
			closed.EndLine = line.Number
			step.Closed = &closed
		}
		m.current = brufile.Block{}
		m.state = Outside
	case LineContent:
		if m.state == InsideBlock {
			owner := m.current
			step.Content = &owner
		}
	}
	return step
}

// Finish closes a block left open at the end of the document. The returned
// block keeps EndLine -1.
func (m *Machine) Finish() (brufile.Block, bool) {
	if m.state != InsideBlock {
		return brufile.Block{}, false
	}
	open := m.current
	m.current = brufile.Block{}
	m.state = Outside
	return open, true
}
