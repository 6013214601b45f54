package completion

import "strings"

type ContextKind int

const (
	ContextTopLevel ContextKind = iota
	// ContextMember is a cursor right after "<receiver>." for a known receiver.
	ContextMember
	// ContextScript is a cursor inside an open script block.
	ContextScript
	// ContextReceiver is a cursor inside a script block right after a bare receiver
	// word. Nothing is offered there.
	ContextReceiver
	ContextHeaders
)

func (k ContextKind) String() string {
	switch k {
	case ContextTopLevel:
		return "top-level"
	case ContextMember:
		return "member"
	case ContextScript:
		return "script"
	case ContextReceiver:
		return "receiver"
	case ContextHeaders:
		return "headers"
	default:
		return "unknown"
	}
}

type Context struct {
	Kind     ContextKind
	Receiver string
}

// Request is the raw input of a classification. Offset is a byte offset into
// Text. LineText is the cursor's line.
type Request struct {
	Text     string
	Offset   int
	LineText string
}

// Classifier decides which catalog applies at a cursor. Catalog selection
// only depends on the returned Context, so a real parser can replace the
// heuristic one.
type Classifier interface {
	Classify(req Request) Context
}

const (
	scriptMarker  = "script:"
	headersMarker = "headers {"
)

// HeuristicClassifier scans the text before the cursor with string searches.
// It is approximate at block boundaries.
type HeuristicClassifier struct{}

func (HeuristicClassifier) Classify(req Request) Context {
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > len(req.Text) {
		offset = len(req.Text)
	}
	before := req.Text[:offset]

	if dot := strings.LastIndexByte(before, '.'); dot >= 0 {
		if receiver := wordBefore(before[:dot]); IsReceiver(receiver) {
			return Context{Kind: ContextMember, Receiver: receiver}
		}
	}

	if inScript(before) {
		if word := wordBefore(before); IsReceiver(word) {
			return Context{Kind: ContextReceiver, Receiver: word}
		}
		return Context{Kind: ContextScript}
	}

	if inHeaders(before, req.LineText) {
		return Context{Kind: ContextHeaders}
	}
	return Context{Kind: ContextTopLevel}
}

// wordBefore skips trailing whitespace and returns the identifier run that
// ends there.
func wordBefore(s string) string {
	end := len(s)
	for end > 0 && isSpace(s[end-1]) {
		end--
	}
	start := end
	for start > 0 && isWordByte(s[start-1]) {
		start--
	}
	return s[start:end]
}

// inScript reports whether the last script block before the cursor opened
// before any closing brace follows it. Braces further on are not balanced,
// so the answer is approximate past the end of the block.
func inScript(before string) bool {
	marker := strings.LastIndex(before, scriptMarker)
	if marker < 0 {
		return false
	}
	rest := before[marker:]
	open := strings.IndexByte(rest, '{')
	closing := strings.IndexByte(rest, '}')
	return open >= 0 && (closing < 0 || open < closing)
}

func inHeaders(before, lineText string) bool {
	if strings.TrimSpace(lineText) == headersMarker {
		return true
	}
	marker := strings.LastIndex(before, headersMarker)
	if marker < 0 {
		return false
	}
	return !strings.Contains(before[marker:], "}")
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
