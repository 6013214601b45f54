package completion

// Kind mirrors the editor protocol's completion item kinds used by .bru files.
type Kind int

const (
	KindMethod   Kind = 2
	KindFunction Kind = 3
	KindVariable Kind = 6
	KindModule   Kind = 9
	KindProperty Kind = 10
	KindKeyword  Kind = 14
)

func (k Kind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindFunction:
		return "function"
	case KindVariable:
		return "variable"
	case KindModule:
		return "module"
	case KindProperty:
		return "property"
	case KindKeyword:
		return "keyword"
	default:
		return "unknown"
	}
}

type InsertTextFormat int

const (
	PlainText InsertTextFormat = 1
	// Snippet insert text carries tab stops such as ${1:name} or ${1|a,b|}.
	Snippet InsertTextFormat = 2
)

// Item is a catalog entry. Documentation is markdown. InsertText is passed
// through to the editor untouched.
type Item struct {
	Label            string
	Kind             Kind
	Detail           string
	Documentation    string
	InsertText       string
	InsertTextFormat InsertTextFormat
}
