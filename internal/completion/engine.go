package completion

import "github.com/DaviTostes/bruno-language-server/internal/brufile"

// Engine turns a cursor position into a completion catalog.
type Engine struct {
	classifier Classifier
	sources    []Source
}

// NewEngine uses the heuristic classifier when c is nil.
func NewEngine(c Classifier) *Engine {
	if c == nil {
		c = HeuristicClassifier{}
	}
	return &Engine{classifier: c, sources: DefaultSources()}
}

func (e *Engine) Classify(doc *brufile.Document, pos brufile.Position) Context {
	return e.classifier.Classify(Request{
		Text:     doc.Text,
		Offset:   doc.OffsetAt(pos),
		LineText: doc.Line(pos.Line),
	})
}

// Complete returns one of the package catalogs, never a copy. Callers must
// not modify the result.
func (e *Engine) Complete(doc *brufile.Document, pos brufile.Position) []Item {
	_, items := e.Lookup(doc, pos)
	return items
}

// Lookup classifies pos once and returns the context with its catalog.
func (e *Engine) Lookup(doc *brufile.Document, pos brufile.Position) (Context, []Item) {
	if doc == nil {
		return Context{Kind: ContextTopLevel}, none
	}
	cctx := e.Classify(doc, pos)
	return cctx, Select(e.sources, cctx)
}
