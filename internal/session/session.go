package session

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
	"github.com/DaviTostes/bruno-language-server/internal/errdef"
)

// Change is one content change. A nil Range replaces the whole text.
type Change struct {
	Range *brufile.Range
	Text  string
}

type entry struct {
	doc     *brufile.Document
	version int32
}

// Session owns the open-document table of one editor connection.
type Session struct {
	ID string

	mu   sync.RWMutex
	docs map[string]entry
}

func New() *Session {
	return &Session{
		ID:   uuid.NewString(),
		docs: make(map[string]entry),
	}
}

// Open stores text as the current content of uri, replacing any earlier copy.
func (s *Session) Open(uri string, version int32, text string) *brufile.Document {
	doc := brufile.NewDocument(uri, text)
	s.mu.Lock()
	s.docs[uri] = entry{doc: doc, version: version}
	s.mu.Unlock()
	return doc
}

// Change applies changes in order and returns the new snapshot.
func (s *Session) Change(uri string, version int32, changes []Change) (*brufile.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.docs[uri]
	if !ok {
		return nil, errdef.New(errdef.CodeDocument, "document %s is not open", uri)
	}
	doc := cur.doc
	for _, ch := range changes {
		doc = brufile.NewDocument(uri, apply(doc, ch))
	}
	s.docs[uri] = entry{doc: doc, version: version}
	return doc, nil
}

func apply(doc *brufile.Document, ch Change) string {
	if ch.Range == nil {
		return ch.Text
	}
	start := doc.OffsetAt(ch.Range.Start)
	end := doc.OffsetAt(ch.Range.End)
	if end < start {
		start, end = end, start
	}
	return doc.Text[:start] + ch.Text + doc.Text[end:]
}

// Close drops uri and reports whether it was open.
func (s *Session) Close(uri string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[uri]
	delete(s.docs, uri)
	return ok
}

// Snapshot returns the current document. Documents are immutable, so the
// result stays valid after later edits.
func (s *Session) Snapshot(uri string) (*brufile.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[uri]
	return e.doc, ok
}

func (s *Session) Version(uri string) (int32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[uri]
	return e.version, ok
}

// URIs lists open documents in sorted order.
func (s *Session) URIs() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		out = append(out, uri)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}
