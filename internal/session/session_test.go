package session

import (
	"reflect"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
	"github.com/DaviTostes/bruno-language-server/internal/errdef"
)

func rng(sl, sc, el, ec int) *brufile.Range {
	return &brufile.Range{
		Start: brufile.Position{Line: sl, Character: sc},
		End:   brufile.Position{Line: el, Character: ec},
	}
}

func TestNewAssignsID(t *testing.T) {
	s := New()
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Fatalf("expected uuid session id, got %q: %v", s.ID, err)
	}
	if New().ID == s.ID {
		t.Fatal("expected distinct ids")
	}
}

func TestOpenChangeClose(t *testing.T) {
	s := New()
	s.Open("file:///a.bru", 1, "get {\n  url: x\n}")

	doc, err := s.Change("file:///a.bru", 2, []Change{
		{Range: rng(1, 7, 1, 8), Text: "https://api.example.com"},
		{Range: rng(0, 0, 0, 3), Text: "post"},
	})
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	want := "post {\n  url: https://api.example.com\n}"
	if doc.Text != want {
		t.Fatalf("unexpected text %q", doc.Text)
	}
	if v, _ := s.Version("file:///a.bru"); v != 2 {
		t.Fatalf("unexpected version %d", v)
	}

	doc, err = s.Change("file:///a.bru", 3, []Change{{Text: "meta {\n}"}})
	if err != nil || doc.Text != "meta {\n}" {
		t.Fatalf("full replace failed: %q %v", doc.Text, err)
	}

	if !s.Close("file:///a.bru") {
		t.Fatal("expected close to report open document")
	}
	if s.Close("file:///a.bru") {
		t.Fatal("expected second close to report missing document")
	}
	if _, ok := s.Snapshot("file:///a.bru"); ok {
		t.Fatal("expected closed document to be gone")
	}
}

func TestChangeInsertAndUTF16(t *testing.T) {
	s := New()
	s.Open("file:///a.bru", 1, "vars {\n  name: é😀\n}")
	doc, err := s.Change("file:///a.bru", 2, []Change{{Range: rng(1, 11, 1, 11), Text: "!"}})
	if err != nil {
		t.Fatalf("change: %v", err)
	}
	if doc.Line(1) != "  name: é😀!" {
		t.Fatalf("unexpected line %q", doc.Line(1))
	}
}

func TestChangeUnknownDocument(t *testing.T) {
	_, err := New().Change("file:///missing.bru", 1, []Change{{Text: "x"}})
	if errdef.CodeOf(err) != errdef.CodeDocument {
		t.Fatalf("expected document error, got %v", err)
	}
}

func TestSnapshotIsStable(t *testing.T) {
	s := New()
	s.Open("file:///a.bru", 1, "get {")
	before, _ := s.Snapshot("file:///a.bru")
	if _, err := s.Change("file:///a.bru", 2, []Change{{Text: "post {"}}); err != nil {
		t.Fatal(err)
	}
	if before.Text != "get {" {
		t.Fatalf("snapshot mutated: %q", before.Text)
	}
}

func TestURIsSorted(t *testing.T) {
	s := New()
	for _, uri := range []string{"file:///c.bru", "file:///a.bru", "file:///b.bru"} {
		s.Open(uri, 1, "")
	}
	want := []string{"file:///a.bru", "file:///b.bru", "file:///c.bru"}
	if got := s.URIs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected uris %v", got)
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	s.Open("file:///a.bru", 0, "")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = s.Change("file:///a.bru", int32(j), []Change{{Text: "get {"}})
				_, _ = s.Snapshot("file:///a.bru")
				_ = s.URIs()
			}
		}(i)
	}
	wg.Wait()
	if doc, ok := s.Snapshot("file:///a.bru"); !ok || doc.Text != "get {" {
		t.Fatalf("unexpected final state %v", doc)
	}
}
