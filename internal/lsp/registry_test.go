package lsp

import (
	"context"
	"testing"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
	"github.com/DaviTostes/bruno-language-server/internal/diagnostics"
)

func TestRegistryReconfigureRepublishes(t *testing.T) {
	reg := NewRegistry()
	srv, c := startServer(t, Options{})
	reg.Add(srv)
	reg.Add(srv)
	if reg.Len() != 1 {
		t.Fatalf("expected one server, got %d", reg.Len())
	}

	c.notify("textDocument/didOpen", openParams("file:///a.bru", "get {\n}"))
	if got := publishedCodes(c.next()); len(got) != 1 || got[0] != "missing-meta" {
		t.Fatalf("unexpected codes %v", got)
	}

	reg.Reconfigure(context.Background(), diagnostics.Options{Disabled: []brufile.Code{brufile.CodeMissingMeta}})
	if p := c.next(); len(p.Diagnostics) != 0 {
		t.Fatalf("expected suppressed diagnostics after reconfigure, got %v", publishedCodes(p))
	}

	reg.Remove(srv)
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Len())
	}
}
