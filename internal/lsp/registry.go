package lsp

import (
	"context"
	"sync"

	"github.com/DaviTostes/bruno-language-server/internal/diagnostics"
)

// Registry tracks the servers of live connections so settings reloads reach
// all of them.
type Registry struct {
	mu      sync.Mutex
	servers map[*Server]struct{}
}

func NewRegistry() *Registry {
	return &Registry{servers: make(map[*Server]struct{})}
}

func (r *Registry) Add(s *Server) {
	r.mu.Lock()
	r.servers[s] = struct{}{}
	r.mu.Unlock()
}

func (r *Registry) Remove(s *Server) {
	r.mu.Lock()
	delete(r.servers, s)
	r.mu.Unlock()
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.servers)
}

func (r *Registry) Servers() []*Server {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Server, 0, len(r.servers))
	for s := range r.servers {
		out = append(out, s)
	}
	return out
}

// Reconfigure swaps the diagnostic options of every live server and
// republishes their open documents.
func (r *Registry) Reconfigure(ctx context.Context, opts diagnostics.Options) {
	for _, s := range r.Servers() {
		s.SetDiagnosticOptions(opts)
		s.RepublishAll(ctx)
	}
}
