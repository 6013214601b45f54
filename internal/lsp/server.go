package lsp

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"go.lsp.dev/jsonrpc2"

	"github.com/DaviTostes/bruno-language-server/internal/brufile"
	"github.com/DaviTostes/bruno-language-server/internal/completion"
	"github.com/DaviTostes/bruno-language-server/internal/diagnostics"
	"github.com/DaviTostes/bruno-language-server/internal/session"
	"github.com/DaviTostes/bruno-language-server/internal/telemetry"
)

const ServerName = "bruno-ls"

// DefaultTriggerCharacters open the completion popup.
var DefaultTriggerCharacters = []string{"{", ".", ":"}

type Options struct {
	Logger            *log.Logger
	Telemetry         telemetry.Instrumenter
	Diagnostics       diagnostics.Options
	TriggerCharacters []string
	Version           string
	Verbose           bool
	// OnExit runs when the client sends "exit". clean reports whether a
	// shutdown request came first.
	OnExit func(clean bool)
}

// Server answers one editor connection. All document state lives in its
// session.
type Server struct {
	sess      *session.Session
	logger    *log.Logger
	tel       telemetry.Instrumenter
	engine    *completion.Engine
	validator atomic.Pointer[diagnostics.Validator]
	triggers  []string
	version   string
	verbose   bool
	onExit    func(clean bool)

	mu           sync.Mutex
	conn         jsonrpc2.Conn
	initialized  bool
	shuttingDown bool
}

func NewServer(sess *session.Session, opts Options) *Server {
	if sess == nil {
		sess = session.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	tel := opts.Telemetry
	if tel == nil {
		tel = telemetry.Noop()
	}
	triggers := opts.TriggerCharacters
	if len(triggers) == 0 {
		triggers = DefaultTriggerCharacters
	}
	s := &Server{
		sess:     sess,
		logger:   logger,
		tel:      tel,
		engine:   completion.NewEngine(nil),
		triggers: append([]string(nil), triggers...),
		version:  opts.Version,
		verbose:  opts.Verbose,
		onExit:   opts.OnExit,
	}
	s.validator.Store(diagnostics.NewValidator(opts.Diagnostics))
	return s
}

func (s *Server) Session() *session.Session {
	return s.sess
}

// SetDiagnosticOptions swaps the validator used by later validations.
func (s *Server) SetDiagnosticOptions(opts diagnostics.Options) {
	s.validator.Store(diagnostics.NewValidator(opts))
}

// Serve runs the JSON-RPC loop over rwc until the peer disconnects or ctx is
// cancelled.
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	s.setConn(conn)
	defer s.setConn(nil)

	conn.Go(ctx, s.Handler())
	select {
	case <-ctx.Done():
		_ = conn.Close()
		<-conn.Done()
		return ctx.Err()
	case <-conn.Done():
		return conn.Err()
	}
}

func (s *Server) setConn(conn jsonrpc2.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}

func (s *Server) client() jsonrpc2.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// Validate runs the current validator over doc inside a telemetry span.
func (s *Server) Validate(ctx context.Context, doc *brufile.Document) []brufile.Diagnostic {
	version, _ := s.sess.Version(doc.URI)
	_, span := s.tel.Start(ctx, telemetry.OperationStart{
		Op:        telemetry.OpValidate,
		URI:       doc.URI,
		Version:   version,
		Bytes:     len(doc.Text),
		SessionID: s.sess.ID,
	})
	diags := s.validator.Load().Validate(doc)

	result := telemetry.OperationResult{Count: len(diags)}
	for _, d := range diags {
		if d.Severity == brufile.SeverityError {
			result.Errors++
		} else {
			result.Warnings++
		}
	}
	span.End(result)
	return diags
}

// Complete classifies pos in doc and returns the matching catalog.
func (s *Server) Complete(ctx context.Context, doc *brufile.Document, pos brufile.Position) []completion.Item {
	_, span := s.tel.Start(ctx, telemetry.OperationStart{
		Op:        telemetry.OpComplete,
		URI:       doc.URI,
		Bytes:     len(doc.Text),
		SessionID: s.sess.ID,
	})
	cctx, items := s.engine.Lookup(doc, pos)
	span.End(telemetry.OperationResult{Count: len(items), Context: cctx.Kind.String()})
	return items
}

// publish validates uri and notifies the client. Missing documents publish an
// empty list so stale markers are cleared.
func (s *Server) publish(ctx context.Context, uri string) {
	conn := s.client()
	if conn == nil {
		return
	}
	var diags []brufile.Diagnostic
	if doc, ok := s.sess.Snapshot(uri); ok {
		diags = s.Validate(ctx, doc)
	}
	if s.verbose {
		s.logger.Printf("publish %s: %d diagnostics", uri, len(diags))
	}
	if err := conn.Notify(ctx, "textDocument/publishDiagnostics", toPublishParams(uri, diags)); err != nil {
		s.logger.Printf("publish diagnostics for %s: %v", uri, err)
	}
}

// RepublishAll revalidates every open document, used after a settings reload.
func (s *Server) RepublishAll(ctx context.Context) {
	for _, uri := range s.sess.URIs() {
		s.publish(ctx, uri)
	}
}
