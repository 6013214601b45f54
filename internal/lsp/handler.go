package lsp

import (
	"context"
	"encoding/json"
	"fmt"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/DaviTostes/bruno-language-server/internal/session"
)

// didChangeParams keeps Range optional so full-text changes can be told apart
// from incremental ones.
type didChangeParams struct {
	TextDocument struct {
		URI     protocol.DocumentURI `json:"uri"`
		Version int32                `json:"version"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Range *protocol.Range `json:"range,omitempty"`
		Text  string          `json:"text"`
	} `json:"contentChanges"`
}

func (s *Server) Handler() jsonrpc2.Handler {
	return func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		if s.verbose {
			s.logger.Printf("received %s", req.Method())
		}
		if s.isShuttingDown() && req.Method() != "exit" {
			return reply(ctx, nil, fmt.Errorf("%w: server is shutting down", jsonrpc2.ErrInvalidRequest))
		}

		switch req.Method() {
		case "initialize":
			var params protocol.InitializeParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}
			return reply(ctx, s.initialize(&params), nil)

		case "initialized":
			s.logger.Printf("client initialized")
			return reply(ctx, nil, nil)

		case "shutdown":
			s.mu.Lock()
			s.shuttingDown = true
			s.mu.Unlock()
			s.logger.Printf("shutdown requested")
			return reply(ctx, nil, nil)

		case "exit":
			s.logger.Printf("exit")
			if s.onExit != nil {
				s.onExit(s.isShuttingDown())
			}
			return reply(ctx, nil, nil)

		case "textDocument/didOpen":
			var params protocol.DidOpenTextDocumentParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}
			uri := string(params.TextDocument.URI)
			s.sess.Open(uri, params.TextDocument.Version, params.TextDocument.Text)
			s.logger.Printf("opened %s", uri)
			s.publish(ctx, uri)
			return reply(ctx, nil, nil)

		case "textDocument/didChange":
			var params didChangeParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}
			uri := string(params.TextDocument.URI)
			changes := make([]session.Change, len(params.ContentChanges))
			for i, ch := range params.ContentChanges {
				changes[i] = session.Change{Text: ch.Text}
				if ch.Range != nil {
					r := fromProtocolRange(*ch.Range)
					changes[i].Range = &r
				}
			}
			if _, err := s.sess.Change(uri, params.TextDocument.Version, changes); err != nil {
				s.logger.Printf("change %s: %v", uri, err)
				return reply(ctx, nil, nil)
			}
			s.publish(ctx, uri)
			return reply(ctx, nil, nil)

		case "textDocument/didClose":
			var params protocol.DidCloseTextDocumentParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}
			uri := string(params.TextDocument.URI)
			s.sess.Close(uri)
			s.logger.Printf("closed %s", uri)
			s.publish(ctx, uri)
			return reply(ctx, nil, nil)

		case "textDocument/completion":
			var params protocol.CompletionParams
			if err := json.Unmarshal(req.Params(), &params); err != nil {
				return replyParseError(ctx, reply, err)
			}
			list := &protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}
			doc, ok := s.sess.Snapshot(string(params.TextDocument.URI))
			if ok {
				list.Items = toCompletionItems(s.Complete(ctx, doc, fromProtocolPosition(params.Position)))
			}
			return reply(ctx, list, nil)

		case "completionItem/resolve":
			var item json.RawMessage
			if err := json.Unmarshal(req.Params(), &item); err != nil {
				return replyParseError(ctx, reply, err)
			}
			return reply(ctx, item, nil)

		case "textDocument/hover":
			return reply(ctx, nil, nil)

		default:
			return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
		}
	}
}

func (s *Server) initialize(params *protocol.InitializeParams) *protocol.InitializeResult {
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	if params.ClientInfo != nil {
		s.logger.Printf("initialize from %s %s (session %s)", params.ClientInfo.Name, params.ClientInfo.Version, s.sess.ID)
	} else {
		s.logger.Printf("initialize (session %s)", s.sess.ID)
	}
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.TextDocumentSyncKindIncremental,
			},
			CompletionProvider: &protocol.CompletionOptions{
				ResolveProvider:   true,
				TriggerCharacters: s.triggers,
			},
			HoverProvider: true,
		},
		ServerInfo: &protocol.ServerInfo{
			Name:    ServerName,
			Version: s.version,
		},
	}
}

func (s *Server) isShuttingDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shuttingDown
}

func replyParseError(ctx context.Context, reply jsonrpc2.Replier, err error) error {
	return reply(ctx, nil, fmt.Errorf("%w: %s", jsonrpc2.ErrInvalidParams, err))
}
