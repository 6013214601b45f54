package lsp

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"

	"nhooyr.io/websocket"

	"github.com/DaviTostes/bruno-language-server/internal/session"
)

type stdio struct {
	in  io.ReadCloser
	out io.WriteCloser
}

// Stdio joins stdin and stdout into the stream editors speak over.
func Stdio() io.ReadWriteCloser {
	return stdio{in: os.Stdin, out: os.Stdout}
}

func (s stdio) Read(p []byte) (int, error)  { return s.in.Read(p) }
func (s stdio) Write(p []byte) (int, error) { return s.out.Write(p) }

func (s stdio) Close() error {
	inErr := s.in.Close()
	if err := s.out.Close(); err != nil {
		return err
	}
	return inErr
}

// WebSocketHandler serves one fresh session per websocket connection. The
// stream inside the websocket keeps the usual Content-Length framing. An
// "exit" notification ends only its own connection. Live servers are kept in
// reg when it is non-nil.
func WebSocketHandler(opts Options, reg *Registry) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			logger.Printf("websocket accept: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "connection closed")

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		connOpts := opts
		connOpts.OnExit = func(clean bool) {
			if opts.OnExit != nil {
				opts.OnExit(clean)
			}
			cancel()
		}
		srv := NewServer(session.New(), connOpts)
		if reg != nil {
			reg.Add(srv)
			defer reg.Remove(srv)
		}
		logger.Printf("websocket session %s from %s", srv.Session().ID, r.RemoteAddr)
		if err := srv.Serve(ctx, websocket.NetConn(ctx, c, websocket.MessageText)); err != nil &&
			ctx.Err() == nil {
			logger.Printf("websocket session %s: %v", srv.Session().ID, err)
		}
		c.Close(websocket.StatusNormalClosure, "")
	})
}
