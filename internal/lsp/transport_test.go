package lsp

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.lsp.dev/jsonrpc2"
	"nhooyr.io/websocket"
)

func TestWebSocketSession(t *testing.T) {
	reg := NewRegistry()
	ts := httptest.NewServer(WebSocketHandler(Options{Version: "ws"}, reg))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(websocket.NetConn(ctx, ws, websocket.MessageText)))
	conn.Go(ctx, jsonrpc2.MethodNotFoundHandler)

	var raw json.RawMessage
	if _, err := conn.Call(ctx, "initialize", map[string]interface{}{"capabilities": map[string]interface{}{}}, &raw); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	var result struct {
		ServerInfo struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.ServerInfo.Name != ServerName || result.ServerInfo.Version != "ws" {
		t.Fatalf("unexpected server info %+v", result.ServerInfo)
	}

	servers := reg.Servers()
	if len(servers) != 1 || servers[0].Session().ID == "" {
		t.Fatalf("expected one registered server with a session id, got %d", len(servers))
	}

	_ = conn.Close()
	_ = ws.Close(websocket.StatusNormalClosure, "")
	deadline := time.Now().Add(2 * time.Second)
	for reg.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected server to be removed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
