package server

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
)

var acceptOptions = &websocket.AcceptOptions{
	InsecureSkipVerify: true,
	CompressionMode:    websocket.CompressionContextTakeover,
}

// webSocketTransport carries one message per WebSocket text frame. Binary
// frames are ignored.
type webSocketTransport struct {
	conn *websocket.Conn
}

func newWebSocketClient(r *http.Request, w http.ResponseWriter, address string, commands chan<- []byte, verbose bool) *connClient {
	conn, err := websocket.Accept(w, r, acceptOptions)
	if err != nil {
		return nil
	}
	return newConnClient(&webSocketTransport{conn: conn}, address, commands, verbose)
}

func (t *webSocketTransport) readCommand() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
	defer cancel()

	msgType, msg, err := t.conn.Read(ctx)
	if err != nil {
		return nil, err
	} else if msgType != websocket.MessageText {
		return nil, nil
	}
	return msg, nil
}

func (t *webSocketTransport) writeEvent(event []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), clientTimeout)
	defer cancel()

	return t.conn.Write(ctx, websocket.MessageText, event)
}

func (t *webSocketTransport) close() {
	t.conn.CloseNow()
}
