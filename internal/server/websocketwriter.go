package server

import (
	"context"
	"io"

	"github.com/coder/websocket"
)

var _ io.Writer = &websocketWriter{}

type websocketWriter struct {
	Ctx       context.Context
	Websocket *websocket.Conn
	Type      websocket.MessageType
}

func (w *websocketWriter) Write(b []byte) (int, error) {
	err := w.Websocket.Write(w.Ctx, w.Type, b)
	if err != nil {
		return 0, err
	}

	return len(b), nil
}
