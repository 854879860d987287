package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"

	"github.com/mgoltzsche/voice-code-assistant/internal/model"
	"github.com/mgoltzsche/voice-code-assistant/internal/pubsub"
)

// keepAliveInterval is how often an idle stream emits a heartbeat so
// that proxies don't drop the connection.
const keepAliveInterval = 50 * time.Second

// AddRoutes registers the background-mode event stream endpoints.
// Clients receive assistant events either as a newline-delimited JSON
// stream or, when upgrading the connection, as websocket text messages.
func AddRoutes(events pubsub.Subscriber[model.Event], mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/events", func(w http.ResponseWriter, req *http.Request) {
		sendEventStream(events, w, req)
	})
}

func sendEventStream(events pubsub.Subscriber[model.Event], w http.ResponseWriter, req *http.Request) {
	var writer io.Writer = w

	if strings.Contains(req.Header.Get("Connection"), "Upgrade") {
		log.Println("Accepting websocket connection")
		conn, err := websocket.Accept(w, req, nil)
		if err != nil {
			err = fmt.Errorf("accept websocket connection: %w", err)
			log.Println("WARNING:", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer conn.CloseNow()

		writer = &websocketWriter{
			Ctx:       req.Context(),
			Websocket: conn,
			Type:      websocket.MessageText,
		}
	} else {
		h := w.Header()
		h.Set("Content-Type", "application/x-ndjson")
		h.Set("Transfer-Encoding", "chunked")
		h.Set("X-Accel-Buffering", "no") // tell reverse proxy not to buffer

		// Set headers to prevent the client from caching
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")

		w.WriteHeader(http.StatusOK)
	}

	err := streamEvents(req.Context(), events, writer)
	if err != nil {
		log.Println("WARNING: failed to stream events:", err)
	}
}

func streamEvents(ctx context.Context, events pubsub.Subscriber[model.Event], w io.Writer) error {
	s := events.Subscribe(ctx)
	defer s.Stop()

	ch := s.ResultChan()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-ch:
			if !ok {
				return nil
			}

			err := writeEvent(w, evt)
			if err != nil {
				return fmt.Errorf("write event into stream: %w", err)
			}
		case <-time.After(keepAliveInterval):
			err := writeKeepAlive(w)
			if err != nil {
				return fmt.Errorf("send keep-alive: %w", err)
			}
		}
	}
}

func writeEvent(w io.Writer, evt model.Event) error {
	b, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	b = append(b, '\n')

	n, err := w.Write(b)
	if err != nil {
		return err
	}

	if n != len(b) {
		return io.ErrShortWrite
	}

	flush(w)

	return nil
}

func writeKeepAlive(w io.Writer) error {
	_, err := w.Write([]byte("\n"))
	if err != nil {
		return err
	}

	flush(w)

	return nil
}

func flush(w io.Writer) {
	flusher, ok := w.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}
