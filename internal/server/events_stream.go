package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"

	"github.com/aristath/hoteldo/internal/events"
	"github.com/aristath/hoteldo/internal/utils"
)

const (
	eventBufferSize   = 100
	eventWriteTimeout = 5 * time.Second
)

// EventSubscriber is the part of the event bus the stream needs
type EventSubscriber interface {
	Subscribe(eventType events.EventType, handler events.Handler) events.SubscriptionID
	Unsubscribe(id events.SubscriptionID)
}

// EventsStreamHandler streams bus events to clients over SSE or WebSocket
type EventsStreamHandler struct {
	bus       EventSubscriber
	heartbeat time.Duration
	log       zerolog.Logger
}

// NewEventsStreamHandler creates a new events stream handler
func NewEventsStreamHandler(bus EventSubscriber, log zerolog.Logger) *EventsStreamHandler {
	return &EventsStreamHandler{
		bus:       bus,
		heartbeat: 30 * time.Second,
		log:       log.With().Str("component", "events_stream").Logger(),
	}
}

// streamMessage is the JSON shape of every message sent to clients
type streamMessage struct {
	Type      string      `json:"type"`
	Module    string      `json:"module,omitempty"`
	Timestamp string      `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
}

// subscribe registers a buffered channel for the requested types, once per type.
// The returned func removes every subscription.
func (h *EventsStreamHandler) subscribe(r *http.Request) (<-chan *events.Event, func()) {
	types := events.AllTypes
	if filter := utils.SplitList(r.URL.Query().Get("types")); filter != nil {
		types = make([]events.EventType, 0, len(filter))
		seen := make(map[events.EventType]bool, len(filter))
		for _, t := range filter {
			et := events.EventType(t)
			if seen[et] {
				continue
			}
			seen[et] = true
			types = append(types, et)
		}
	}

	eventChan := make(chan *events.Event, eventBufferSize)
	handler := func(event *events.Event) {
		// Non-blocking send; slow clients lose events
		select {
		case eventChan <- event:
		default:
			h.log.Warn().Str("event_type", string(event.Type)).Msg("Event channel full, dropping event")
		}
	}

	ids := make([]events.SubscriptionID, 0, len(types))
	for _, t := range types {
		ids = append(ids, h.bus.Subscribe(t, handler))
	}

	return eventChan, func() {
		for _, id := range ids {
			h.bus.Unsubscribe(id)
		}
	}
}

func (h *EventsStreamHandler) encode(msg streamMessage) []byte {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to marshal event")
		return []byte(`{"error":"failed to encode event"}`)
	}
	return data
}

func eventMessage(event *events.Event) streamMessage {
	return streamMessage{
		Type:      string(event.Type),
		Module:    event.Module,
		Timestamp: event.Timestamp.Format(time.RFC3339),
		Data:      event.Data,
	}
}

func controlMessage(kind, message string) streamMessage {
	return streamMessage{
		Type:      kind,
		Timestamp: time.Now().Format(time.RFC3339),
		Message:   message,
	}
}

// HandleSSE handles GET /api/events/stream
func (h *EventsStreamHandler) HandleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Streams outlive the server write timeout
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	eventChan, unsubscribe := h.subscribe(r)
	defer unsubscribe()

	h.log.Info().Str("types", r.URL.Query().Get("types")).Msg("Client connected to event stream")

	fmt.Fprintf(w, "data: %s\n\n", h.encode(controlMessage("connected", "Connected to event stream")))
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.log.Info().Msg("Client disconnected from event stream")
			return
		case event := <-eventChan:
			fmt.Fprintf(w, "data: %s\n\n", h.encode(eventMessage(event)))
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprintf(w, "data: %s\n\n", h.encode(controlMessage("heartbeat", "")))
			flusher.Flush()
		}
	}
}

// HandleWebSocket handles GET /api/events/ws
func (h *EventsStreamHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Hijacked connections keep the deadline set by the server
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		// Accept has already written the error response
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	eventChan, unsubscribe := h.subscribe(r)
	defer unsubscribe()

	// Clients only listen; CloseRead handles control frames and cancels on close
	ctx := conn.CloseRead(r.Context())

	h.log.Info().Str("types", r.URL.Query().Get("types")).Msg("Client connected to event socket")

	if err := h.write(ctx, conn, controlMessage("connected", "Connected to event stream")); err != nil {
		return
	}

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Info().Msg("Client disconnected from event socket")
			return
		case event := <-eventChan:
			if err := h.write(ctx, conn, eventMessage(event)); err != nil {
				return
			}
		case <-heartbeat.C:
			pingCtx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				h.log.Debug().Err(err).Msg("WebSocket ping failed")
				return
			}
		}
	}
}

func (h *EventsStreamHandler) write(ctx context.Context, conn *websocket.Conn, msg streamMessage) error {
	writeCtx, cancel := context.WithTimeout(ctx, eventWriteTimeout)
	defer cancel()

	if err := conn.Write(writeCtx, websocket.MessageText, h.encode(msg)); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			h.log.Debug().Err(err).Msg("Failed to write to event socket")
		}
		return err
	}
	return nil
}
