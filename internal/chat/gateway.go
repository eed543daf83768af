package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"docuforge/internal/events"
	"docuforge/internal/models"
	"docuforge/internal/pipeline"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 64 * 1024
)

// Inbound frame types.
const (
	frameUserMessage = "user_message"
	framePing        = "ping"
)

// Outbound frame types.
const (
	frameSendMessage = "send_message"
	frameStageEvent  = "stage_event"
	framePong        = "pong"
	frameError       = "error"
)

type inboundFrame struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
}

type outboundFrame struct {
	Type    string        `json:"type"`
	Message string        `json:"message,omitempty"`
	Event   *events.Event `json:"event,omitempty"`
	RunID   string        `json:"runId,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Gateway is the chat surface: one websocket connection per session, user
// messages in, stage progress and final reports out. Each connection owns
// one session key; at most one run is in flight per connection at a time.
type Gateway struct {
	pipeline    *pipeline.Pipeline
	broadcaster *events.Broadcaster
}

func NewGateway(p *pipeline.Pipeline, b *events.Broadcaster) *Gateway {
	return &Gateway{pipeline: p, broadcaster: b}
}

// Handler returns the websocket endpoint.
func (g *Gateway) Handler() http.Handler {
	return http.HandlerFunc(g.handle)
}

func (g *Gateway) handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	session := newSession(conn, g.pipeline)
	defer session.close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	ctx = events.WithSession(ctx, session.key)

	eventCh, unsubscribe := g.broadcaster.Subscribe(session.key)
	defer unsubscribe()
	go session.forwardEvents(ctx, eventCh)
	go session.keepAlive(ctx)

	session.readLoop(ctx)
}

// session is the per-connection state. All writes to the connection funnel
// through writeFrame because the event forwarder and the run goroutine both
// produce output.
type session struct {
	key      string
	conn     *websocket.Conn
	pipeline *pipeline.Pipeline

	writeMu sync.Mutex
	runMu   sync.Mutex
}

func newSession(conn *websocket.Conn, p *pipeline.Pipeline) *session {
	return &session{
		key:      uuid.NewString(),
		conn:     conn,
		pipeline: p,
	}
}

func (s *session) close() {
	s.conn.Close()
}

func (s *session) writeFrame(frame outboundFrame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteJSON(frame)
}

// readLoop consumes inbound frames until the connection drops.
func (s *session) readLoop(ctx context.Context) {
	s.conn.SetReadLimit(readLimit)

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read failed: %v", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.writeFrame(outboundFrame{Type: frameError, Message: "invalid frame"})
			continue
		}

		switch frame.Type {
		case framePing:
			s.writeFrame(outboundFrame{Type: framePong})
		case frameUserMessage:
			go s.runPipeline(ctx, frame.Content)
		default:
			s.writeFrame(outboundFrame{Type: frameError, Message: "unknown frame type: " + frame.Type})
		}
	}
}

// runPipeline executes one documentation run for a user message. runMu keeps
// runs on a connection strictly sequential.
func (s *session) runPipeline(ctx context.Context, message string) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	rec, err := s.pipeline.Run(ctx, message)
	if err != nil {
		if errors.Is(err, pipeline.ErrUsage) {
			s.writeFrame(outboundFrame{Type: frameSendMessage, Message: err.Error()})
			return
		}
		s.writeFrame(outboundFrame{Type: frameError, Message: err.Error()})
		return
	}

	s.writeFrame(outboundFrame{
		Type:    frameSendMessage,
		Message: rec.Report,
		RunID:   rec.RunID,
	})
	if archive := archivePath(rec); archive != "" {
		s.writeFrame(outboundFrame{
			Type:    frameSendMessage,
			Message: "Archive ready: " + archive,
			RunID:   rec.RunID,
		})
	}
}

func archivePath(rec *models.PipelineRecord) string {
	if rec.Bundle == nil {
		return ""
	}
	return rec.Bundle.ArchivePath
}

// forwardEvents turns pipeline stage events into chat frames.
func (s *session) forwardEvents(ctx context.Context, ch <-chan events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			if err := s.writeFrame(outboundFrame{Type: frameStageEvent, Event: &evt}); err != nil {
				return
			}
		}
	}
}

func (s *session) keepAlive(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.writeMu.Lock()
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := s.conn.WriteMessage(websocket.PingMessage, nil)
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
