package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Saucyfinn/Wairimu-Website-sub000/internal/viewer"
)

const (
	writeWait      = 10 * time.Second
	maxClientFrame = 4096
	sendBuffer     = 64

	minViewport = 64
	maxWidth    = 1920
	maxHeight   = 1080
)

type outbound struct {
	kind int
	data []byte
}

// session is one remote viewer: a websocket carrying input in and
// state plus WebP frames out.
type session struct {
	id   string
	conn *websocket.Conn
	send chan outbound
	loop *viewer.Loop
	log  *zap.Logger

	// loop goroutine only
	lastKey []byte
}

func (s *Server) handleTourWS(w http.ResponseWriter, r *http.Request) {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	if limit := s.opts.Server.MaxSessions; limit > 0 && int(n) > limit {
		http.Error(w, "too many viewers", http.StatusServiceUnavailable)
		return
	}

	if !s.enter() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	defer s.sessions.Done()

	upgrader := websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	s.metrics.SessionOpened()
	defer s.metrics.SessionClosed()

	q := r.URL.Query()
	settings := s.opts.Viewer.Settings()
	settings.Width = viewport(q.Get("w"), settings.Width, maxWidth)
	settings.Height = viewport(q.Get("h"), settings.Height, maxHeight)

	t := s.opts.Tours.Current()
	initial := q.Get("scene")
	if initial == "" {
		initial = t.InitialScene
	}

	id := uuid.NewString()
	log := s.log.With(zap.String("session", id))
	v := viewer.New(viewer.Options{
		Scenes:       t.Scenes,
		InitialScene: initial,
		Backend:      s.opts.Backend,
		Images:       s.opts.Images,
		Display:      &viewer.Surface{Refuse: !s.opts.Viewer.AllowFullscreen},
		Logger:       log,
		Observer:     s.metrics,
		Settings:     settings,
	})
	// An unusable session still reports its status so the page can show
	// a fallback.
	if err := v.Mount(s.ctx); err != nil {
		log.Warn("session mount failed", zap.Error(err))
	}

	sess := &session{
		id:   id,
		conn: conn,
		send: make(chan outbound, sendBuffer),
		log:  log,
	}
	sess.loop = viewer.NewLoop(v, sess.onFrame)

	log.Info("viewer session opened",
		zap.String("remote", r.RemoteAddr),
		zap.Int("width", settings.Width),
		zap.Int("height", settings.Height))

	go sess.writePump()
	sess.loop.Start(s.ctx)
	go func() {
		<-sess.loop.Done()
		conn.SetReadDeadline(time.Now())
	}()

	sess.readPump()
	sess.loop.Stop()
	close(sess.send)
	log.Info("viewer session closed", zap.Int64("ticks", sess.loop.Ticks()))
}

func viewport(raw string, def, limit int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		n = def
	}
	return clampViewport(n, limit)
}

func clampViewport(n, limit int) int {
	if n < minViewport {
		n = minViewport
	}
	if n > limit {
		n = limit
	}
	return n
}

func (c *session) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(msg.kind, msg.data); err != nil {
			return
		}
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// enqueue never blocks; a full buffer drops the message.
func (c *session) enqueue(kind int, data []byte) bool {
	select {
	case c.send <- outbound{kind: kind, data: data}:
		return true
	default:
		return false
	}
}

func (c *session) sendJSON(msg WSMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("ws marshal failed", zap.Error(err))
		return false
	}
	return c.enqueue(websocket.TextMessage, data)
}

func (c *session) sendError(text string) {
	c.sendJSON(WSMessage{Type: MsgError, Payload: ErrorPayload{Message: text}})
}

// onFrame pushes state and the current picture whenever what the user
// sees has changed since the last push.
func (c *session) onFrame(v *viewer.Viewer, _ bool) {
	view := v.View()
	view.Frames = 0
	view.Orientation.Lon = round2(view.Orientation.Lon)
	view.Orientation.Lat = round2(view.Orientation.Lat)

	key, err := json.Marshal(view)
	if err != nil {
		c.log.Error("ws marshal failed", zap.Error(err))
		return
	}
	if bytes.Equal(key, c.lastKey) {
		return
	}

	state, err := json.Marshal(WSMessage{Type: MsgState, Payload: StatePayload{Session: c.id, View: view}})
	if err != nil {
		c.log.Error("ws marshal failed", zap.Error(err))
		return
	}
	if !c.enqueue(websocket.TextMessage, state) {
		return
	}
	c.lastKey = key

	img := v.Snapshot()
	if img == nil {
		return
	}
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		c.log.Warn("frame encode failed", zap.Error(err))
		return
	}
	if !c.enqueue(websocket.BinaryMessage, buf.Bytes()) {
		// resend on the next tick
		c.lastKey = nil
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func (c *session) readPump() {
	c.conn.SetReadLimit(maxClientFrame)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("ws read ended", zap.Error(err))
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("malformed message")
			continue
		}
		if !c.dispatch(msg) {
			return
		}
	}
}

// dispatch applies one input event on the loop goroutine. It returns
// false once the loop has stopped.
func (c *session) dispatch(msg ClientMessage) bool {
	var fn func(v *viewer.Viewer)
	switch msg.Type {
	case MsgPointerDown:
		fn = func(v *viewer.Viewer) { v.PointerDown(msg.X, msg.Y) }
	case MsgPointerMove:
		fn = func(v *viewer.Viewer) { v.PointerMove(msg.X, msg.Y) }
	case MsgPointerUp:
		fn = func(v *viewer.Viewer) { v.PointerUp(msg.X, msg.Y) }
	case MsgPointerCancel:
		fn = func(v *viewer.Viewer) { v.PointerCancel() }
	case MsgClosePanel:
		fn = func(v *viewer.Viewer) { v.ClosePanel() }
	case MsgSelectScene:
		fn = func(v *viewer.Viewer) {
			if !v.SelectScene(msg.Scene) && msg.Scene != v.View().Scene {
				c.sendError("unknown scene " + strconv.Quote(msg.Scene))
			}
		}
	case MsgFullscreen:
		fn = func(v *viewer.Viewer) {
			if !v.ToggleFullscreen() {
				c.sendError("fullscreen is not available")
			}
		}
	case MsgResize:
		if msg.W <= 0 || msg.H <= 0 {
			c.sendError("resize needs a positive size")
			return true
		}
		w, h := clampViewport(msg.W, maxWidth), clampViewport(msg.H, maxHeight)
		fn = func(v *viewer.Viewer) { v.Resize(w, h) }
	default:
		c.sendError("unknown message type " + strconv.Quote(string(msg.Type)))
		return true
	}
	return c.loop.Do(fn)
}
