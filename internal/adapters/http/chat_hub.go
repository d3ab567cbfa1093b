package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"gymdesk/internal/domain/message"
)

const chatWriteTimeout = 5 * time.Second

// chatHub pushes newly stored messages to every socket watching the same member thread.
// mu guards the registry only; socket writes happen outside it.
type chatHub struct {
	mu      sync.Mutex
	threads map[int64]map[*websocket.Conn]*chatListener
}

// chatListener serializes writes to one socket.
type chatListener struct {
	writeMu sync.Mutex
	conn    *websocket.Conn
}

func (l *chatListener) write(payload []byte) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	l.conn.SetWriteDeadline(time.Now().Add(chatWriteTimeout))
	return l.conn.WriteMessage(websocket.TextMessage, payload)
}

func newChatHub() *chatHub {
	return &chatHub{threads: make(map[int64]map[*websocket.Conn]*chatListener)}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkSocketOrigin,
}

// checkSocketOrigin accepts same-host origins and the configured CORS origins.
func checkSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || slices.Contains(options.CORSOrigins, origin) {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// Publish sends msg to every listener of its thread and returns once each write finished or
// timed out. A failed write drops that listener. A stalled socket only delays its own write.
// INVARIANT: writes to one connection never overlap (chatListener.writeMu)
func (h *chatHub) Publish(msg message.Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		slog.Error("chat_publish", "error", err.Error())
		return
	}

	h.mu.Lock()
	listeners := make([]*chatListener, 0, len(h.threads[msg.MemberID]))
	for _, l := range h.threads[msg.MemberID] {
		listeners = append(listeners, l)
	}
	h.mu.Unlock()

	var wg sync.WaitGroup
	for _, l := range listeners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.write(payload); err != nil {
				slog.Info("chat_event", "event", "listener_dropped", "member_id", msg.MemberID, "error", err.Error())
				h.remove(msg.MemberID, l.conn)
				l.conn.Close()
			}
		}()
	}
	wg.Wait()
}

// Listeners returns how many sockets watch a thread.
func (h *chatHub) Listeners(memberID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.threads[memberID])
}

func (h *chatHub) add(memberID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.threads[memberID] == nil {
		h.threads[memberID] = make(map[*websocket.Conn]*chatListener)
	}
	h.threads[memberID][conn] = &chatListener{conn: conn}
}

func (h *chatHub) remove(memberID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.threads[memberID], conn)
	if len(h.threads[memberID]) == 0 {
		delete(h.threads, memberID)
	}
}

// serve upgrades the request and keeps the socket registered until the client goes away.
// Incoming frames are discarded; messages are posted over HTTP.
func (h *chatHub) serve(w http.ResponseWriter, r *http.Request, memberID int64) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		slog.Info("chat_event", "event", "upgrade_failed", "error", err.Error())
		return
	}
	h.add(memberID, conn)
	defer func() {
		h.remove(memberID, conn)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
