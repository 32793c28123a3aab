package realtime

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/PancyStudios/DiscordNova/pkg/logger"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from another origin; access is gated by the
	// bearer token instead.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsViewer adapts a websocket connection to Viewer. Writes are serialized.
type wsViewer struct {
	id   string
	conn *websocket.Conn

	writeMu sync.Mutex
	once    sync.Once
	done    chan struct{}
}

func (v *wsViewer) ID() string { return v.id }

func (v *wsViewer) Send(msg []byte) error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return v.conn.WriteMessage(websocket.TextMessage, msg)
}

func (v *wsViewer) ping() error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()
	return v.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (v *wsViewer) Close() error {
	var err error
	v.once.Do(func() {
		close(v.done)
		err = v.conn.Close()
	})
	return err
}

// Serve upgrades the request and keeps the viewer registered until the
// connection closes. It blocks for the life of the connection.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	v := &wsViewer{
		id:   uuid.New().String(),
		conn: conn,
		done: make(chan struct{}),
	}
	h.Register(v)
	defer h.Unregister(v.id)

	go v.keepAlive()

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Viewers only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn(fmt.Sprintf("Visor %s cerrado inesperadamente: %v", v.id, err), "Realtime")
			}
			return nil
		}
	}
}

func (v *wsViewer) keepAlive() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := v.ping(); err != nil {
				return
			}
		case <-v.done:
			return
		}
	}
}
