package events

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/avolkov/bloglist/internal/common/constants"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Handler upgrades the request and streams events until the client
// disconnects or the hub closes. Token verification happens upstream in the
// shared middleware chain.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warnf("event feed upgrade failed: %v", err)
			return
		}

		c := newClient()
		if !h.register(c) {
			conn.Close()
			return
		}

		go h.writePump(conn, c)
		go h.readPump(conn, c)
	}
}

func (h *Hub) writePump(conn *websocket.Conn, c *client) {
	ticker := time.NewTicker(constants.EventFeedPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(constants.EventFeedWriteWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				h.unregister(c)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(constants.EventFeedWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(c)
				return
			}
		}
	}
}

// readPump consumes and discards client frames so pong handling works and a
// closed connection is detected promptly.
func (h *Hub) readPump(conn *websocket.Conn, c *client) {
	defer h.unregister(c)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(constants.EventFeedPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(constants.EventFeedPongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
