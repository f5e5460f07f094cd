package serverboard

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// every client gets its own subscription on the refresher, the refresher
//    drops stale snapshots for slow clients so a write here never blocks a cycle

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins
	},
}

func (h *boardHandler) feed(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Info("Could not upgrade", "err", err)
		return
	}
	defer conn.Close()

	id, snapshots := h.refresher.Subscribe()
	defer h.refresher.Unsubscribe(id)
	h.logger.Debug("feed subscriber joined", "subscriber", id.String())

	closed := make(chan struct{})
	go readPump(conn, closed)

	for {
		select {
		case snap, ok := <-snapshots:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
				return
			}
			if err := conn.WriteJSON(snap); err != nil {
				h.logger.Info("feed write failed", "subscriber", id.String(), "err", err)
				return
			}
		case <-closed:
			h.logger.Debug("feed subscriber left", "subscriber", id.String())
			return
		}
	}
}

// clients never send anything meaningful, reading only notices the close
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
