package handlers

import (
	"net/http"

	"telegram-admin/internal/wsnotify"
)

// WebSocketHandler joins a dashboard panel to the notification hub.
// The read loop only exists to detect the close.
func WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsnotify.Upgrader().Upgrade(w, r, nil)
	if err != nil {
		return
	}
	wsnotify.Manager.AddClient(conn)
	defer func() {
		wsnotify.Manager.RemoveClient(conn)
		conn.Close()
	}()
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
