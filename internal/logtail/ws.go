package logtail

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // read-only stream; browsers on any origin may watch
	},
}

// WSHandler upgrades the request and subscribes the socket to the hub.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := ws.WriteMessage(websocket.TextMessage, hub.welcome("websocket")); err != nil {
			_ = ws.Close()
			return
		}
		hub.AddWS(ws)
		zap.L().Info("[ws] log-tail client connected", zap.String("remote", c.ClientIP()))

		// incoming messages are ignored; reading detects disconnects
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.RemoveWS(ws)
		zap.L().Info("[ws] log-tail client disconnected", zap.String("remote", c.ClientIP()))
	}
}
