package websocket

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"smartwaste-dashboard/internal/middleware"
	"smartwaste-dashboard/pkg/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades the bin-status stream. The token comes from the
// query string because browsers cannot set headers on WebSocket requests.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.GetUserFromContext(r)
		if tokenString := r.URL.Query().Get("token"); tokenString != "" {
			claims, err := middleware.ParseToken(tokenString)
			if err != nil {
				log.Printf("❌ [WEBSOCKET] invalid token in query parameter: %v", err)
				utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			userClaims, ok = claims, true
		}
		if !ok {
			log.Println("❌ [WEBSOCKET] no user for connection")
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ [WEBSOCKET] upgrade failed: %v", err)
			return
		}

		client := NewClient(userClaims.UserID, userClaims.Role, conn, hub)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
