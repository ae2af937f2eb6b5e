package http

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"quiz-client/internal/bankserver"
	"quiz-client/internal/domain"
)

// WSHandler answers actions over a websocket: one JSON reply per JSON request.
type WSHandler struct {
	service  *bankserver.Service
	upgrader websocket.Upgrader
}

func NewWSHandler(service *bankserver.Service) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ServeWS upgrades the connection and serves requests until the client closes it.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxRequestBytes)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws read error: %v", err)
			}
			return
		}

		var resp domain.Response
		call, err := bankserver.CallFromJSON(data)
		if err != nil {
			resp = domain.Response{Error: err.Error()}
		} else {
			resp = h.service.Handle(r.Context(), call)
		}
		if err := conn.WriteJSON(resp); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}
