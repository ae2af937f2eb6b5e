package http

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"quiz-client/internal/bankserver"
	"quiz-client/internal/domain"
)

const maxRequestBytes = 4 << 20

// NewRouter exposes the exam service actions over POST, GET and websocket.
func NewRouter(service *bankserver.Service) http.Handler {
	exec := &ExecHandler{service: service}
	ws := NewWSHandler(service)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Post("/exec", exec.ServePost)
	r.Get("/exec", exec.ServeGet)
	r.Get("/ws", ws.ServeWS)
	return r
}

// ExecHandler answers actions sent as a JSON body or as query parameters.
type ExecHandler struct {
	service *bankserver.Service
}

func (h *ExecHandler) ServePost(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, domain.Response{Error: "failed to read body"})
		return
	}
	call, err := bankserver.CallFromJSON(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, domain.Response{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.service.Handle(r.Context(), call))
}

func (h *ExecHandler) ServeGet(w http.ResponseWriter, r *http.Request) {
	call, err := bankserver.CallFromQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, domain.Response{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, h.service.Handle(r.Context(), call))
}

func writeJSON(w http.ResponseWriter, status int, resp domain.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("write response: %v", err)
	}
}
