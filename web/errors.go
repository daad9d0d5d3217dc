package web

import (
	"encoding/json"
	"net/http"

	"github.com/CrestNiraj12/ourjournal/domain"
	"github.com/CrestNiraj12/ourjournal/infra/log"
)

// Error levels for HTTPError.
//
//	LevelRespond: don't log, only return the response to the caller
//	LevelFail:    log the error, stop the chain and respond
const (
	LevelRespond = 1
	LevelFail    = 2
)

// HTTPError is returned by a Handler to stop a request.
type HTTPError struct {
	Level  int    `json:"-"`
	IError error  `json:"-"`
	Status int    `json:"-"`
	Error  string `json:"error"`
}

// routeContext carries per-request state between chained handlers.
type routeContext struct {
	srv     *Server
	session domain.Session
	image   domain.Image
}

// Handler is one step of a JSON endpoint.
type Handler func(rc *routeContext, w http.ResponseWriter, r *http.Request) *HTTPError

// handle runs handlers in order until one returns an error.
func (s *Server) handle(handlers ...Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := &routeContext{srv: s}
		w.Header().Set("Content-Type", "application/json")

		for _, handler := range handlers {
			e := handler(rc, w, r)
			if e == nil {
				continue
			}
			if e.Level == LevelFail {
				log.Error.Printf("%s %s: %v", r.Method, r.URL.Path, e.IError)
			}
			writeJSON(w, e.Status, e)
			return
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error.Printf("encoding response: %v", err)
	}
}
