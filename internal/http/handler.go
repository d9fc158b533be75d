package http

import (
	"net/http"

	"github.com/fjod/clothify/internal/catalog"
	"github.com/fjod/clothify/internal/events"
	"github.com/fjod/clothify/internal/session"
)

// handler carries what every resource handler needs: the session factory, the
// product catalog and the request body limit.
type handler struct {
	sessions     *session.Factory
	catalog      catalog.Source
	maxBodyBytes int64
}

// open returns the managers of the request's session together with a buffer
// that collects the notices produced while serving the request.
func (h *handler) open(r *http.Request) (*session.Session, *events.Buffer) {
	buf := events.NewBuffer()
	return h.sessions.Open(SessionID(r.Context()), buf), buf
}
