package http

import (
	"net/http"

	"github.com/fjod/clothify/internal/checkout"
	"github.com/fjod/clothify/internal/events"
	"github.com/fjod/clothify/pkg/logger"
	"github.com/sirupsen/logrus"
)

const contactSentMessage = "Message sent successfully!"

type ContactHandler struct {
	*handler
}

func newContactHandler(h *handler) *ContactHandler {
	return &ContactHandler{handler: h}
}

type ContactRequestDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type ContactResponse struct {
	Notices []events.Notice `json:"notices"`
}

// POST /api/v1/contact
// Messages are logged only; nothing is delivered or stored.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req ContactRequestDTO
	if !decodeJSON(w, r, h.maxBodyBytes, &req) {
		return
	}
	if req.Message == "" {
		handleError(w, r, &checkout.ValidationError{Field: "message", Message: "Message is required"})
		return
	}

	logger.FromContext(r.Context()).WithFields(logrus.Fields{
		"contact_name":    req.Name,
		"contact_email":   req.Email,
		"contact_subject": req.Subject,
		"message_length":  len(req.Message),
	}).Info("contact form submitted")

	sess, buf := h.open(r)
	sess.Notifier.Notify(r.Context(), events.NewNotice(events.LevelSuccess, contactSentMessage))

	respondJSON(w, http.StatusAccepted, &ContactResponse{Notices: buf.Notices()})
}
