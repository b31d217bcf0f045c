package attendee

import (
	"errors"
	"net/http"
	"strings"

	"edge-tickets/internal/logger"
	"edge-tickets/internal/utils"

	"go.uber.org/zap"
)

const (
	codeMissingEmail  = "missing_email"
	codeInternalError = "internal_error"
)

type Handler struct {
	Svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{Svc: svc}
}

// GetTickets serves GET /attendees/tickets?email=<email>. API key checks
// happen in middleware before this handler runs.
func (h *Handler) GetTickets(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		utils.WriteJSONError(w, http.StatusUnprocessableEntity, codeMissingEmail, "email query parameter is required")
		return
	}

	tickets, err := h.Svc.GetTicketsByEmail(r.Context(), email)
	if errors.Is(err, ErrEmailRequired) {
		utils.WriteJSONError(w, http.StatusUnprocessableEntity, codeMissingEmail, err.Error())
		return
	}
	if err != nil {
		logger.FromCtx(r.Context()).Debug("ticket lookup failed", zap.Error(err))
		utils.WriteJSONError(w, http.StatusInternalServerError, codeInternalError, "internal error")
		return
	}

	if tickets == nil {
		tickets = []*AttendeeTickets{}
	}

	if err := utils.WriteJSON(w, http.StatusOK, tickets); err != nil {
		logger.FromCtx(r.Context()).Warn("failed to write response", zap.Error(err))
	}
}
