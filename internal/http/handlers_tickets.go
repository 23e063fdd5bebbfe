package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"learnhub/api/internal/auth"
	"learnhub/api/internal/model"
	"learnhub/api/internal/repository"
)

type createTicketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	// Creator fields sent by the client are accepted and ignored: the
	// stored creator always comes from the verified token claims.
	UserID   string `json:"userId,omitempty"`
	UserName string `json:"userName,omitempty"`
	UserRole string `json:"userRole,omitempty"`
}

type updateTicketRequest struct {
	Subject *string `json:"subject,omitempty"`
	Message *string `json:"message,omitempty"`
	Status  *string `json:"status,omitempty"`
}

type ticketResponse struct {
	ID        string             `json:"id"`
	Subject   string             `json:"subject"`
	Message   string             `json:"message"`
	Status    model.TicketStatus `json:"status"`
	UserID    string             `json:"userId"`
	UserName  string             `json:"userName"`
	UserRole  model.Role         `json:"userRole"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func mapTicketResponse(ticket model.Ticket) ticketResponse {
	return ticketResponse{
		ID:        ticket.ID,
		Subject:   ticket.Subject,
		Message:   ticket.Message,
		Status:    ticket.Status,
		UserID:    ticket.CreatorID,
		UserName:  ticket.CreatorName,
		UserRole:  ticket.CreatorRole,
		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}
}

// ticketScope returns the creator filter for the authenticated identity:
// empty for admins (unscoped), the identity id for everyone else.
func ticketScope(claims *auth.Claims) string {
	if isAdmin(claims) {
		return ""
	}
	return claims.UserID
}

func (s *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil || claims.UserID == "" {
		writeError(w, http.StatusBadRequest, "invalid_identity")
		return
	}

	var req createTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if req.Subject == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	now := time.Now().UTC()
	ticket := model.Ticket{
		ID:          uuid.NewString(),
		Subject:     req.Subject,
		Message:     req.Message,
		Status:      model.TicketOpen,
		CreatorID:   claims.UserID,
		CreatorName: claims.Username,
		CreatorRole: claims.Role,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateTicket(r.Context(), ticket); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, mapTicketResponse(ticket))
}

func (s *Server) handleListTickets(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	var (
		tickets []model.Ticket
		err     error
	)
	if isAdmin(claims) {
		tickets, err = s.store.ListTickets(r.Context())
	} else {
		tickets, err = s.store.ListTicketsByCreator(r.Context(), claims.UserID)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]ticketResponse, 0, len(tickets))
	for _, ticket := range tickets {
		resp = append(resp, mapTicketResponse(ticket))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	ticketID := chi.URLParam(r, "ticketID")
	if ticketID == "" {
		writeError(w, http.StatusBadRequest, "missing_ticket_id")
		return
	}

	var req updateTicketRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	update := repository.TicketUpdate{}
	if req.Subject != nil {
		subject := strings.TrimSpace(*req.Subject)
		if subject != "" {
			update.Subject = &subject
		}
	}
	if req.Message != nil {
		message := strings.TrimSpace(*req.Message)
		if message != "" {
			update.Message = &message
		}
	}
	if req.Status != nil {
		status, err := model.ParseTicketStatus(*req.Status)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_status")
			return
		}
		update.Status = &status
	}

	ticket, err := s.store.UpdateTicket(r.Context(), ticketID, ticketScope(claims), update)
	if err != nil {
		// Nonexistent id and someone else's ticket look identical here.
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "ticket_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, mapTicketResponse(ticket))
}

func (s *Server) handleDeleteTicket(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "missing_token")
		return
	}

	ticketID := chi.URLParam(r, "ticketID")
	if ticketID == "" {
		writeError(w, http.StatusBadRequest, "missing_ticket_id")
		return
	}

	deleted, err := s.store.DeleteTicket(r.Context(), ticketID, ticketScope(claims))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "ticket_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
