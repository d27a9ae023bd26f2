package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myumkm/myumkm/internal/server/models"
)

type createConversationRequest struct {
	ConversationID string `json:"conversationId"`
	OtherPartyID   string `json:"otherPartyId"`
	Content        string `json:"content"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// ListConversations handles GET /conversations. With an otherPartyId
// query parameter it resolves (creating if needed) the conversation with
// that party and returns just that one; otherwise it lists all of the
// caller's conversations with their last message.
func (s *Server) ListConversations(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}

	if otherID := r.URL.Query().Get("otherPartyId"); otherID != "" {
		conv, err := s.conversations.Resolve(r.Context(), claims.UserID, otherID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"conversations": []models.Conversation{*conv},
		})
		return
	}

	convs, err := s.conversations.ListForUser(r.Context(), claims.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if convs == nil {
		convs = []models.Conversation{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"conversations": convs})
}

// CreateConversation handles POST /conversations: resolves the channel by
// conversationId or otherPartyId and optionally appends a first message.
func (s *Server) CreateConversation(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}

	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	var conv *models.Conversation
	switch {
	case req.ConversationID != "":
		conv, err = s.conversations.GetForUser(r.Context(), req.ConversationID, claims.UserID)
	case req.OtherPartyID != "":
		conv, err = s.conversations.Resolve(r.Context(), claims.UserID, req.OtherPartyID)
	default:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "conversationId or otherPartyId is required"})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var message *models.Message
	if req.Content != "" {
		message, err = s.messages.Append(r.Context(), conv.ID, claims.UserID, req.Content)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"conversation": conv,
		"message":      message,
	})
}

// ListMessages handles GET /conversations/{id}/messages, returning the
// ordered log. Non-participants get a 404.
func (s *Server) ListMessages(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}

	msgs, err := s.messages.ListOrdered(r.Context(), chi.URLParam(r, "id"), claims.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

// SendMessage handles POST /conversations/{id}/messages and returns the
// persisted record, including the server-assigned id the client needs for
// optimistic reconciliation.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	claims, err := ClaimsFromContext(r.Context())
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	msg, err := s.messages.Append(r.Context(), chi.URLParam(r, "id"), claims.UserID, req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"message": msg})
}
