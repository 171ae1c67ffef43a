package server

import (
	"net/http"

	"github.com/jonathan/resume-builder/internal/chat"
)

// ChatBody is a message from the user
type ChatBody struct {
	Message string `json:"message"`
}

// ChatResponse carries the assistant's reply
type ChatResponse struct {
	Reply chat.Turn `json:"reply"`
}

// HistoryResponse carries the turns of a session, oldest first
type HistoryResponse struct {
	History []chat.Turn `json:"history"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var body ChatBody
	if err := s.decodeJSON(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	_, sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	reply, err := sess.chat.Send(r.Context(), body.Message)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ChatResponse{Reply: reply})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	_, sess, ok := s.openSession(w, r)
	if !ok {
		return
	}
	history, err := sess.chat.History(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if history == nil {
		history = []chat.Turn{}
	}
	s.jsonResponse(w, http.StatusOK, HistoryResponse{History: history})
}
