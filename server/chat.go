package server

import (
	"fmt"
	"net/http"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, chatID string) {
	c, err := s.store.GetChat(chatID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	viewModel := ChatViewModel{
		ID:           c.ID,
		Title:        c.Title,
		CreatedLabel: c.CreatedLabel,
		MessageCount: len(c.Messages),
	}
	for _, message := range c.Messages {
		if message.IsTyping {
			continue
		}
		viewModel.Messages = append(viewModel.Messages, MessageViewModel{
			Sender:  message.Sender,
			Text:    message.Text,
			Time:    message.Time,
			Feature: message.FeatureKey,
		})
	}

	data := PageData{
		Title:    fmt.Sprintf("Chat %s", chatID),
		ShowBack: true,
		User:     s.user,
		Chat:     &viewModel,
	}
	if err := s.tmpl.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleDeleteChat(w http.ResponseWriter, r *http.Request, chatID string) {
	if err := s.store.DeleteChat(chatID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
