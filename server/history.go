package server

import (
	"net/http"

	"github.com/verdictx/vx/internal/chat"
)

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var chats []*chat.Chat
	var err error
	if query != "" {
		chats, err = s.store.SearchChats(s.user.ID, query)
	} else {
		chats, err = s.store.ListChats(s.user.ID)
	}
	if err != nil {
		http.Error(w, "Failed to load chats", http.StatusInternalServerError)
		return
	}

	viewModels := make([]ChatViewModel, 0, len(chats))
	for _, c := range chats {
		viewModels = append(viewModels, ChatViewModel{
			ID:           c.ID,
			Title:        c.Title,
			CreatedLabel: c.CreatedLabel,
			MessageCount: len(c.Messages),
		})
	}

	data := PageData{
		Title: "Chat History",
		Query: query,
		User:  s.user,
		Chats: viewModels,
	}
	if err := s.tmpl.ExecuteTemplate(w, "base", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
