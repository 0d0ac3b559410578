// Package server serves a read-only local web view of the chat history.
package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/cobra"

	"github.com/verdictx/vx/internal/auth"
	"github.com/verdictx/vx/internal/configuration"
	"github.com/verdictx/vx/store"
)

//go:embed templates
var templatesFS embed.FS

type PageData struct {
	Title    string
	Query    string
	ShowBack bool
	User     *auth.User
	Chat     *ChatViewModel
	Chats    []ChatViewModel
}

// ChatViewModel wraps a chat for the template.
type ChatViewModel struct {
	ID           string
	Title        string
	CreatedLabel string
	MessageCount int
	Messages     []MessageViewModel
}

// MessageViewModel is one transcript entry for the template.
type MessageViewModel struct {
	Sender  string
	Text    string
	Time    string
	Feature string
}

// NewServeCmd creates a new serve command
func NewServeCmd(config *configuration.Config) *cobra.Command {
	var opts struct {
		Port int
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a web interface for viewing chats",
		Long:  "Serve a web interface for viewing chats",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.New(config.Storage.DatabasePath)
			if err != nil {
				return err
			}
			defer s.Close()

			user, err := s.GetUser()
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("not signed in; run `vx login` first")
			}
			server := &Server{
				store: s,
				user:  user,
			}
			return server.Start(opts.Port)
		},
	}

	cmd.Flags().IntVarP(&opts.Port, "port", "p", 3030, "Port to serve on")
	return cmd
}

// Server handles the web interface
type Server struct {
	store *store.Store
	user  *auth.User
	tmpl  *template.Template
}

func (s *Server) Start(port int) error {
	funcMap := sprig.HtmlFuncMap()
	funcMap["formatMessage"] = formatMessage

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	s.tmpl = tmpl

	http.HandleFunc("/", s.handleHistory)
	http.HandleFunc("/chat/", s.handleChatRoutes)

	addr := fmt.Sprintf(":%d", port)
	fmt.Printf("Server starting on http://localhost%s\n", addr)
	return http.ListenAndServe(addr, nil)
}

func (s *Server) handleChatRoutes(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 3 {
		http.NotFound(w, r)
		return
	}

	chatID := parts[2]

	switch {
	case r.Method == "GET" && len(parts) == 3:
		s.handleChat(w, r, chatID)
	case r.Method == "DELETE" && len(parts) == 3:
		s.handleDeleteChat(w, r, chatID)
	default:
		http.NotFound(w, r)
	}
}

// formatMessage converts transcript text to HTML, preserving line breaks.
func formatMessage(text string) template.HTML {
	escaped := template.HTMLEscapeString(text)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
