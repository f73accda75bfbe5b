// Package webtui serves the terminal board to a browser: every websocket gets its own
// "ganttboard tui" process on a pseudo terminal, rendered client-side by xterm.js.
package webtui

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html static/*.css static/*.js
var assetsFS embed.FS

type ServerConfig struct {
	Addr string
	// Command is the program and arguments started for each session. Empty means the
	// running executable with the "tui" subcommand.
	Command []string
	// Env is appended to the environment of each session.
	Env    []string
	Logger logrus.FieldLogger
}

type Server struct {
	cfg  ServerConfig
	log  logrus.FieldLogger
	tmpl *template.Template
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("webtui: missing addr")
	}
	tmpl, err := template.ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{cfg: cfg, log: log.WithField("component", "webtui"), tmpl: tmpl}, nil
}

func (s *Server) Addr() string {
	return strings.TrimSpace(s.cfg.Addr)
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/terminal", http.StatusFound)
	}).Methods(http.MethodGet)
	r.HandleFunc("/terminal", s.handleTerminal).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)

	r.HandleFunc("/static/app.css", s.handleStatic("static/app.css", "text/css; charset=utf-8")).Methods(http.MethodGet)
	r.HandleFunc("/static/app.js", s.handleStatic("static/app.js", "text/javascript; charset=utf-8")).Methods(http.MethodGet)

	return r
}

func (s *Server) handleStatic(path, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := assetsFS.ReadFile(path)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(b)
	}
}

type terminalVM struct {
	Title string
}

func (s *Server) handleTerminal(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "terminal.html", terminalVM{Title: "ganttboard"}); err != nil {
		s.log.WithError(err).Error("render terminal page")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
