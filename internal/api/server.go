// Package api exposes the viewer's HTTP interface consumed by the
// presentation layer: import, current chat, display groups, search and
// media download.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/archive"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/chat"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/importer"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/media"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/search"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/status"
	"go.uber.org/zap"
)

// Server serves the viewer HTTP API.
type Server struct {
	router   *chi.Mux
	addr     string
	importer *importer.Importer
	index    *search.Index
	arena    *media.Arena
	machine  *status.Machine
	logger   *zap.Logger
	http     *http.Server
}

// NewServer builds the router and its handlers. machine may be nil.
func NewServer(addr string, im *importer.Importer, ix *search.Index, arena *media.Arena, machine *status.Machine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		addr:     addr,
		importer: im,
		index:    ix,
		arena:    arena,
		machine:  machine,
		logger:   logger,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/import", s.importChat)
		r.Get("/chat", s.getChat)
		r.Delete("/chat", s.clearChat)
		r.Get("/chat/groups", s.getGroups)
		r.Get("/search", s.searchMessages)
		r.Get("/media/{id}", s.getMedia)
	})
	return s
}

// Start listens until Stop is called.
func (s *Server) Start() error {
	s.http = &http.Server{Addr: s.addr, Handler: s.router}
	s.logger.Info("API server starting", zap.String("addr", s.addr))
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop shuts the listener down gracefully.
func (s *Server) Stop(ctx context.Context) {
	if s.http != nil {
		_ = s.http.Shutdown(ctx)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	body := map[string]string{"status": "ok"}
	if s.machine != nil {
		body["state"] = string(s.machine.Current())
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) importChat(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	var c *chat.Chat
	if strings.EqualFold(filepath.Ext(header.Filename), ".zip") {
		c, err = s.importer.ImportArchive(r.Context(), bytes.NewReader(data), int64(len(data)))
	} else {
		c, err = s.importer.ImportText(r.Context(), header.Filename, string(data))
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, archive.ErrNoChatLog) {
			status = http.StatusUnprocessableEntity
		}
		s.logger.Error("import failed", zap.String("file", header.Filename), zap.Error(err))
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, chatToJSON(c))
}

func (s *Server) getChat(w http.ResponseWriter, _ *http.Request) {
	c := s.importer.Current()
	if c == nil {
		writeError(w, http.StatusNotFound, "no chat loaded")
		return
	}
	writeJSON(w, http.StatusOK, chatToJSON(c))
}

func (s *Server) clearChat(w http.ResponseWriter, r *http.Request) {
	if err := s.importer.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) getGroups(w http.ResponseWriter, _ *http.Request) {
	c := s.importer.Current()
	if c == nil {
		writeError(w, http.StatusNotFound, "no chat loaded")
		return
	}
	groups := chat.GroupMessages(c.Messages)
	out := make([]groupJSON, len(groups))
	for i, g := range groups {
		out[i] = groupToJSON(g, c.IsGroup)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) searchMessages(w http.ResponseWriter, r *http.Request) {
	results := s.index.Search(r.URL.Query().Get("q"))
	out := make([]resultJSON, len(results))
	for i, res := range results {
		out[i] = resultToJSON(res)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	m, ok := s.importer.Media(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown media")
		return
	}
	data, err := s.arena.Open(m.Handle)
	if err != nil {
		writeError(w, http.StatusGone, "media handle revoked")
		return
	}
	ct := mime.TypeByExtension(filepath.Ext(m.Name))
	if ct == "" {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", `inline; filename="`+m.Name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
