// Package server exposes reading sessions over HTTP: a JSON API for page
// views and clicks, and a minimal HTML reading page built on it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/japaniel/vocabreader/pkg/export"
	"github.com/japaniel/vocabreader/pkg/glossary"
	"github.com/japaniel/vocabreader/pkg/saved"
	"github.com/japaniel/vocabreader/pkg/session"
)

// maxBodySize caps request bodies.
const maxBodySize = 64 * 1024

// Server routes requests to per-user sessions.
type Server struct {
	Sessions *session.Manager
	// Logger is used for request failures. nil means no logging.
	Logger *log.Logger

	mux *http.ServeMux
}

// New returns a server over m.
func New(m *session.Manager, logger *log.Logger) *Server {
	s := &Server{Sessions: m, Logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/page", s.handlePage)
	s.mux.HandleFunc("POST /api/nav", s.handleNav)
	s.mux.HandleFunc("POST /api/click", s.handleClick)
	s.mux.HandleFunc("GET /api/saved", s.handleSaved)
	s.mux.HandleFunc("DELETE /api/saved", s.handleClear)
	s.mux.HandleFunc("DELETE /api/saved/{key}", s.handleRemove)
	s.mux.HandleFunc("GET /api/saved.csv", s.handleCSV)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down and
// closes every session.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		s.Sessions.CloseAll(context.Background())
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logf("Warning: shutdown: %v", err)
	}
	return s.Sessions.CloseAll(shutdownCtx)
}

func (s *Server) logf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Printf(format, args...)
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logf("Warning: write response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorBody{Error: err.Error()})
}

func (s *Server) open(r *http.Request, user string) (*session.Session, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, errMissingUser
	}
	return s.Sessions.Open(r.Context(), user)
}

var errMissingUser = errors.New("user is required")

func decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.open(r, r.URL.Query().Get("user"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.View())
}

// navRequest moves a session. Dir is "next", "prev" or "goto"; Page is used
// with "goto".
type navRequest struct {
	User string `json:"user"`
	Dir  string `json:"dir"`
	Page int    `json:"page"`
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	var req navRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	sess, err := s.open(r, req.User)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	var view session.PageView
	switch strings.ToLower(req.Dir) {
	case "next":
		view = sess.Next()
	case "prev":
		view = sess.Prev()
	case "goto":
		view = sess.Goto(req.Page)
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("unknown direction %q", req.Dir))
		return
	}
	s.writeJSON(w, http.StatusOK, view)
}

// clickRequest carries either Key with an optional advisory Saved flag, or a
// raw "+word" / "-word" Payload.
type clickRequest struct {
	User    string `json:"user"`
	Key     string `json:"key"`
	Saved   *bool  `json:"saved,omitempty"`
	Payload string `json:"payload,omitempty"`
}

type clickResponse struct {
	saved.Outcome
	Error      string               `json:"error,omitempty"`
	SavedWords []session.SavedEntry `json:"saved_words"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	sess, err := s.open(r, req.User)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	ev := saved.ClickEvent{Key: req.Key, Saved: req.Saved}
	if req.Payload != "" {
		ev = saved.ParsePayload(req.Payload)
	}
	if ev.Key == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("key is required"))
		return
	}

	out := sess.Click(ev)
	resp := clickResponse{Outcome: out, SavedWords: sess.SavedEntries()}
	if out.Rejected() {
		resp.Error = out.Err.Error()
		s.writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type savedResponse struct {
	User  string               `json:"user"`
	Words []session.SavedEntry `json:"words"`
}

func (s *Server) handleSaved(w http.ResponseWriter, r *http.Request) {
	sess, err := s.open(r, r.URL.Query().Get("user"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, savedResponse{User: sess.User(), Words: sess.SavedEntries()})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess, err := s.open(r, r.URL.Query().Get("user"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	sess.Clear()
	s.writeJSON(w, http.StatusOK, savedResponse{User: sess.User(), Words: sess.SavedEntries()})
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	sess, err := s.open(r, r.URL.Query().Get("user"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	sess.Remove(r.PathValue("key"))
	s.writeJSON(w, http.StatusOK, savedResponse{User: sess.User(), Words: sess.SavedEntries()})
}

func (s *Server) handleCSV(w http.ResponseWriter, r *http.Request) {
	sess, err := s.open(r, r.URL.Query().Get("user"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	entries := sess.SavedEntries()
	rows := make([]glossary.Entry, len(entries))
	for i, e := range entries {
		rows[i] = e.Entry
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="saved_words.csv"`)
	if err := export.WriteCSV(w, rows); err != nil {
		s.logf("Warning: write csv: %v", err)
	}
}
