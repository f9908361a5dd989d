package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"docqa/internal/usecase"
)

// Server exposes question answering over HTTP.
type Server struct {
	answers *usecase.AnswerService
	logger  *slog.Logger
}

func New(answers *usecase.AnswerService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{answers: answers, logger: logger}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ask_question", s.handleAskQuestion)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return corsMiddleware(mux)
}

// ListenAndServe blocks serving requests on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.logger.Info("listening", "addr", addr)
	return srv.ListenAndServe()
}

type answerResponse struct {
	Answer string `json:"answer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request) {
	question := strings.TrimSpace(r.URL.Query().Get("question"))
	if question == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing question parameter"})
		return
	}

	start := time.Now()
	ans, err := s.answers.Answer(r.Context(), question)
	if err != nil {
		s.logger.Error("retrieval failed", "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "failed to retrieve context: " + err.Error()})
		return
	}

	// A generation failure still produces a 200: the fallback text is the
	// answer in that case.
	s.logger.Info("question answered",
		"chunks", len(ans.Chunks),
		"degraded", ans.Err != nil,
		"duration", time.Since(start))
	writeJSON(w, http.StatusOK, answerResponse{Answer: ans.Text})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// corsMiddleware allows browser calls from local development origins.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if isLoopbackOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isLoopbackOrigin(origin string) bool {
	for _, prefix := range []string{
		"http://localhost", "https://localhost",
		"http://127.0.0.1", "https://127.0.0.1",
	} {
		if origin == prefix || strings.HasPrefix(origin, prefix+":") {
			return true
		}
	}
	return false
}
