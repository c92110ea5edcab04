// Package handler exposes the platform as a JSON HTTP API. Success
// responses carry plain resource JSON or {"success": true, ...}; failures
// carry {"error": "message"} so clients branch on the error key.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/quizforge/internal/model"
	"github.com/quizforge/quizforge/internal/store"
)

// Generator produces text from a prompt. Satisfied by *llm.Client; tests
// substitute a canned implementation.
type Generator interface {
	Generate(ctx context.Context, modelName, prompt string) (string, error)
}

// Config holds runtime handler parameters set via CLI flags.
type Config struct {
	SecureCookies bool   // Set Secure flag on session cookies (disable for local dev)
	DefaultModel  string // Model used when a request does not name one
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store  *store.Store
	llm    Generator
	config Config
}

// New creates a new Handler.
func New(s *store.Store, g Generator, cfg Config) *Handler {
	return &Handler{store: s, llm: g, config: cfg}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", h.handleSignup)
		r.Post("/auth/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			r.Post("/auth/logout", h.handleLogout)
			r.Get("/auth/me", h.handleMe)

			r.Get("/quizzes", h.handleListQuizzes)
			r.Get("/quizzes/{quizID}", h.handleGetQuiz)
			r.Post("/quizzes/{quizID}/submissions", h.handleSubmitQuiz)
			r.Get("/submissions", h.handleMySubmissions)
			r.Post("/quizzes/{quizID}/submissions/{subID}/analysis", h.handleAnalyzeSubmission)

			r.Get("/assignments", h.handleListAssignments)
			r.Get("/assignments/{assignmentID}", h.handleGetAssignment)
			r.Post("/assignments/{assignmentID}/submissions", h.handleSubmitAssignment)
			r.Get("/assignments/{assignmentID}/submissions", h.handleListAssignmentSubmissions)

			r.Group(func(r chi.Router) {
				r.Use(requireRole(model.UserRoleTeacher))

				r.Post("/quizzes/generate", h.handleGenerateQuiz)
				r.Post("/quizzes", h.handleCreateQuiz)
				r.Get("/quizzes/{quizID}/submissions", h.handleListQuizSubmissions)
				r.Put("/quizzes/{quizID}/submissions/{subID}/grades", h.handleUpdateManualGrades)

				r.Post("/assignments/generate", h.handleGenerateAssignment)
				r.Post("/assignments", h.handleCreateAssignment)
			})
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func urlID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}
