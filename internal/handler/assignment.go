package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/quizforge/quizforge/internal/assignment"
	"github.com/quizforge/quizforge/internal/llm"
	"github.com/quizforge/quizforge/internal/model"
)

type generateAssignmentRequest struct {
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	TimeLimit  int    `json:"time_limit"`
	Model      string `json:"model,omitempty"`
}

// handleGenerateAssignment asks the LLM for a coding assignment and
// returns the parsed sections without persisting anything.
func (h *Handler) handleGenerateAssignment(w http.ResponseWriter, r *http.Request) {
	var req generateAssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	if req.Model != "" && !llm.IsKnownModel(req.Model) {
		writeError(w, http.StatusBadRequest, "unknown model: "+req.Model)
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = "intermediate"
	}
	if req.TimeLimit <= 0 {
		req.TimeLimit = 30
	}

	prompt := assignment.CreationPrompt(req.Topic, req.Difficulty, req.TimeLimit)
	response, err := h.llm.Generate(r.Context(), h.modelOrDefault(req.Model), prompt)
	if err != nil {
		slog.Error("assignment generation failed", "error", err)
		writeError(w, http.StatusBadGateway, "text generation failed")
		return
	}

	details := assignment.ParseDetails(response)
	writeJSON(w, http.StatusOK, map[string]any{"details": details})
}

type createAssignmentRequest struct {
	assignment.Details
	Description string `json:"description"`
	Topic       string `json:"topic"`
	Difficulty  string `json:"difficulty"`
	TimeLimit   int    `json:"time_limit"`
}

func (h *Handler) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req createAssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	user := model.UserFromContext(r.Context())
	a := model.Assignment{
		Title:              req.Title,
		Description:        req.Description,
		Topic:              req.Topic,
		Difficulty:         req.Difficulty,
		TimeLimit:          req.TimeLimit,
		Background:         req.Background,
		Requirements:       req.Requirements,
		Hints:              req.Hints,
		CodeTemplate:       req.CodeTemplate,
		ExpectedOutput:     req.ExpectedOutput,
		EvaluationCriteria: req.EvaluationCriteria,
		TeacherID:          user.ID,
	}
	id, err := h.store.InsertAssignment(a)
	if err != nil {
		slog.Error("failed to save assignment", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save assignment")
		return
	}

	saved, err := h.store.GetAssignment(id)
	if err != nil || saved == nil {
		slog.Error("failed to load saved assignment", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save assignment")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.store.ListAssignments()
	if err != nil {
		slog.Error("failed to list assignments", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list assignments")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"assignments": assignments})
}

func (h *Handler) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadAssignment(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, a)
}

type submitAssignmentRequest struct {
	Code  string `json:"code"`
	Model string `json:"model,omitempty"`
}

// handleSubmitAssignment evaluates submitted code against the
// assignment's requirements and stores the verdict with the submission.
func (h *Handler) handleSubmitAssignment(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadAssignment(w, r)
	if !ok {
		return
	}

	var req submitAssignmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeError(w, http.StatusBadRequest, "code is required")
		return
	}
	if req.Model != "" && !llm.IsKnownModel(req.Model) {
		writeError(w, http.StatusBadRequest, "unknown model: "+req.Model)
		return
	}

	prompt := assignment.EvaluationPrompt(req.Code, a.Requirements, a.ExpectedOutput)
	response, err := h.llm.Generate(r.Context(), h.modelOrDefault(req.Model), prompt)
	if err != nil {
		slog.Error("code evaluation failed", "assignment_id", a.ID, "error", err)
		writeError(w, http.StatusBadGateway, "text generation failed")
		return
	}
	eval := assignment.ParseEvaluation(response)

	user := model.UserFromContext(r.Context())
	sub := model.AssignmentSubmission{
		AssignmentID: a.ID,
		StudentID:    user.ID,
		Code:         req.Code,
		Verdict:      eval.Verdict,
		Analysis:     eval.Analysis,
		Improvements: eval.Improvements,
	}
	id, err := h.store.InsertAssignmentSubmission(sub)
	if err != nil {
		slog.Error("failed to save assignment submission", "assignment_id", a.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save submission")
		return
	}
	sub.ID = id

	writeJSON(w, http.StatusCreated, map[string]any{
		"submission": sub,
		"evaluation": eval,
	})
}

// handleListAssignmentSubmissions lists submissions for an assignment:
// every submission for the owning teacher, only the requester's own for
// anyone else.
func (h *Handler) handleListAssignmentSubmissions(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadAssignment(w, r)
	if !ok {
		return
	}

	user := model.UserFromContext(r.Context())
	var subs []model.AssignmentSubmission
	var err error
	if a.TeacherID == user.ID {
		subs, err = h.store.ListAssignmentSubmissions(a.ID)
	} else {
		subs, err = h.store.ListAssignmentSubmissionsForStudent(user.ID, a.ID)
	}
	if err != nil {
		slog.Error("failed to list submissions", "assignment_id", a.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": subs})
}

func (h *Handler) loadAssignment(w http.ResponseWriter, r *http.Request) (*model.Assignment, bool) {
	id, ok := urlID(r, "assignmentID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid assignment id")
		return nil, false
	}
	a, err := h.store.GetAssignment(id)
	if err != nil {
		slog.Error("failed to get assignment", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get assignment")
		return nil, false
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "assignment not found")
		return nil, false
	}
	return a, true
}
