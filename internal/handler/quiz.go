package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/quizforge/quizforge/internal/llm"
	"github.com/quizforge/quizforge/internal/model"
	"github.com/quizforge/quizforge/internal/quiz"
)

type generateQuizRequest struct {
	quiz.GenerationSpec
	Model string `json:"model,omitempty"`
}

// handleGenerateQuiz asks the LLM for a question batch and returns the
// parsed questions without persisting anything. The teacher reviews the
// batch and saves it with a separate request.
func (h *Handler) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req generateQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Topics) == "" {
		writeError(w, http.StatusBadRequest, "topics is required")
		return
	}
	total := req.NumMCQ + req.NumFill + req.NumTrueFalse + req.NumOpenEnded
	if total <= 0 {
		writeError(w, http.StatusBadRequest, "at least one question must be requested")
		return
	}
	if req.Model != "" && !llm.IsKnownModel(req.Model) {
		writeError(w, http.StatusBadRequest, "unknown model: "+req.Model)
		return
	}
	if req.NumOptions <= 0 {
		req.NumOptions = 4
	}

	response, err := h.llm.Generate(r.Context(), h.modelOrDefault(req.Model), quiz.CreationPrompt(req.GenerationSpec))
	if err != nil {
		slog.Error("quiz generation failed", "error", err)
		writeError(w, http.StatusBadGateway, "text generation failed")
		return
	}

	questions := quiz.Parse(response)
	if len(questions) == 0 {
		writeError(w, http.StatusBadGateway, "no questions could be parsed from the model response")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

type createQuizRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Topics      string           `json:"topics"`
	Difficulty  string           `json:"difficulty"`
	Questions   []model.Question `json:"questions"`
}

func (h *Handler) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(req.Questions) == 0 {
		writeError(w, http.StatusBadRequest, "at least one question is required")
		return
	}

	user := model.UserFromContext(r.Context())
	q := model.Quiz{
		Title:       req.Title,
		Description: req.Description,
		Topics:      req.Topics,
		Difficulty:  req.Difficulty,
		TeacherID:   user.ID,
		Questions:   req.Questions,
	}
	id, err := h.store.InsertQuiz(q)
	if err != nil {
		slog.Error("failed to save quiz", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save quiz")
		return
	}

	saved, err := h.store.GetQuiz(id)
	if err != nil || saved == nil {
		slog.Error("failed to load saved quiz", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save quiz")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.store.ListQuizzes()
	if err != nil {
		slog.Error("failed to list quizzes", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list quizzes")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quizzes": quizzes})
}

func (h *Handler) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	q, ok := h.loadQuiz(w, r)
	if !ok {
		return
	}

	user := model.UserFromContext(r.Context())
	if user.Role == model.UserRoleStudent {
		hideCorrectAnswers(q)
	}
	writeJSON(w, http.StatusOK, q)
}

// hideCorrectAnswers strips grading data before a quiz is sent to a
// student taking it. Fill-blank reference answers live in the options
// list, so that list is cleared as well.
func hideCorrectAnswers(q *model.Quiz) {
	for i := range q.Questions {
		q.Questions[i].CorrectAnswer = -1
		if q.Questions[i].Type == model.TypeFillBlank {
			q.Questions[i].Answers = nil
		}
	}
}

type submitQuizRequest struct {
	Answers model.AnswerMap `json:"answers"`
}

func (h *Handler) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	q, ok := h.loadQuiz(w, r)
	if !ok {
		return
	}

	var req submitQuizRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Answers == nil {
		req.Answers = model.AnswerMap{}
	}

	correct, autoGradable, pct := quiz.Score(q.Questions, req.Answers)

	user := model.UserFromContext(r.Context())
	sub := model.QuizSubmission{
		QuizID:    q.ID,
		StudentID: user.ID,
		Answers:   req.Answers,
		Score:     pct,
	}
	id, err := h.store.InsertQuizSubmission(sub)
	if err != nil {
		slog.Error("failed to save quiz submission", "quiz_id", q.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save submission")
		return
	}

	saved, err := h.store.GetQuizSubmission(id)
	if err != nil || saved == nil {
		slog.Error("failed to load saved submission", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save submission")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"submission":    saved,
		"correct":       correct,
		"auto_gradable": autoGradable,
	})
}

func (h *Handler) handleListQuizSubmissions(w http.ResponseWriter, r *http.Request) {
	q, ok := h.loadOwnedQuiz(w, r)
	if !ok {
		return
	}
	subs, err := h.store.ListQuizSubmissions(q.ID)
	if err != nil {
		slog.Error("failed to list submissions", "quiz_id", q.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": subs})
}

// handleMySubmissions lists the authenticated user's quiz submissions,
// optionally filtered with ?quiz_id=N.
func (h *Handler) handleMySubmissions(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	var quizID int64
	if v := r.URL.Query().Get("quiz_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid quiz_id")
			return
		}
		quizID = id
	}

	subs, err := h.store.ListQuizSubmissionsForStudent(user.ID, quizID)
	if err != nil {
		slog.Error("failed to list submissions", "student_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": subs})
}

type analyzeRequest struct {
	Model string `json:"model,omitempty"`
}

// handleAnalyzeSubmission builds a performance summary for a submission,
// asks the LLM for an analysis, and stores the raw response as feedback.
// The response carries the tagged sections already split out.
func (h *Handler) handleAnalyzeSubmission(w http.ResponseWriter, r *http.Request) {
	q, sub, ok := h.loadQuizSubmission(w, r)
	if !ok {
		return
	}

	var req analyzeRequest
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}
	if req.Model != "" && !llm.IsKnownModel(req.Model) {
		writeError(w, http.StatusBadRequest, "unknown model: "+req.Model)
		return
	}

	correct, autoGradable, _ := quiz.Score(q.Questions, sub.Answers)
	points, total, pct := quiz.MergeManualGrades(q.Questions, sub.ManualGrades, correct, autoGradable)

	summary := quiz.Summary(q.Questions, sub.Answers)
	prompt := quiz.AnalysisPrompt(summary, points, total, pct)

	response, err := h.llm.Generate(r.Context(), h.modelOrDefault(req.Model), prompt)
	if err != nil {
		slog.Error("analysis generation failed", "submission_id", sub.ID, "error", err)
		writeError(w, http.StatusBadGateway, "text generation failed")
		return
	}

	if err := h.store.UpdateSubmissionFeedback(sub.ID, response); err != nil {
		slog.Error("failed to store feedback", "submission_id", sub.ID, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"analysis": quiz.ParseAnalysis(response),
		"score":    pct,
	})
}

type manualGradesRequest struct {
	Grades model.ManualGrades `json:"grades"`
}

// handleUpdateManualGrades stores teacher grades for free-text answers
// and recomputes the submission's merged score.
func (h *Handler) handleUpdateManualGrades(w http.ResponseWriter, r *http.Request) {
	q, ok := h.loadOwnedQuiz(w, r)
	if !ok {
		return
	}
	subID, ok := urlID(r, "subID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid submission id")
		return
	}
	sub, err := h.store.GetQuizSubmission(subID)
	if err != nil {
		slog.Error("failed to get submission", "id", subID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get submission")
		return
	}
	if sub == nil || sub.QuizID != q.ID {
		writeError(w, http.StatusNotFound, "submission not found")
		return
	}

	var req manualGradesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	for key, grade := range req.Grades {
		if grade < 0 || grade > 1 {
			writeError(w, http.StatusBadRequest, "grade for question "+key+" must be between 0 and 1")
			return
		}
	}

	correct, autoGradable, _ := quiz.Score(q.Questions, sub.Answers)
	_, _, pct := quiz.MergeManualGrades(q.Questions, req.Grades, correct, autoGradable)

	if err := h.store.UpdateManualGrades(sub.ID, req.Grades, pct); err != nil {
		slog.Error("failed to update manual grades", "submission_id", sub.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update grades")
		return
	}

	updated, err := h.store.GetQuizSubmission(sub.ID)
	if err != nil || updated == nil {
		slog.Error("failed to load updated submission", "id", sub.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update grades")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) loadQuiz(w http.ResponseWriter, r *http.Request) (*model.Quiz, bool) {
	id, ok := urlID(r, "quizID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid quiz id")
		return nil, false
	}
	q, err := h.store.GetQuiz(id)
	if err != nil {
		slog.Error("failed to get quiz", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get quiz")
		return nil, false
	}
	if q == nil {
		writeError(w, http.StatusNotFound, "quiz not found")
		return nil, false
	}
	return q, true
}

// loadOwnedQuiz loads the quiz from the URL and verifies the requester
// created it.
func (h *Handler) loadOwnedQuiz(w http.ResponseWriter, r *http.Request) (*model.Quiz, bool) {
	q, ok := h.loadQuiz(w, r)
	if !ok {
		return nil, false
	}
	user := model.UserFromContext(r.Context())
	if q.TeacherID != user.ID {
		writeError(w, http.StatusForbidden, "quiz belongs to another teacher")
		return nil, false
	}
	return q, true
}

// loadQuizSubmission loads the quiz and submission from the URL and
// verifies the requester may view them: the student who submitted, or
// the teacher who owns the quiz.
func (h *Handler) loadQuizSubmission(w http.ResponseWriter, r *http.Request) (*model.Quiz, *model.QuizSubmission, bool) {
	q, ok := h.loadQuiz(w, r)
	if !ok {
		return nil, nil, false
	}
	subID, ok := urlID(r, "subID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid submission id")
		return nil, nil, false
	}
	sub, err := h.store.GetQuizSubmission(subID)
	if err != nil {
		slog.Error("failed to get submission", "id", subID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get submission")
		return nil, nil, false
	}
	if sub == nil || sub.QuizID != q.ID {
		writeError(w, http.StatusNotFound, "submission not found")
		return nil, nil, false
	}

	user := model.UserFromContext(r.Context())
	if sub.StudentID != user.ID && q.TeacherID != user.ID {
		writeError(w, http.StatusForbidden, "not your submission")
		return nil, nil, false
	}
	return q, sub, true
}

func (h *Handler) modelOrDefault(name string) string {
	if name != "" {
		return name
	}
	return h.config.DefaultModel
}
