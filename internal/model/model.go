package model

import (
	"context"
	"time"
)

// UserRole represents a user's access level.
type UserRole string

const (
	// UserRoleStudent is a student user role.
	UserRoleStudent UserRole = "student"
	// UserRoleTeacher is a teacher user role.
	UserRoleTeacher UserRole = "teacher"
)

// User represents a system user.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthSession represents an authentication session.
type AuthSession struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

// QuestionType determines grading and rendering rules for a question.
type QuestionType string

const (
	TypeMCQ       QuestionType = "mcq"
	TypeFillBlank QuestionType = "fill_blank"
	TypeTrueFalse QuestionType = "true_false"
	TypeOpenEnded QuestionType = "open_ended"
)

// Question represents one quiz item.
//
// ID is the 1-based sequence position within a generation batch, not a
// globally unique identifier. DBID is the position index assigned when the
// parent quiz is loaded from storage; it is 0 for questions that have not
// been persisted yet. CorrectAnswer indexes into Answers; -1 means no
// automatic grading is possible.
type Question struct {
	ID            int          `json:"id"`
	Question      string       `json:"question"`
	Answers       []string     `json:"answers"`
	CorrectAnswer int          `json:"correct_answer"`
	Type          QuestionType `json:"question_type"`
	DBID          int          `json:"db_id"`
}

// StoredQuestion is the wire format for questions inside a quiz record:
// an ordered list of these objects is serialized into the quiz's questions
// column, and reads reconstruct Question values from list position.
type StoredQuestion struct {
	Question      string       `json:"question"`
	Answers       []string     `json:"answers"`
	CorrectAnswer int          `json:"correct_answer"`
	Type          QuestionType `json:"question_type"`
}

// Quiz represents a stored quiz with its question batch.
type Quiz struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Topics      string     `json:"topics"`
	Difficulty  string     `json:"difficulty"`
	TeacherID   int64      `json:"teacher_id"`
	Questions   []Question `json:"questions,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AnswerMap maps a question key to the submitted answer. Keys are the
// question's positional index or its db_id, depending on the call site.
// Values are an option index (mcq/true_false) or free text
// (fill_blank/open_ended).
type AnswerMap map[int]any

// ManualGrades is a sparse map from db_id (as string) to a human-entered
// grade in [0,1] for answers that cannot be auto-graded.
type ManualGrades map[string]float64

// QuizSubmission records a student's answers and score for one quiz.
type QuizSubmission struct {
	ID           int64        `json:"id"`
	QuizID       int64        `json:"quiz_id"`
	StudentID    int64        `json:"student_id"`
	Answers      AnswerMap    `json:"answers"`
	Score        float64      `json:"score"`
	Feedback     string       `json:"feedback,omitempty"`
	ManualGrades ManualGrades `json:"manual_grades,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Assignment represents a stored coding assignment.
type Assignment struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	Topic              string    `json:"topic"`
	Difficulty         string    `json:"difficulty"`
	TimeLimit          int       `json:"time_limit"`
	Background         string    `json:"background"`
	Requirements       string    `json:"requirements"`
	Hints              string    `json:"hints"`
	CodeTemplate       string    `json:"code_template"`
	ExpectedOutput     string    `json:"expected_output"`
	EvaluationCriteria string    `json:"evaluation_criteria"`
	TeacherID          int64     `json:"teacher_id"`
	CreatedAt          time.Time `json:"created_at"`
}

// AssignmentSubmission records a student's code and its LLM evaluation.
type AssignmentSubmission struct {
	ID           int64     `json:"id"`
	AssignmentID int64     `json:"assignment_id"`
	StudentID    int64     `json:"student_id"`
	Code         string    `json:"code"`
	Verdict      string    `json:"verdict"`
	Analysis     string    `json:"analysis"`
	Improvements string    `json:"improvements"`
	CreatedAt    time.Time `json:"created_at"`
}
