package store

import (
	"testing"

	"github.com/quizforge/quizforge/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestUser(t *testing.T, s *Store, email string, role model.UserRole) int64 {
	t.Helper()
	id, err := s.CreateUser(model.User{
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return id
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)

	id := createTestUser(t, s, "teacher@example.com", model.UserRoleTeacher)

	u, err := s.GetUserByEmail("teacher@example.com")
	if err != nil {
		t.Fatalf("failed to get user by email: %v", err)
	}
	if u == nil {
		t.Fatal("expected user, got nil")
	}
	if u.ID != id || u.Role != model.UserRoleTeacher {
		t.Errorf("unexpected user: %+v", u)
	}

	byID, err := s.GetUserByID(id)
	if err != nil || byID == nil {
		t.Fatalf("failed to get user by id: %v", err)
	}
	if byID.Email != "teacher@example.com" {
		t.Errorf("unexpected email: %q", byID.Email)
	}

	count, err := s.UserCount()
	if err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 user, got %d", count)
	}
}

func TestGetMissingUser(t *testing.T) {
	s := newTestStore(t)

	u, err := s.GetUserByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for missing user, got %+v", u)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	s := newTestStore(t)

	createTestUser(t, s, "dup@example.com", model.UserRoleStudent)
	_, err := s.CreateUser(model.User{Email: "dup@example.com", PasswordHash: "hash", Role: model.UserRoleStudent})
	if err == nil {
		t.Error("expected unique constraint error for duplicate email")
	}
}

func TestAuthSessionLifecycle(t *testing.T) {
	s := newTestStore(t)
	userID := createTestUser(t, s, "student@example.com", model.UserRoleStudent)

	token, err := s.CreateAuthSession(userID)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	sess, err := s.GetAuthSession(token)
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if sess == nil || sess.UserID != userID {
		t.Fatalf("unexpected session: %+v", sess)
	}

	if err := s.DeleteAuthSession(token); err != nil {
		t.Fatalf("failed to delete session: %v", err)
	}
	sess, err = s.GetAuthSession(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess != nil {
		t.Error("expected nil after delete")
	}
}

func testQuestions() []model.Question {
	return []model.Question{
		{ID: 1, Question: "Pick b.", Answers: []string{"a", "b"}, CorrectAnswer: 1, Type: model.TypeMCQ},
		{ID: 2, Question: "Blank is ____.", Answers: []string{"word"}, CorrectAnswer: 0, Type: model.TypeFillBlank},
		{ID: 3, Question: "Discuss.", Answers: []string{}, CorrectAnswer: -1, Type: model.TypeOpenEnded},
	}
}

func TestQuizRoundTrip(t *testing.T) {
	s := newTestStore(t)
	teacherID := createTestUser(t, s, "teacher@example.com", model.UserRoleTeacher)

	id, err := s.InsertQuiz(model.Quiz{
		Title:      "Basics",
		Topics:     "testing",
		Difficulty: "easy",
		TeacherID:  teacherID,
		Questions:  testQuestions(),
	})
	if err != nil {
		t.Fatalf("failed to insert quiz: %v", err)
	}

	q, err := s.GetQuiz(id)
	if err != nil {
		t.Fatalf("failed to get quiz: %v", err)
	}
	if q == nil {
		t.Fatal("expected quiz, got nil")
	}
	if q.Title != "Basics" || q.TeacherID != teacherID {
		t.Errorf("unexpected quiz: %+v", q)
	}
	if len(q.Questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(q.Questions))
	}
	for i, question := range q.Questions {
		if question.ID != i || question.DBID != i {
			t.Errorf("question %d: expected positional ids, got id=%d db_id=%d", i, question.ID, question.DBID)
		}
	}
	if q.Questions[0].CorrectAnswer != 1 || q.Questions[2].CorrectAnswer != -1 {
		t.Errorf("correct answers lost in round trip: %+v", q.Questions)
	}
}

func TestGetMissingQuiz(t *testing.T) {
	s := newTestStore(t)

	q, err := s.GetQuiz(999)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != nil {
		t.Errorf("expected nil for missing quiz, got %+v", q)
	}
}

func TestListQuizzesOmitsQuestions(t *testing.T) {
	s := newTestStore(t)
	teacherID := createTestUser(t, s, "teacher@example.com", model.UserRoleTeacher)

	for _, title := range []string{"First", "Second"} {
		if _, err := s.InsertQuiz(model.Quiz{Title: title, TeacherID: teacherID, Questions: testQuestions()}); err != nil {
			t.Fatalf("failed to insert quiz: %v", err)
		}
	}

	quizzes, err := s.ListQuizzes()
	if err != nil {
		t.Fatalf("failed to list quizzes: %v", err)
	}
	if len(quizzes) != 2 {
		t.Fatalf("expected 2 quizzes, got %d", len(quizzes))
	}
	for _, q := range quizzes {
		if len(q.Questions) != 0 {
			t.Errorf("listing should not carry question bodies, got %d", len(q.Questions))
		}
	}
}

func TestQuizSubmissionLifecycle(t *testing.T) {
	s := newTestStore(t)
	teacherID := createTestUser(t, s, "teacher@example.com", model.UserRoleTeacher)
	studentID := createTestUser(t, s, "student@example.com", model.UserRoleStudent)

	quizID, err := s.InsertQuiz(model.Quiz{Title: "Basics", TeacherID: teacherID, Questions: testQuestions()})
	if err != nil {
		t.Fatalf("failed to insert quiz: %v", err)
	}

	subID, err := s.InsertQuizSubmission(model.QuizSubmission{
		QuizID:    quizID,
		StudentID: studentID,
		Answers:   model.AnswerMap{0: float64(1), 1: "words", 2: "an essay"},
		Score:     50.0,
	})
	if err != nil {
		t.Fatalf("failed to insert submission: %v", err)
	}

	sub, err := s.GetQuizSubmission(subID)
	if err != nil {
		t.Fatalf("failed to get submission: %v", err)
	}
	if sub == nil {
		t.Fatal("expected submission, got nil")
	}
	if sub.QuizID != quizID || sub.StudentID != studentID || sub.Score != 50.0 {
		t.Errorf("unexpected submission: %+v", sub)
	}
	if len(sub.Answers) != 3 {
		t.Errorf("expected 3 answers, got %v", sub.Answers)
	}
	if text, ok := sub.Answers[2].(string); !ok || text != "an essay" {
		t.Errorf("free-text answer lost in round trip: %v", sub.Answers[2])
	}

	byQuiz, err := s.ListQuizSubmissions(quizID)
	if err != nil {
		t.Fatalf("failed to list submissions: %v", err)
	}
	if len(byQuiz) != 1 {
		t.Errorf("expected 1 submission for quiz, got %d", len(byQuiz))
	}

	byStudent, err := s.ListQuizSubmissionsForStudent(studentID, 0)
	if err != nil {
		t.Fatalf("failed to list student submissions: %v", err)
	}
	if len(byStudent) != 1 {
		t.Errorf("expected 1 submission for student, got %d", len(byStudent))
	}

	none, err := s.ListQuizSubmissionsForStudent(studentID, quizID+1)
	if err != nil {
		t.Fatalf("failed to list filtered submissions: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no submissions for other quiz, got %d", len(none))
	}
}

func TestUpdateManualGradesAndFeedback(t *testing.T) {
	s := newTestStore(t)
	teacherID := createTestUser(t, s, "teacher@example.com", model.UserRoleTeacher)
	studentID := createTestUser(t, s, "student@example.com", model.UserRoleStudent)

	quizID, err := s.InsertQuiz(model.Quiz{Title: "Basics", TeacherID: teacherID, Questions: testQuestions()})
	if err != nil {
		t.Fatalf("failed to insert quiz: %v", err)
	}
	subID, err := s.InsertQuizSubmission(model.QuizSubmission{QuizID: quizID, StudentID: studentID, Answers: model.AnswerMap{}})
	if err != nil {
		t.Fatalf("failed to insert submission: %v", err)
	}

	grades := model.ManualGrades{"2": 0.75}
	if err := s.UpdateManualGrades(subID, grades, 58.3); err != nil {
		t.Fatalf("failed to update grades: %v", err)
	}
	if err := s.UpdateSubmissionFeedback(subID, "good effort"); err != nil {
		t.Fatalf("failed to update feedback: %v", err)
	}

	sub, err := s.GetQuizSubmission(subID)
	if err != nil || sub == nil {
		t.Fatalf("failed to get submission: %v", err)
	}
	if sub.ManualGrades["2"] != 0.75 {
		t.Errorf("unexpected grades: %v", sub.ManualGrades)
	}
	if sub.Score != 58.3 {
		t.Errorf("unexpected score: %g", sub.Score)
	}
	if sub.Feedback != "good effort" {
		t.Errorf("unexpected feedback: %q", sub.Feedback)
	}
}

func TestAssignmentRoundTrip(t *testing.T) {
	s := newTestStore(t)
	teacherID := createTestUser(t, s, "teacher@example.com", model.UserRoleTeacher)

	id, err := s.InsertAssignment(model.Assignment{
		Title:          "Binary Search",
		Topic:          "algorithms",
		Difficulty:     "intermediate",
		TimeLimit:      30,
		Requirements:   "1. Implement it.",
		CodeTemplate:   "def binary_search(arr, target):\n    pass",
		ExpectedOutput: "1",
		TeacherID:      teacherID,
	})
	if err != nil {
		t.Fatalf("failed to insert assignment: %v", err)
	}

	a, err := s.GetAssignment(id)
	if err != nil {
		t.Fatalf("failed to get assignment: %v", err)
	}
	if a == nil {
		t.Fatal("expected assignment, got nil")
	}
	if a.Title != "Binary Search" || a.TimeLimit != 30 || a.TeacherID != teacherID {
		t.Errorf("unexpected assignment: %+v", a)
	}

	missing, err := s.GetAssignment(id + 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing assignment, got %+v", missing)
	}
}

func TestAssignmentSubmissions(t *testing.T) {
	s := newTestStore(t)
	teacherID := createTestUser(t, s, "teacher@example.com", model.UserRoleTeacher)
	studentID := createTestUser(t, s, "student@example.com", model.UserRoleStudent)

	assignmentID, err := s.InsertAssignment(model.Assignment{Title: "Sorting", TeacherID: teacherID})
	if err != nil {
		t.Fatalf("failed to insert assignment: %v", err)
	}

	_, err = s.InsertAssignmentSubmission(model.AssignmentSubmission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Code:         "print('sorted')",
		Verdict:      "Partially",
		Analysis:     "close",
		Improvements: "sort first",
	})
	if err != nil {
		t.Fatalf("failed to insert submission: %v", err)
	}

	subs, err := s.ListAssignmentSubmissions(assignmentID)
	if err != nil {
		t.Fatalf("failed to list submissions: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(subs))
	}
	if subs[0].Verdict != "Partially" || subs[0].Code != "print('sorted')" {
		t.Errorf("unexpected submission: %+v", subs[0])
	}

	mine, err := s.ListAssignmentSubmissionsForStudent(studentID, assignmentID)
	if err != nil {
		t.Fatalf("failed to list student submissions: %v", err)
	}
	if len(mine) != 1 {
		t.Errorf("expected 1 submission for student, got %d", len(mine))
	}
}
