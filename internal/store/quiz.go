package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quizforge/quizforge/internal/model"
	"github.com/quizforge/quizforge/internal/quiz"
)

// InsertQuiz stores a quiz with its question batch serialized as JSON and
// returns the generated id.
func (s *Store) InsertQuiz(q model.Quiz) (int64, error) {
	data, err := json.Marshal(quiz.ToStored(q.Questions))
	if err != nil {
		return 0, fmt.Errorf("marshal questions: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO quizzes (title, description, topics, difficulty, teacher_id, questions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.Title, q.Description, q.Topics, q.Difficulty, q.TeacherID, string(data), time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListQuizzes returns all quizzes, newest first, without question bodies.
func (s *Store) ListQuizzes() ([]model.Quiz, error) {
	rows, err := s.db.Query(
		`SELECT id, title, description, topics, difficulty, teacher_id, created_at
		 FROM quizzes ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Description, &q.Topics, &q.Difficulty, &q.TeacherID, &q.CreatedAt); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

// GetQuiz returns a quiz by id with its questions reconstructed from the
// stored wire format, db_id assigned from list position. Returns (nil, nil)
// when the quiz does not exist.
func (s *Store) GetQuiz(id int64) (*model.Quiz, error) {
	var q model.Quiz
	var questionsJSON string
	err := s.db.QueryRow(
		`SELECT id, title, description, topics, difficulty, teacher_id, questions, created_at
		 FROM quizzes WHERE id = ?`, id,
	).Scan(&q.ID, &q.Title, &q.Description, &q.Topics, &q.Difficulty, &q.TeacherID, &questionsJSON, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stored []model.StoredQuestion
	if err := json.Unmarshal([]byte(questionsJSON), &stored); err != nil {
		return nil, fmt.Errorf("parse stored questions for quiz %d: %w", id, err)
	}
	q.Questions = quiz.RestoreBatch(stored)
	return &q, nil
}

// InsertQuizSubmission stores a student's graded submission.
func (s *Store) InsertQuizSubmission(sub model.QuizSubmission) (int64, error) {
	answers, err := json.Marshal(sub.Answers)
	if err != nil {
		return 0, fmt.Errorf("marshal answers: %w", err)
	}
	grades := sub.ManualGrades
	if grades == nil {
		grades = model.ManualGrades{}
	}
	gradesJSON, err := json.Marshal(grades)
	if err != nil {
		return 0, fmt.Errorf("marshal manual grades: %w", err)
	}
	res, err := s.db.Exec(
		`INSERT INTO quiz_results (quiz_id, student_id, answers, score, feedback, manual_grades, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.QuizID, sub.StudentID, string(answers), sub.Score, sub.Feedback, string(gradesJSON), time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetQuizSubmission returns a submission by id, or (nil, nil) when absent.
func (s *Store) GetQuizSubmission(id int64) (*model.QuizSubmission, error) {
	row := s.db.QueryRow(
		`SELECT id, quiz_id, student_id, answers, score, feedback, manual_grades, created_at
		 FROM quiz_results WHERE id = ?`, id,
	)
	sub, err := scanQuizSubmission(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ListQuizSubmissions returns all submissions for a quiz, newest first.
func (s *Store) ListQuizSubmissions(quizID int64) ([]model.QuizSubmission, error) {
	rows, err := s.db.Query(
		`SELECT id, quiz_id, student_id, answers, score, feedback, manual_grades, created_at
		 FROM quiz_results WHERE quiz_id = ? ORDER BY created_at DESC, id DESC`, quizID,
	)
	if err != nil {
		return nil, err
	}
	return collectQuizSubmissions(rows)
}

// ListQuizSubmissionsForStudent returns a student's submissions, newest
// first, optionally filtered to one quiz (quizID 0 means all).
func (s *Store) ListQuizSubmissionsForStudent(studentID, quizID int64) ([]model.QuizSubmission, error) {
	query := `SELECT id, quiz_id, student_id, answers, score, feedback, manual_grades, created_at
		 FROM quiz_results WHERE student_id = ?`
	args := []any{studentID}
	if quizID != 0 {
		query += ` AND quiz_id = ?`
		args = append(args, quizID)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return collectQuizSubmissions(rows)
}

// UpdateManualGrades replaces a submission's manual-grade map and merged
// score.
func (s *Store) UpdateManualGrades(id int64, grades model.ManualGrades, score float64) error {
	data, err := json.Marshal(grades)
	if err != nil {
		return fmt.Errorf("marshal manual grades: %w", err)
	}
	_, err = s.db.Exec(
		`UPDATE quiz_results SET manual_grades = ?, score = ? WHERE id = ?`,
		string(data), score, id,
	)
	return err
}

// UpdateSubmissionFeedback stores the analysis text for a submission.
func (s *Store) UpdateSubmissionFeedback(id int64, feedback string) error {
	_, err := s.db.Exec(`UPDATE quiz_results SET feedback = ? WHERE id = ?`, feedback, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuizSubmission(row rowScanner) (*model.QuizSubmission, error) {
	var sub model.QuizSubmission
	var answersJSON, gradesJSON string
	err := row.Scan(&sub.ID, &sub.QuizID, &sub.StudentID, &answersJSON, &sub.Score, &sub.Feedback, &gradesJSON, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(answersJSON), &sub.Answers); err != nil {
		return nil, fmt.Errorf("parse answers for submission %d: %w", sub.ID, err)
	}
	if err := json.Unmarshal([]byte(gradesJSON), &sub.ManualGrades); err != nil {
		return nil, fmt.Errorf("parse manual grades for submission %d: %w", sub.ID, err)
	}
	return &sub, nil
}

func collectQuizSubmissions(rows *sql.Rows) ([]model.QuizSubmission, error) {
	defer rows.Close()
	var subs []model.QuizSubmission
	for rows.Next() {
		sub, err := scanQuizSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}
