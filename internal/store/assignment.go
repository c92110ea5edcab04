package store

import (
	"database/sql"
	"time"

	"github.com/quizforge/quizforge/internal/model"
)

// InsertAssignment stores a coding assignment and returns the generated id.
func (s *Store) InsertAssignment(a model.Assignment) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO coding_assignments
		 (title, description, topic, difficulty, time_limit, background, requirements,
		  hints, code_template, expected_output, evaluation_criteria, teacher_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Title, a.Description, a.Topic, a.Difficulty, a.TimeLimit, a.Background, a.Requirements,
		a.Hints, a.CodeTemplate, a.ExpectedOutput, a.EvaluationCriteria, a.TeacherID, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAssignments returns all assignments, newest first, without the long
// body fields.
func (s *Store) ListAssignments() ([]model.Assignment, error) {
	rows, err := s.db.Query(
		`SELECT id, title, description, topic, difficulty, time_limit, teacher_id, created_at
		 FROM coding_assignments ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var assignments []model.Assignment
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Topic, &a.Difficulty, &a.TimeLimit, &a.TeacherID, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// GetAssignment returns a full assignment by id, or (nil, nil) when absent.
func (s *Store) GetAssignment(id int64) (*model.Assignment, error) {
	var a model.Assignment
	err := s.db.QueryRow(
		`SELECT id, title, description, topic, difficulty, time_limit, background, requirements,
		        hints, code_template, expected_output, evaluation_criteria, teacher_id, created_at
		 FROM coding_assignments WHERE id = ?`, id,
	).Scan(&a.ID, &a.Title, &a.Description, &a.Topic, &a.Difficulty, &a.TimeLimit, &a.Background,
		&a.Requirements, &a.Hints, &a.CodeTemplate, &a.ExpectedOutput, &a.EvaluationCriteria,
		&a.TeacherID, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// InsertAssignmentSubmission stores a student's evaluated submission.
func (s *Store) InsertAssignmentSubmission(sub model.AssignmentSubmission) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO assignment_submissions
		 (assignment_id, student_id, code, verdict, analysis, improvements, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.AssignmentID, sub.StudentID, sub.Code, sub.Verdict, sub.Analysis, sub.Improvements, time.Now(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListAssignmentSubmissions returns all submissions for an assignment,
// newest first.
func (s *Store) ListAssignmentSubmissions(assignmentID int64) ([]model.AssignmentSubmission, error) {
	rows, err := s.db.Query(
		`SELECT id, assignment_id, student_id, code, verdict, analysis, improvements, created_at
		 FROM assignment_submissions WHERE assignment_id = ? ORDER BY created_at DESC, id DESC`, assignmentID,
	)
	if err != nil {
		return nil, err
	}
	return collectAssignmentSubmissions(rows)
}

// ListAssignmentSubmissionsForStudent returns a student's submissions,
// newest first, optionally filtered to one assignment (0 means all).
func (s *Store) ListAssignmentSubmissionsForStudent(studentID, assignmentID int64) ([]model.AssignmentSubmission, error) {
	query := `SELECT id, assignment_id, student_id, code, verdict, analysis, improvements, created_at
		 FROM assignment_submissions WHERE student_id = ?`
	args := []any{studentID}
	if assignmentID != 0 {
		query += ` AND assignment_id = ?`
		args = append(args, assignmentID)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return collectAssignmentSubmissions(rows)
}

func collectAssignmentSubmissions(rows *sql.Rows) ([]model.AssignmentSubmission, error) {
	defer rows.Close()
	var subs []model.AssignmentSubmission
	for rows.Next() {
		var sub model.AssignmentSubmission
		if err := rows.Scan(&sub.ID, &sub.AssignmentID, &sub.StudentID, &sub.Code, &sub.Verdict, &sub.Analysis, &sub.Improvements, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
