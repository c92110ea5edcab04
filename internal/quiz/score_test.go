package quiz

import (
	"math"
	"testing"

	"github.com/quizforge/quizforge/internal/model"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Cats ", "cat"},
		{"CAT", "cat"},
		{"New York", "newyork"},
		{"mitochondrias", "mitochondria"},
		{"s", "s"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func testBatch() []model.Question {
	return []model.Question{
		{ID: 1, Question: "q1", Answers: []string{"a", "b", "c"}, CorrectAnswer: 1, Type: model.TypeMCQ, DBID: 0},
		{ID: 2, Question: "q2", Answers: []string{"True", "False"}, CorrectAnswer: 0, Type: model.TypeTrueFalse, DBID: 1},
		{ID: 3, Question: "q3", Answers: []string{"mitochondria"}, CorrectAnswer: 0, Type: model.TypeFillBlank, DBID: 2},
		{ID: 4, Question: "q4", Answers: []string{}, CorrectAnswer: -1, Type: model.TypeOpenEnded, DBID: 3},
	}
}

func TestScoreAllCorrect(t *testing.T) {
	answers := model.AnswerMap{0: 1, 1: 0, 2: "Mitochondrias", 3: "an essay"}
	correct, gradable, pct := Score(testBatch(), answers)
	if correct != 3 || gradable != 3 {
		t.Errorf("expected 3/3, got %d/%d", correct, gradable)
	}
	if !almostEqual(pct, 100.0) {
		t.Errorf("expected 100%%, got %g", pct)
	}
}

func TestScoreJSONNumbers(t *testing.T) {
	// JSON decoding yields float64 for option indexes.
	answers := model.AnswerMap{0: float64(1), 1: float64(1)}
	correct, gradable, _ := Score(testBatch(), answers)
	if correct != 1 || gradable != 3 {
		t.Errorf("expected 1/3, got %d/%d", correct, gradable)
	}
}

func TestScoreUnanswered(t *testing.T) {
	correct, gradable, pct := Score(testBatch(), model.AnswerMap{})
	if correct != 0 || gradable != 3 {
		t.Errorf("expected 0/3, got %d/%d", correct, gradable)
	}
	if !almostEqual(pct, 0.0) {
		t.Errorf("expected 0%%, got %g", pct)
	}
}

func TestScoreNothingGradable(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Question: "q1", CorrectAnswer: -1, Type: model.TypeOpenEnded},
	}
	correct, gradable, pct := Score(questions, model.AnswerMap{0: "essay"})
	if correct != 0 || gradable != 0 || pct != 0.0 {
		t.Errorf("expected 0/0 at 0%%, got %d/%d at %g", correct, gradable, pct)
	}
}

func TestScoreEmptyBatch(t *testing.T) {
	correct, gradable, pct := Score(nil, model.AnswerMap{0: 1})
	if correct != 0 || gradable != 0 || pct != 0.0 {
		t.Errorf("expected 0/0 at 0%%, got %d/%d at %g", correct, gradable, pct)
	}
}

func TestScoreFallsBackToDBID(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Question: "q1", Answers: []string{"a", "b"}, CorrectAnswer: 1, Type: model.TypeMCQ, DBID: 7},
	}
	correct, _, _ := Score(questions, model.AnswerMap{7: 1})
	if correct != 1 {
		t.Errorf("expected db_id fallback to find the answer, got %d correct", correct)
	}
}

func TestScorePositionalIndexWins(t *testing.T) {
	// When both keys are present the positional entry is the one graded.
	questions := []model.Question{
		{ID: 1, Question: "q1", Answers: []string{"a", "b"}, CorrectAnswer: 1, Type: model.TypeMCQ, DBID: 7},
	}
	correct, _, _ := Score(questions, model.AnswerMap{0: 1, 7: 0})
	if correct != 1 {
		t.Errorf("expected positional answer to win, got %d correct", correct)
	}
}

func TestMergeManualGrades(t *testing.T) {
	questions := testBatch()
	correct, gradable, _ := Score(questions, model.AnswerMap{0: 1, 1: 0})

	grades := model.ManualGrades{"3": 0.5}
	points, total, pct := MergeManualGrades(questions, grades, correct, gradable)
	if !almostEqual(points, 2.5) || total != 4 {
		t.Errorf("expected 2.5/4, got %g/%d", points, total)
	}
	if !almostEqual(pct, 62.5) {
		t.Errorf("expected 62.5%%, got %g", pct)
	}
}

func TestMergeManualGradesIgnoresChoiceQuestions(t *testing.T) {
	// Grades keyed to mcq or true_false questions never double count.
	questions := testBatch()
	grades := model.ManualGrades{"0": 1.0, "1": 1.0}
	points, total, _ := MergeManualGrades(questions, grades, 2, 3)
	if !almostEqual(points, 2.0) || total != 3 {
		t.Errorf("expected totals unchanged at 2/3, got %g/%d", points, total)
	}
}

func TestMergeManualGradesEmpty(t *testing.T) {
	points, total, pct := MergeManualGrades(testBatch(), nil, 2, 3)
	if !almostEqual(points, 2.0) || total != 3 {
		t.Errorf("expected 2/3, got %g/%d", points, total)
	}
	if !almostEqual(pct, 2.0/3.0*100) {
		t.Errorf("unexpected percentage %g", pct)
	}
}
