package quiz

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/quizforge/quizforge/internal/model"
)

// Score grades a question batch against submitted answers. Only mcq,
// true_false, and fill_blank questions count toward the auto-gradable
// total; open_ended questions are left for manual grading. The percentage
// is 0.0 when nothing is auto-gradable.
//
// Answer lookup tries the question's positional index first and falls back
// to its db_id: call sites key answers by position for in-memory batches
// and by persistent id for loaded ones.
func Score(questions []model.Question, answers model.AnswerMap) (correct, autoGradable int, pct float64) {
	if len(questions) == 0 {
		return 0, 0, 0.0
	}

	for i, q := range questions {
		answer, ok := answers[i]
		if !ok {
			answer, ok = answers[q.DBID]
		}

		switch q.Type {
		case model.TypeMCQ, model.TypeTrueFalse:
			autoGradable++
			if idx, isIdx := answerIndex(answer); ok && isIdx && idx == q.CorrectAnswer {
				correct++
			}
		case model.TypeFillBlank:
			autoGradable++
			text, isText := answer.(string)
			if ok && isText && len(q.Answers) > 0 && Normalize(text) == Normalize(q.Answers[0]) {
				correct++
			}
		}
	}

	if autoGradable > 0 {
		pct = float64(correct) / float64(autoGradable) * 100
	}
	return correct, autoGradable, pct
}

// MergeManualGrades folds human-entered grades for open-ended and
// fill-blank answers into an automated score: each graded answer
// contributes its grade in [0,1] to the correct total and 1 to the
// gradable total. Returns the merged totals and recomputed percentage.
// Grades are keyed by db_id as a string, matching the stored sparse map.
func MergeManualGrades(questions []model.Question, grades model.ManualGrades, correct, autoGradable int) (float64, int, float64) {
	points := float64(correct)
	total := autoGradable

	for _, q := range questions {
		if q.Type != model.TypeOpenEnded && q.Type != model.TypeFillBlank {
			continue
		}
		grade, ok := grades[strconv.Itoa(q.DBID)]
		if !ok {
			continue
		}
		points += grade
		total++
	}

	pct := 0.0
	if total > 0 {
		pct = points / float64(total) * 100
	}
	return points, total, pct
}

// Normalize prepares a fill-blank answer for comparison: trim, lowercase,
// remove internal spaces, and strip one trailing "s" so simple plurals
// still match.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	if strings.HasSuffix(s, "s") && utf8.RuneCountInString(s) > 1 {
		s = s[:len(s)-1]
	}
	return s
}

// answerIndex interprets a submitted answer as an option index. JSON
// decoding produces float64 for numbers, so both forms are accepted.
func answerIndex(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
