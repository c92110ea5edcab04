package quiz

import (
	"fmt"
	"strings"

	"github.com/quizforge/quizforge/internal/model"
)

// Summary renders the quiz, the student's answers, and the answer key as
// plain text for the analysis prompt. It is a pure rendering step: missing
// or out-of-range data becomes placeholder text, never an error.
func Summary(questions []model.Question, answers model.AnswerMap) string {
	var sb strings.Builder
	sb.WriteString("QUIZ QUESTIONS, ANSWERS, AND USER PERFORMANCE:\n\n")

	for i, q := range questions {
		answer, ok := answers[i]
		if !ok {
			answer = answers[q.DBID]
		}

		userText := "Not answered"
		userLabel := "N/A"
		switch q.Type {
		case model.TypeMCQ, model.TypeTrueFalse:
			if idx, isIdx := answerIndex(answer); isIdx && idx >= 0 && idx < len(q.Answers) {
				userText = q.Answers[idx]
				userLabel = optionLabel(idx)
			}
		default:
			if text, isText := answer.(string); isText && strings.TrimSpace(text) != "" {
				userText = text
			}
		}

		var correctText, correctLabel string
		switch {
		case q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Answers):
			correctText = q.Answers[q.CorrectAnswer]
			correctLabel = optionLabel(q.CorrectAnswer)
		case q.Type == model.TypeFillBlank && len(q.Answers) > 0:
			correctText = q.Answers[0]
			correctLabel = "(text)"
		case q.Type == model.TypeOpenEnded:
			correctText = "Under evaluation"
			correctLabel = "N/A"
		default:
			correctText = "(No correct answer)"
			correctLabel = "N/A"
		}

		fmt.Fprintf(&sb, "Question %d: %s\n", i+1, q.Question)
		for j, option := range q.Answers {
			fmt.Fprintf(&sb, "  %s) %s\n", optionLabel(j), option)
		}
		fmt.Fprintf(&sb, "  User's answer: %s) %s\n", userLabel, userText)
		fmt.Fprintf(&sb, "  Correct answer: %s) %s\n\n", correctLabel, correctText)
	}

	return sb.String()
}

// optionLabel converts a zero-based option index to its letter: A, B, C...
func optionLabel(idx int) string {
	return string(rune('A' + idx))
}
