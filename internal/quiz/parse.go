// Package quiz implements the quiz pipeline: parsing LLM-generated quiz
// text into question records, scoring submitted answers, and rendering a
// performance summary for the follow-up analysis call.
package quiz

import (
	"regexp"
	"strings"

	"github.com/quizforge/quizforge/internal/model"
)

var (
	headerRe     = regexp.MustCompile(`(?i)^(MCQ|FILL|TF|OPEN)\s*(\d+)[:.)]\s*(.+)`)
	optionRe     = regexp.MustCompile(`(?i)^([A-Z])[:.)]\s*(.+)`)
	fillAnswerRe = regexp.MustCompile(`(?i)^Answer:\s*(.+)`)
)

// parser accumulates the question currently being scanned. A header line
// finalizes the open question and resets the accumulator; end of input
// finalizes once more through the same path.
type parser struct {
	kind      string // MCQ, FILL, TF, OPEN; empty when no question is open
	text      string
	answers   []string
	correct   int  // marked MCQ option index, -1 until seen
	tfCorrect int  // marked TF index, -1 until seen
	nextID    int  // running 1-based counter across the batch
	out       []model.Question
}

// Parse converts raw LLM text into an ordered question batch. Malformed or
// empty input yields an empty slice; lines that match no recognized
// pattern are skipped.
func Parse(response string) []model.Question {
	response = strings.ReplaceAll(response, "\r\n", "\n")
	p := &parser{nextID: 1}

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := headerRe.FindStringSubmatch(line); m != nil {
			p.finalize()
			p.kind = strings.ToUpper(m[1])
			p.text = strings.TrimSpace(m[3])
			p.answers = nil
			p.correct = -1
			p.tfCorrect = -1
			continue
		}

		switch p.kind {
		case "MCQ":
			if m := optionRe.FindStringSubmatch(line); m != nil {
				text := strings.TrimSpace(m[2])
				if strings.Contains(text, "**") {
					text = strings.TrimSpace(strings.ReplaceAll(text, "**", ""))
					p.correct = len(p.answers)
				}
				p.answers = append(p.answers, text)
			}
		case "TF":
			if m := optionRe.FindStringSubmatch(line); m != nil {
				text := strings.TrimSpace(m[2])
				idx := 1
				if strings.EqualFold(strings.TrimSpace(strings.ReplaceAll(text, "**", "")), "true") {
					idx = 0
				}
				if strings.Contains(text, "**") {
					p.tfCorrect = idx
				}
			}
		case "FILL":
			if m := fillAnswerRe.FindStringSubmatch(line); m != nil {
				p.answers = []string{truncateWords(strings.TrimSpace(m[1]), 2)}
			}
		}
		// OPEN body lines and anything unmatched are ignored.
	}

	p.finalize()
	return p.out
}

// finalize emits the open question, if any, applying the per-type
// defaulting rules, then clears the accumulator.
func (p *parser) finalize() {
	if p.kind == "" || p.text == "" {
		return
	}

	q := model.Question{
		ID:       p.nextID,
		Question: p.text,
	}

	switch p.kind {
	case "MCQ":
		// A marked option wins; otherwise the first option is assumed
		// correct. With no options at all the index stays -1, matching
		// the long-standing behavior for degenerate MCQ blocks.
		correct := p.correct
		if correct == -1 && len(p.answers) > 0 {
			correct = 0
		}
		q.Answers = p.answers
		q.CorrectAnswer = correct
		q.Type = model.TypeMCQ
	case "FILL":
		q.Answers = p.answers
		q.CorrectAnswer = 0
		q.Type = model.TypeFillBlank
	case "TF":
		correct := p.tfCorrect
		if correct == -1 {
			correct = 0
		}
		q.Answers = []string{"True", "False"}
		q.CorrectAnswer = correct
		q.Type = model.TypeTrueFalse
	case "OPEN":
		q.Answers = []string{}
		q.CorrectAnswer = -1
		q.Type = model.TypeOpenEnded
	default:
		return
	}

	p.out = append(p.out, q)
	p.nextID++
	p.kind = ""
	p.text = ""
	p.answers = nil
	p.correct = -1
	p.tfCorrect = -1
}

func truncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}

// RestoreBatch reconstructs a question batch from its stored wire format,
// assigning ids and db_ids from list position.
func RestoreBatch(stored []model.StoredQuestion) []model.Question {
	questions := make([]model.Question, 0, len(stored))
	for i, sq := range stored {
		questions = append(questions, model.Question{
			ID:            i,
			Question:      sq.Question,
			Answers:       sq.Answers,
			CorrectAnswer: sq.CorrectAnswer,
			Type:          sq.Type,
			DBID:          i,
		})
	}
	return questions
}

// ToStored converts a parsed batch to the wire format used for storage.
func ToStored(questions []model.Question) []model.StoredQuestion {
	stored := make([]model.StoredQuestion, 0, len(questions))
	for _, q := range questions {
		stored = append(stored, model.StoredQuestion{
			Question:      q.Question,
			Answers:       q.Answers,
			CorrectAnswer: q.CorrectAnswer,
			Type:          q.Type,
		})
	}
	return stored
}
