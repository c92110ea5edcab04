package quiz

import (
	"fmt"
	"strings"

	"github.com/quizforge/quizforge/internal/sections"
)

// GenerationSpec describes the quiz a teacher asked the LLM to produce.
type GenerationSpec struct {
	Topics       string `json:"topics"`
	Difficulty   string `json:"difficulty"`
	NumMCQ       int    `json:"num_mcq"`
	NumFill      int    `json:"num_fill"`
	NumTrueFalse int    `json:"num_true_false"`
	NumOpenEnded int    `json:"num_open_ended"`
	NumOptions   int    `json:"num_options"`
}

// analysisKeys is the tag set for quiz performance analysis responses.
var analysisKeys = []string{"understanding", "knowledge_gaps", "recommendations", "strengths"}

// CreationPrompt builds the few-shot generation prompt whose formatting
// rules match the Parse grammar: bold markers for correct options, fixed
// True/False labels, and a trailing "Answer:" line for fill-blanks.
func CreationPrompt(spec GenerationSpec) string {
	var sb strings.Builder
	sb.WriteString("You are an expert instructional designer creating assessments for college-level students.\n")
	fmt.Fprintf(&sb, "Topic(s): **%s**\n", spec.Topics)
	fmt.Fprintf(&sb, "Difficulty: **%s**\n\n", capitalize(spec.Difficulty))
	sb.WriteString("Generate exactly:\n")
	fmt.Fprintf(&sb, "- %d multiple-choice question(s) with %d options each.\n", spec.NumMCQ, spec.NumOptions)
	fmt.Fprintf(&sb, "- %d fill-in-the-blank question(s) (user will type answer; answer must be a single word or at most two words).\n", spec.NumFill)
	fmt.Fprintf(&sb, "- %d true/false question(s) (always as MCQ with two options: 'A) True', 'B) False').\n", spec.NumTrueFalse)
	fmt.Fprintf(&sb, "- %d open-ended question(s) (no answers).\n\n", spec.NumOpenEnded)
	sb.WriteString("### Formatting rules\n")
	sb.WriteString("1. Label each: `MCQ 1.`, `FILL 1.`, `TF 1.`, `OPEN 1.`\n")
	sb.WriteString("2. MCQs: list options A)-D), mark correct with **...**.\n")
	sb.WriteString("3. TF: always as MCQ with two options: 'A) True', 'B) False', mark the correct one with **...**.\n")
	sb.WriteString("4. FILL: use `____` in the stem; provide the correct answer after the question as 'Answer: ...' (single word or at most two words).\n")
	sb.WriteString("5. OPEN: write the question only, no answers or options.\n\n")
	sb.WriteString("### One-Shot Example\n\n")
	sb.WriteString("MCQ 1. Which gas do plants absorb during photosynthesis?\n")
	sb.WriteString("A) Oxygen\n")
	sb.WriteString("B) **Carbon Dioxide**\n")
	sb.WriteString("C) Nitrogen\n")
	sb.WriteString("D) Hydrogen\n\n")
	sb.WriteString("FILL 1. The powerhouse of the cell is _____.\n")
	sb.WriteString("Answer: mitochondria\n\n")
	sb.WriteString("TF 1. Water boils at 100°C at sea level.\n")
	sb.WriteString("A) **True**\n")
	sb.WriteString("B) False\n\n")
	sb.WriteString("OPEN 1. Explain how natural selection drives evolution over time.\n\n")
	sb.WriteString("----\n")
	sb.WriteString("**Now, create the quiz:**\n")
	return sb.String()
}

// AnalysisPrompt builds the performance-analysis prompt from a rendered
// summary and the merged score.
func AnalysisPrompt(summary string, correct float64, total int, pct float64) string {
	var sb strings.Builder
	sb.WriteString("Based on the following quiz performance, provide a comprehensive analysis.\n\n")
	sb.WriteString(summary)
	fmt.Fprintf(&sb, "\nThe user scored %g/%d (%.1f%%).\n\n", correct, total, pct)
	sb.WriteString("Please provide:\n")
	sb.WriteString("1. An overall assessment of the user's understanding of the subject matter.\n")
	sb.WriteString("2. Identification of specific knowledge gaps or common misconceptions observed.\n")
	sb.WriteString("3. Specific, actionable recommendations for further study or areas to focus on.\n")
	sb.WriteString("4. Positive reinforcement and highlight areas where the user demonstrated good understanding.\n\n")
	sb.WriteString("Format your response clearly using the following tags:\n")
	for _, key := range analysisKeys {
		fmt.Fprintf(&sb, "<%s>\n[...]\n</%s>\n\n", key, key)
	}
	return sb.String()
}

// ParseAnalysis splits an analysis response into its tagged sections, with
// a placeholder for any section the model left out.
func ParseAnalysis(evaluation string) map[string]string {
	return sections.Extract(evaluation, analysisKeys)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
