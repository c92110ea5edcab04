// Package assignment implements the coding-assignment pipeline: prompt
// builders for generation and code evaluation, and parsers for the
// tag-structured LLM responses.
package assignment

import (
	"fmt"
	"strings"

	"github.com/quizforge/quizforge/internal/sections"
)

// detailKeys is the tag set for assignment-generation responses.
var detailKeys = []string{
	"title", "background", "requirements", "hints",
	"code_template", "expected_output", "evaluation_criteria",
}

// evaluationKeys is the tag set for code-evaluation responses.
var evaluationKeys = []string{"verdict", "analysis", "improvements"}

// Details holds the parsed sections of a generated assignment. CodeTemplate
// and ExpectedOutput carry the inner content of their fenced blocks.
type Details struct {
	Title              string `json:"title"`
	Background         string `json:"background"`
	Requirements       string `json:"requirements"`
	Hints              string `json:"hints"`
	CodeTemplate       string `json:"code_template"`
	ExpectedOutput     string `json:"expected_output"`
	EvaluationCriteria string `json:"evaluation_criteria"`
}

// Evaluation holds the parsed sections of a code review.
type Evaluation struct {
	Verdict      string `json:"verdict"`
	Analysis     string `json:"analysis"`
	Improvements string `json:"improvements"`
}

// CreationPrompt builds the assignment-generation prompt. The response
// template uses the seven detail tags with fenced python code markers so
// ParseDetails can pull the template and expected output back out.
func CreationPrompt(topic, difficulty string, timeLimit int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a high-quality coding assignment about %s for a %s level student that can be completed in approximately %d minutes.\n\n",
		topic, strings.ToLower(difficulty), timeLimit)
	sb.WriteString("Please format your response EXACTLY as follows, including the ```python and ``` markers for code blocks:\n\n")
	sb.WriteString("<title>\n[Provide a concise, descriptive title for the assignment]\n</title>\n\n")
	sb.WriteString("<background>\n[Provide a brief background about the topic and its importance. Explain the problem clearly.]\n</background>\n\n")
	sb.WriteString("<requirements>\n[Provide a detailed, numbered list of functional and non-functional requirements for the solution.]\n1. Requirement one.\n2. Requirement two.\n</requirements>\n\n")
	sb.WriteString("<hints>\n[Provide 1-3 helpful hints that guide the student without giving away the solution directly.]\n1. Hint one.\n</hints>\n\n")
	sb.WriteString("<code_template>\n```python\n# Start with this Python code template\n[Provide a basic Python code structure, function definition, or class to get the student started.]\n```\n</code_template>\n\n")
	sb.WriteString("<expected_output>\n```\n[Provide a clear example of the expected output or behavior of the correct solution.]\n```\n</expected_output>\n\n")
	sb.WriteString("<evaluation_criteria>\n[Explain how the submitted solution will be evaluated: correctness, efficiency, code style, and adherence to requirements.]\n</evaluation_criteria>\n")
	return sb.String()
}

// ParseDetails extracts the assignment sections from a generation
// response. Missing tags degrade to placeholder text; the code template
// and expected output go through a second pass to strip fence markers.
func ParseDetails(response string) Details {
	parsed := sections.Extract(response, detailKeys)
	if len(parsed) == 0 {
		return Details{}
	}

	d := Details{
		Title:              parsed["title"],
		Background:         parsed["background"],
		Requirements:       parsed["requirements"],
		Hints:              parsed["hints"],
		CodeTemplate:       parsed["code_template"],
		ExpectedOutput:     parsed["expected_output"],
		EvaluationCriteria: parsed["evaluation_criteria"],
	}
	if d.CodeTemplate != sections.Missing("code_template") {
		d.CodeTemplate = sections.FencedBlock(d.CodeTemplate, "python")
	}
	if d.ExpectedOutput != sections.Missing("expected_output") {
		d.ExpectedOutput = sections.FencedBlock(d.ExpectedOutput, "")
	}
	return d
}

// EvaluationPrompt builds the code-review prompt for a submitted solution.
func EvaluationPrompt(code, requirements, expectedOutput string) string {
	var sb strings.Builder
	sb.WriteString("Please evaluate the following Python code solution for a coding assignment.\n\n")
	sb.WriteString("ASSIGNMENT REQUIREMENTS:\n")
	sb.WriteString(requirements + "\n\n")
	sb.WriteString("EXPECTED OUTPUT / BEHAVIOR:\n")
	sb.WriteString(expectedOutput + "\n\n")
	sb.WriteString("PYTHON CODE TO EVALUATE:\n```python\n")
	sb.WriteString(code)
	sb.WriteString("\n```\n\n")
	sb.WriteString("Provide a comprehensive review. Address the following points clearly:\n")
	sb.WriteString("1. Functionality: Does the code work as expected based on the requirements? Does it produce the correct output?\n")
	sb.WriteString("2. Bugs/Errors: Identify any syntax errors, runtime errors, or logical bugs.\n")
	sb.WriteString("3. Correctness: How well does the solution address the problem stated in the requirements?\n")
	sb.WriteString("4. Suggestions for Improvement: Offer specific advice on how the code could be improved.\n")
	sb.WriteString("5. Alternative Approaches: Briefly mention any alternative approaches or algorithms that could also solve the problem.\n\n")
	sb.WriteString("Format your response using the following tags. Provide detailed information within each tag:\n")
	sb.WriteString("<verdict>Choose one: Yes / No / Partially (Does it broadly work?)</verdict>\n")
	sb.WriteString("<analysis>\n[Your detailed analysis covering functionality, bugs, errors, and correctness.]\n</analysis>\n")
	sb.WriteString("<improvements>\n[Your specific suggestions for improvement and alternative approaches.]\n</improvements>\n")
	return sb.String()
}

// ParseEvaluation extracts the review sections from a code-evaluation
// response. A missing verdict is reported as "Unknown" so callers can
// display it directly.
func ParseEvaluation(evaluation string) Evaluation {
	parsed := sections.Extract(evaluation, evaluationKeys)
	if len(parsed) == 0 {
		return Evaluation{}
	}

	e := Evaluation{
		Verdict:      parsed["verdict"],
		Analysis:     parsed["analysis"],
		Improvements: parsed["improvements"],
	}
	if e.Verdict == sections.Missing("verdict") {
		e.Verdict = "Unknown"
	}
	return e
}
