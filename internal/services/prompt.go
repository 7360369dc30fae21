package services

import "fmt"

// systemPrompt is the fixed coaching persona sent with every evaluation.
const systemPrompt = "You are a tough, professional job interview coach. " +
	"Evaluate the candidate's answer strictly but fairly. " +
	"Provide constructive feedback in a structured JSON format."

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildInterviewPrompt creates the user prompt for an evaluation. Both fields
// are embedded verbatim; the model sees exactly what the candidate wrote.
func (pb *PromptBuilder) BuildInterviewPrompt(question, answer string) string {
	return fmt.Sprintf("Question: %s\nCandidate Answer: %s", question, answer)
}

// SystemPrompt returns the coaching system instruction.
func (pb *PromptBuilder) SystemPrompt() string {
	return systemPrompt
}
