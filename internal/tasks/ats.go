package tasks

import (
	"fmt"

	"github.com/careersynchrony/careerworker/internal/content"
	"github.com/careersynchrony/careerworker/internal/gateway"
)

const atsSystemPrompt = "You are an ATS system that analyzes resumes and job descriptions."

// AtsAnalysisBuilder composes the resume/job-description comparison request.
// It does not fire until both documents have arrived; waiting on the second
// one is a normal state, not a failure.
type AtsAnalysisBuilder struct {
	resume         *content.NormalizedText
	jobDescription *content.NormalizedText
}

func (b *AtsAnalysisBuilder) SetResume(t content.NormalizedText) {
	b.resume = &t
}

func (b *AtsAnalysisBuilder) SetJobDescription(t content.NormalizedText) {
	b.jobDescription = &t
}

// Ready reports whether both required inputs are present.
func (b *AtsAnalysisBuilder) Ready() bool {
	return b.resume != nil && b.jobDescription != nil
}

// Build returns the composed request, or ok=false while inputs are missing.
func (b *AtsAnalysisBuilder) Build() (Request, bool) {
	if !b.Ready() {
		return Request{}, false
	}
	user := fmt.Sprintf(
		"Analyze the resume and job description. Provide an ATS score, list missing skills, and give detailed suggestions for improvement. Resume: %s Job Description: %s",
		b.resume.Text, b.jobDescription.Text,
	)
	return Request{
		Kind:  KindAtsAnalysis,
		Model: ChatModel,
		Messages: []gateway.Message{
			{Role: gateway.RoleSystem, Content: atsSystemPrompt},
			{Role: gateway.RoleUser, Content: user},
		},
	}, true
}
