package tasks

import (
	"fmt"

	"github.com/careersynchrony/careerworker/internal/content"
	"github.com/careersynchrony/careerworker/internal/gateway"
)

const coverLetterSystemPrompt = "You are a professional cover letter writer."

const coverLetterTemplate = `Generate a professional cover letter based on the following:
Resume: %s
Job Description: %s
Company Name: %s
Hiring Manager: %s

Create a compelling cover letter that:
1. Matches the candidate's experience with the job requirements
2. Highlights relevant achievements
3. Shows enthusiasm for the role and company
4. Maintains a professional yet personable tone`

// CoverLetterBuilder composes the cover letter request. Company name and
// hiring manager are optional personalization; the two documents are required
// and the builder waits until both are present. Generation is triggered by an
// explicit user action, never implicitly on upload.
type CoverLetterBuilder struct {
	resume         *content.NormalizedText
	jobDescription *content.NormalizedText
	CompanyName    string
	HiringManager  string
}

func (b *CoverLetterBuilder) SetResume(t content.NormalizedText) {
	b.resume = &t
}

func (b *CoverLetterBuilder) SetJobDescription(t content.NormalizedText) {
	b.jobDescription = &t
}

// Ready reports whether both required inputs are present.
func (b *CoverLetterBuilder) Ready() bool {
	return b.resume != nil && b.jobDescription != nil
}

// Build returns the composed request, or ok=false while inputs are missing.
func (b *CoverLetterBuilder) Build() (Request, bool) {
	if !b.Ready() {
		return Request{}, false
	}
	user := fmt.Sprintf(coverLetterTemplate,
		b.resume.Text, b.jobDescription.Text, b.CompanyName, b.HiringManager)
	return Request{
		Kind:  KindCoverLetter,
		Model: ChatModel,
		Messages: []gateway.Message{
			{Role: gateway.RoleSystem, Content: coverLetterSystemPrompt},
			{Role: gateway.RoleUser, Content: user},
		},
	}, true
}
