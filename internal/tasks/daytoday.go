package tasks

import (
	"fmt"
	"strings"

	"github.com/careersynchrony/careerworker/internal/content"
	"github.com/careersynchrony/careerworker/internal/gateway"
)

const dayToDaySystemPrompt = "You are a career advisor with extensive knowledge of workplace dynamics and job roles."

const dayToDayTemplate = `Based on this job description, provide a detailed analysis of what a typical day-to-day life would look like in this role. Include:

1. Daily responsibilities and tasks
2. Typical work schedule and time allocation
3. Key interactions and collaborations
4. Potential challenges and how to handle them
5. Required skills in practice
6. Work environment and culture indicators
7. Career growth opportunities

Job Description: %s`

// DayToDayBuilder composes the day-to-day role analysis request. The job
// description comes either from a normalized upload or from directly pasted
// text; whichever was supplied last wins.
type DayToDayBuilder struct {
	jobDescription string
}

func (b *DayToDayBuilder) SetJobDescription(t content.NormalizedText) {
	b.jobDescription = t.Text
}

func (b *DayToDayBuilder) SetPastedText(text string) {
	b.jobDescription = text
}

// Ready reports whether a job description has been supplied.
func (b *DayToDayBuilder) Ready() bool {
	return strings.TrimSpace(b.jobDescription) != ""
}

// Build returns the composed request, or ok=false while input is missing.
func (b *DayToDayBuilder) Build() (Request, bool) {
	if !b.Ready() {
		return Request{}, false
	}
	return Request{
		Kind:  KindDayToDayAnalysis,
		Model: ChatModel,
		Messages: []gateway.Message{
			{Role: gateway.RoleSystem, Content: dayToDaySystemPrompt},
			{Role: gateway.RoleUser, Content: fmt.Sprintf(dayToDayTemplate, b.jobDescription)},
		},
	}, true
}
