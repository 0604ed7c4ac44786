package interview

import (
	"bytes"
	"text/template"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
)

const feedbackSystemPrompt = `You are a senior technical interviewer evaluating a finished mock interview. Score the candidate's performance from 0 to 100 considering technical depth, communication clarity, and problem-solving approach.

Instructions:
- Base the evaluation only on what is in the transcript.
- List 3 to 5 concrete strengths and 3 to 5 concrete improvements.
- Keep the summary to two or three sentences.
- Be direct but constructive; the candidate reads this verbatim.`

var feedbackUserTemplate = template.Must(template.New("feedback").Parse(`Target role: {{.TargetRole}}

Interview transcript:
{{range .Transcript}}[{{.Role}}] {{.Text}}
{{end}}`))

func buildFeedbackMessage(iv *domain.Interview) (string, error) {
	var buf bytes.Buffer
	if err := feedbackUserTemplate.Execute(&buf, iv); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const interviewerSystemPrompt = `You are conducting a realistic mock technical interview for the stated target role. Ask one question at a time, follow up on weak or incomplete answers, and keep each turn under four sentences. Never provide the answer yourself during the interview.`

const mentorSystemPrompt = `You are a supportive technical-interview mentor. Answer preparation questions, explain concepts with short examples, and suggest practice strategies. Keep answers focused and under two hundred words unless asked to go deeper.`
