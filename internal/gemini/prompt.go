package gemini

import (
	"fmt"

	"github.com/sgoyal/quotidian/internal/quotes"
)

// buildPrompt is a pure function of (quote, mode): one fixed template per mode.
func buildPrompt(q quotes.Quote, mode Mode) string {
	quoted := fmt.Sprintf("%q by %s", q.Content, q.Author)
	switch mode {
	case ModeExplain:
		return "Explain the meaning of the quote " + quoted + ". " +
			"Cover what the author most likely meant and the context the quote is usually read in. " +
			"Keep it under 120 words."
	case ModeContinue:
		return "Continue the quote " + quoted + " with two or three more sentences " +
			"written in the author's voice. Return only the continuation, no preamble."
	case ModeSummarize:
		return "Summarize the general philosophy of " + q.Author + ", " +
			"the author of the quote " + quoted + ". " +
			"Describe the worldview and recurring themes of their work in a short paragraph."
	case ModeVisualize:
		return "Write a single image-generation prompt that captures the feeling of the quote " + quoted + ". " +
			"Describe the scene, mood, lighting and art style in one paragraph, nothing else."
	}
	return ""
}
