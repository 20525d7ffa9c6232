package summarizer

import "unicode/utf8"

// Ellipsis marks a transcript cut at the length budget.
const Ellipsis = "..."

// The templates are fixed text around the transcript and question. Only
// those two segments vary between calls.
const (
	summaryInstructions = `You are an expert at summarizing YouTube videos clearly and concisely.

Given the following video transcript, provide:

1. **Video Summary** (3-4 sentences capturing the main idea)
2. **Key Points** (5-7 bullet points of the most important takeaways)
3. **Who Should Watch This** (1-2 sentences about the target audience)
4. **Key Quotes** (2-3 interesting or important quotes from the transcript)

TRANSCRIPT:
`
	summaryClosing = `

Provide a well-structured, clear response.`

	answerInstructions = `You are a helpful assistant answering questions about a YouTube video.
Use ONLY the transcript below to answer the question.
If the answer isn't in the transcript, say so clearly.

TRANSCRIPT:
`
	answerQuestion = `

QUESTION: `
	answerClosing = `

ANSWER:`
)

// Truncate cuts text to its first budget characters and appends Ellipsis
// when it is longer than budget. The cut ignores word boundaries.
// Characters are runes, so multi-byte text is never split mid-rune.
func Truncate(text string, budget int) string {
	if budget < 0 {
		budget = 0
	}
	if utf8.RuneCountInString(text) <= budget {
		return text
	}

	n := 0
	for i := range text {
		if n == budget {
			return text[:i] + Ellipsis
		}
		n++
	}
	return text + Ellipsis
}

// BuildSummaryPrompt embeds the truncated transcript in the summary template.
func BuildSummaryPrompt(transcript string, budget int) string {
	return summaryInstructions + Truncate(transcript, budget) + summaryClosing
}

// BuildAnswerPrompt embeds the truncated transcript and the question in the
// answer template. The question is inserted verbatim.
func BuildAnswerPrompt(transcript, question string, budget int) string {
	return answerInstructions + Truncate(transcript, budget) + answerQuestion + question + answerClosing
}
