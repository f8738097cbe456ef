package tutor

import (
	"fmt"
	"regexp"
	"strings"
)

// wordsPerMinute is the reading speed used for the estimate.
const wordsPerMinute = 200

// previewRunes is the length of the summary excerpt.
const previewRunes = 300

var sentenceEnd = regexp.MustCompile(`[.!?]+`)

// DocumentStats are the counts behind a document summary.
type DocumentStats struct {
	Words          int
	Sentences      int
	ReadingMinutes int
}

// Analyze counts words and sentences in text.
func Analyze(text string) DocumentStats {
	words := len(strings.Fields(text))

	sentences := 0
	for _, part := range sentenceEnd.Split(text, -1) {
		if strings.TrimSpace(part) != "" {
			sentences++
		}
	}

	return DocumentStats{
		Words:          words,
		Sentences:      sentences,
		ReadingMinutes: (words + wordsPerMinute - 1) / wordsPerMinute,
	}
}

// SummarizeDocument returns the document analysis report.
func SummarizeDocument(text string) string {
	stats := Analyze(text)

	preview := text
	if r := []rune(text); len(r) > previewRunes {
		preview = string(r[:previewRunes])
	}

	return fmt.Sprintf(`DOCUMENT ANALYSIS COMPLETE
======================
Length: %d words
Sentences: %d
Estimated reading time: %d minutes

SUMMARY
-------
%s...

RECOMMENDATIONS
--------------
1. Review key concepts
2. Take notes on main ideas
3. Practice related exercises`, stats.Words, stats.Sentences, stats.ReadingMinutes, preview)
}
