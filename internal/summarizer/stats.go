package summarizer

import (
	"math"
	"strings"
)

// DefaultWordsPerMinute is the reading speed used for ReadingTime.
const DefaultWordsPerMinute = 200

// Stats are derived from a transcript on demand.
type Stats struct {
	WordCount   int `json:"word_count"`
	ReadingTime int `json:"reading_time"` // minutes
}

// ComputeStats counts whitespace separated words and estimates the reading
// time at DefaultWordsPerMinute.
func ComputeStats(transcript string) Stats {
	return ComputeStatsAt(transcript, DefaultWordsPerMinute)
}

// ComputeStatsAt is ComputeStats with an explicit reading speed. Minutes are
// rounded half to even and may be zero.
func ComputeStatsAt(transcript string, wordsPerMinute int) Stats {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	words := len(strings.Fields(transcript))
	return Stats{
		WordCount:   words,
		ReadingTime: int(math.RoundToEven(float64(words) / float64(wordsPerMinute))),
	}
}
