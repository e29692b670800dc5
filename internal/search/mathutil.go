package search

import "github.com/OfekShochat/Smallbrain/internal/score"

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absScore(s score.Score) score.Score {
	if s < 0 {
		return -s
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
