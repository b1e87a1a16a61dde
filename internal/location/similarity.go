// Package location holds the pure tree and matching logic for storage
// locations: string similarity scoring, hierarchy assembly, and the preset
// catalogs used by the seeder and the interactive picker.
package location

// Similarity threshold and input bounds used when suggesting existing
// locations for a typed name.
const (
	// SimilarityThreshold is the minimum score for a location to count as
	// a match for the user's input.
	SimilarityThreshold = 0.4
	// MinQueryLength is the shortest input worth matching against. Shorter
	// strings produce too many false positives.
	MinQueryLength = 3
)

// Similarity returns a normalized score in [0, 1] for how close two strings
// are, where 1.0 is an exact match. The inputs are compared exactly as
// given; callers that want case-insensitive matching fold both sides first.
// Two empty strings are identical, so they score 1.0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}

	maxLen := max(len(a), len(b))
	if maxLen == 0 {
		return 1.0
	}

	distance := LevenshteinDistance(a, b)
	return 1.0 - float64(distance)/float64(maxLen)
}

// LevenshteinDistance computes the edit distance between two strings using
// the standard dynamic programming matrix.
func LevenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len(s2); j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}
