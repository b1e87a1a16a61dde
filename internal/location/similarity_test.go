package location

import (
	"testing"
)

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want int
	}{
		{"identical strings", "bookshelf", "bookshelf", 0},
		{"empty to non-empty", "", "shelf", 5},
		{"non-empty to empty", "shelf", "", 5},
		{"both empty", "", "", 0},
		{"single substitution", "shelf", "shelt", 1},
		{"single insertion", "shelf", "shelf1", 1},
		{"single deletion", "shelf", "shel", 1},
		{"classic kitten sitting", "kitten", "sitting", 3},
		{"completely different", "attic", "box", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LevenshteinDistance(tt.s1, tt.s2)
			if got != tt.want {
				t.Errorf("LevenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
			}
		})
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "Bookshelf", "Bookshelf", 1.0},
		{"case differs", "Shelf", "shelf", 0.8},
		{"both empty", "", "", 1.0},
		{"one empty", "shelf", "", 0.0},
		{"one char off", "shelf", "shelt", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilarityBounds(t *testing.T) {
	pairs := [][2]string{
		{"Living Room", "Livingroom"},
		{"Nightstand", "Night Stand"},
		{"Box A", "Box B"},
		{"Attic", "Kitchen"},
		{"a", "completely different string"},
	}

	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0.0 || got > 1.0 {
			t.Errorf("Similarity(%q, %q) = %v, out of [0, 1]", p[0], p[1], got)
		}

		// Symmetry holds regardless of argument order.
		reversed := Similarity(p[1], p[0])
		if got != reversed {
			t.Errorf("Similarity(%q, %q) = %v but reversed = %v", p[0], p[1], got, reversed)
		}
	}
}

func TestSimilarityThreshold(t *testing.T) {
	// Typo-level differences clear the match threshold.
	if got := Similarity("Bookshelf", "Bookshelv"); got < SimilarityThreshold {
		t.Errorf("near-identical names scored %v, below threshold %v", got, SimilarityThreshold)
	}

	// Unrelated names stay below it.
	if got := Similarity("Attic", "Refrigerator"); got >= SimilarityThreshold {
		t.Errorf("unrelated names scored %v, at or above threshold %v", got, SimilarityThreshold)
	}
}
