package merchant

import (
	"github.com/agnivade/levenshtein"
)

// FuzzyMatch reports whether two merchant names are within the default
// edit-distance threshold of each other after normalization. The threshold
// is max(2, 20% of the longer name's length).
//
// This helper is available for approximate merchant matching but is not
// part of the dedup or subscription-classification path, which compare
// normalized names exactly.
func FuzzyMatch(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	longer := len([]rune(na))
	if l := len([]rune(nb)); l > longer {
		longer = l
	}
	threshold := longer / 5
	if threshold < 2 {
		threshold = 2
	}
	return FuzzyMatchThreshold(a, b, threshold)
}

// FuzzyMatchThreshold reports whether the Levenshtein distance between the
// normalized names is at most threshold.
func FuzzyMatchThreshold(a, b string, threshold int) bool {
	return levenshtein.ComputeDistance(Normalize(a), Normalize(b)) <= threshold
}
