// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import "strings"

// trigrams returns the distinct 3-grams of s, word by word, with each
// word padded by two leading and one trailing space. This mirrors the
// extraction rule of PostgreSQL's pg_trgm, so similarity scores stay
// comparable with deployments that matched in the database.
func trigrams(s string) map[string]bool {
	grams := make(map[string]bool)
	for _, word := range strings.Fields(s) {
		padded := "  " + word + " "
		for i := 0; i+3 <= len(padded); i++ {
			grams[padded[i:i+3]] = true
		}
	}
	return grams
}

// Similarity returns the trigram similarity of two strings in [0,1]:
// the Jaccard ratio of their distinct trigram sets. Both inputs should
// already be normalized.
func Similarity(a, b string) float64 {
	ta, tb := trigrams(a), trigrams(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 0
	}

	shared := 0
	for g := range ta {
		if tb[g] {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}
