// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import "testing"

func TestSimilarityIdentical(t *testing.T) {
	if got := Similarity("10 downing", "10 downing"); got != 1.0 {
		t.Errorf("Similarity(identical) = %f, want 1.0", got)
	}
}

func TestSimilarityDisjoint(t *testing.T) {
	if got := Similarity("alpha", "zzz"); got != 0 {
		t.Errorf("Similarity(disjoint) = %f, want 0", got)
	}
}

func TestSimilarityEmpty(t *testing.T) {
	if got := Similarity("", ""); got != 0 {
		t.Errorf("Similarity(empty, empty) = %f, want 0", got)
	}
	if got := Similarity("10 downing", ""); got != 0 {
		t.Errorf("Similarity(s, empty) = %f, want 0", got)
	}
}

func TestSimilarityOrderIndependent(t *testing.T) {
	a, b := "10 downing", "10 downing st"
	if Similarity(a, b) != Similarity(b, a) {
		t.Error("similarity should be symmetric")
	}
}

func TestSimilarityCloseVariants(t *testing.T) {
	// A near-identical address should score well above an unrelated one.
	base := "10 downing"
	close := Similarity(base, "10 downin")
	far := Similarity(base, "74 maple grove")
	if close <= far {
		t.Errorf("close variant scored %f, unrelated scored %f; want close > far", close, far)
	}
	if close < 0.5 {
		t.Errorf("close variant scored %f, want >= 0.5", close)
	}
	if close >= 1.0 {
		t.Errorf("close variant scored %f, want < 1.0", close)
	}
}

func TestTrigramsPadding(t *testing.T) {
	grams := trigrams("ab")
	// "  ab " yields "  a", " ab", "ab ".
	for _, g := range []string{"  a", " ab", "ab "} {
		if !grams[g] {
			t.Errorf("trigrams(%q) missing %q", "ab", g)
		}
	}
	if len(grams) != 3 {
		t.Errorf("trigrams(%q) has %d grams, want 3", "ab", len(grams))
	}
}
