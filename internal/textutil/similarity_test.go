package textutil

import (
	"math"
	"testing"
)

func TestCosineSimilarityNil(t *testing.T) {
	tests := []struct {
		name string
		a    *Fingerprint
		b    *Fingerprint
	}{
		{"both nil", nil, nil},
		{"a nil", nil, NewFingerprint("rough idle")},
		{"b nil", NewFingerprint("rough idle"), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); got != 0 {
				t.Errorf("CosineSimilarity() = %v, want 0", got)
			}
		})
	}
}

func TestCosineSimilarityIdentical(t *testing.T) {
	a := NewFingerprint("engine overheating at idle")
	b := NewFingerprint("Engine overheating at idle")
	if got := CosineSimilarity(a, b); math.Abs(got-1) > 1e-9 {
		t.Errorf("CosineSimilarity(identical) = %v, want 1", got)
	}
}

func TestCosineSimilarityOrdersCloserText(t *testing.T) {
	query := NewFingerprint("engine overheating on highway")
	near := NewFingerprint("overheating engine coolant leak")
	far := NewFingerprint("key fob remote battery")
	if CosineSimilarity(query, near) <= CosineSimilarity(query, far) {
		t.Fatal("expected overheating text to be closer than key fob text")
	}
}

func TestTokenizeDropsShortTokens(t *testing.T) {
	got := Tokenize("A/C no start P0420")
	want := []string{"start", "p0420"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Tokenize = %v, want %v", got, want)
		}
	}
	if NewFingerprint("a b") != nil {
		t.Fatal("expected nil fingerprint for text without usable tokens")
	}
}
