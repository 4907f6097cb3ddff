package evaluator

import (
	"reflect"
	"testing"
)

func TestEvaluateIdenticalTexts(t *testing.T) {
	t.Parallel()

	got := Evaluate("The order has shipped and arrives Tuesday.", "The order has shipped and arrives Tuesday.")

	if got.BLEU != 1.0 {
		t.Fatalf("BLEU = %v, want 1.0 for identical texts", got.BLEU)
	}
	if got.RougeL != 1.0 {
		t.Fatalf("RougeL = %v, want 1.0 for identical texts", got.RougeL)
	}
}

func TestEvaluateCaseAndPunctuationInsensitive(t *testing.T) {
	t.Parallel()

	got := Evaluate("the blue shirt is in stock", "The blue shirt is in stock.")

	if got.RougeL < 0.9 {
		t.Fatalf("RougeL = %v, want near 1.0 for case/punctuation variants", got.RougeL)
	}
}

func TestEvaluateDisjointTexts(t *testing.T) {
	t.Parallel()

	got := Evaluate("completely unrelated words here", "nothing in common at all")

	if got.BLEU != 0 {
		t.Fatalf("BLEU = %v, want 0 for disjoint texts", got.BLEU)
	}
	if got.RougeL != 0 {
		t.Fatalf("RougeL = %v, want 0 for disjoint texts", got.RougeL)
	}
}

func TestEvaluateEmptyPrediction(t *testing.T) {
	t.Parallel()

	got := Evaluate("", "a reference answer")

	if got.BLEU != 0 || got.RougeL != 0 {
		t.Fatalf("Evaluate(empty) = %+v, want zero scores", got)
	}
}

func TestEvaluateZeroFourGramOverlapZeroesBLEU(t *testing.T) {
	t.Parallel()

	// Shares unigrams but no higher-order n-grams; unsmoothed BLEU collapses.
	got := Evaluate("shirt stock blue the", "the blue shirt is in stock")

	if got.BLEU != 0 {
		t.Fatalf("BLEU = %v, want 0 without 4-gram overlap", got.BLEU)
	}
	if got.RougeL <= 0 {
		t.Fatalf("RougeL = %v, want positive with shared tokens", got.RougeL)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	t.Parallel()

	first := Evaluate("the delivery takes three to five days", "delivery takes five days")
	second := Evaluate("the delivery takes three to five days", "delivery takes five days")

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Evaluate() not deterministic: %+v vs %+v", first, second)
	}
}

func TestEvaluateRoundedToFourDecimals(t *testing.T) {
	t.Parallel()

	got := Evaluate("one two three four five six seven", "one two three four five six")

	if got.BLEU != round4(got.BLEU) {
		t.Fatalf("BLEU = %v, not rounded to 4 decimals", got.BLEU)
	}
	if got.RougeL != round4(got.RougeL) {
		t.Fatalf("RougeL = %v, not rounded to 4 decimals", got.RougeL)
	}
}

func TestTokenizePeelsPunctuation(t *testing.T) {
	t.Parallel()

	got := tokenize("Blue shirt, size M.")
	want := []string{"blue", "shirt", ",", "size", "m", "."}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tokenize() = %v, want %v", got, want)
	}
}
