package reflexion

import (
	"strings"
	"testing"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
)

func TestShouldRerun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bleu float64
		want bool
	}{
		{"below threshold", 0.1, true},
		{"just below", 0.2999, true},
		{"at threshold", 0.30, false},
		{"above threshold", 0.9, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := ShouldRerun(contractx.Score{BLEU: tc.bleu}); got != tc.want {
				t.Fatalf("ShouldRerun(bleu=%v) = %v, want %v", tc.bleu, got, tc.want)
			}
		})
	}
}

func TestCorrectiveInstructionEmbedsRejectedAnswer(t *testing.T) {
	t.Parallel()

	got := CorrectiveInstruction("the wrong answer")

	if !strings.Contains(got, "the wrong answer") {
		t.Fatalf("CorrectiveInstruction() = %q, want rejected answer embedded", got)
	}
	if strings.Contains(got, "{answer}") {
		t.Fatalf("CorrectiveInstruction() left placeholder unexpanded: %q", got)
	}
}

func TestAdoptOnlyOnStrictImprovement(t *testing.T) {
	t.Parallel()

	first := contractx.Score{BLEU: 0.2}

	if Adopt(first, contractx.Score{BLEU: 0.25}) != true {
		t.Fatal("Adopt() = false, want true for improved retry")
	}
	if Adopt(first, contractx.Score{BLEU: 0.2}) != false {
		t.Fatal("Adopt() = true, want false for equal retry")
	}
	if Adopt(first, contractx.Score{BLEU: 0.1}) != false {
		t.Fatal("Adopt() = true, want false for worse retry")
	}
}
