// Package evaluator scores a generated reply against a reference answer with
// corpus-style BLEU (modified n-gram precision up to 4-grams with a brevity
// penalty, no smoothing) and ROUGE-L (longest-common-subsequence F-measure).
package evaluator

import (
	"math"
	"strings"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
)

const maxNGramOrder = 4

// Evaluate is pure and deterministic: identical inputs always yield identical
// scores. Both metrics are rounded to 4 decimal places.
func Evaluate(pred, ref string) contractx.Score {
	predTokens := tokenize(pred)
	refTokens := tokenize(ref)

	return contractx.Score{
		BLEU:   round4(bleu(predTokens, refTokens)),
		RougeL: round4(rougeL(predTokens, refTokens)),
	}
}

// tokenize lowercases and splits on whitespace, peeling punctuation into its
// own tokens so "shirt." and "shirt" agree.
func tokenize(text string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range strings.ToLower(text) {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		case ('a' <= r && r <= 'z') || ('0' <= r && r <= '9'):
			cur.WriteRune(r)
		default:
			flush()
			out = append(out, string(r))
		}
	}
	flush()
	return out
}

func bleu(pred, ref []string) float64 {
	if len(pred) == 0 || len(ref) == 0 {
		return 0
	}

	logSum := 0.0
	for n := 1; n <= maxNGramOrder; n++ {
		p := modifiedPrecision(pred, ref, n)
		if p == 0 {
			return 0
		}
		logSum += math.Log(p)
	}
	score := math.Exp(logSum / maxNGramOrder)

	// Brevity penalty.
	if len(pred) < len(ref) {
		score *= math.Exp(1 - float64(len(ref))/float64(len(pred)))
	}
	return score
}

func modifiedPrecision(pred, ref []string, n int) float64 {
	predGrams := countNGrams(pred, n)
	if len(predGrams) == 0 {
		return 0
	}
	refGrams := countNGrams(ref, n)

	matched := 0
	total := 0
	for gram, count := range predGrams {
		total += count
		if rc, ok := refGrams[gram]; ok {
			matched += min(count, rc)
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

func countNGrams(tokens []string, n int) map[string]int {
	grams := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		grams[strings.Join(tokens[i:i+n], "\x1f")]++
	}
	return grams
}

func rougeL(pred, ref []string) float64 {
	if len(pred) == 0 || len(ref) == 0 {
		return 0
	}
	lcs := lcsLength(pred, ref)
	if lcs == 0 {
		return 0
	}
	precision := float64(lcs) / float64(len(pred))
	recall := float64(lcs) / float64(len(ref))
	return 2 * precision * recall / (precision + recall)
}

func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else {
				cur[j] = max(prev[j], cur[j-1])
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
