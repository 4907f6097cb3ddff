// Package reflexion holds the single corrective-regeneration policy: build a
// corrective instruction around a rejected answer, and adopt the retry only
// when it strictly improves on the first score. Runs at most once per turn.
package reflexion

import (
	"strings"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
	promptx "github.com/jadetp/ecommerce-voicebot-agent/agent/prompt"
)

// BLEUThreshold marks a reply failed and triggers a corrective rerun.
const BLEUThreshold = 0.30

// ShouldRerun reports whether the first-pass score calls for a rerun.
func ShouldRerun(first contractx.Score) bool {
	return first.BLEU < BLEUThreshold
}

// CorrectiveInstruction embeds the rejected answer in the fixed corrective
// directives, used as the system-prompt override for the rerun's generation.
func CorrectiveInstruction(rejected string) string {
	tmpl := promptx.LoadPromptSet().Reflexion
	return strings.ReplaceAll(tmpl, "{answer}", rejected)
}

// Adopt decides whether the rerun's reply replaces the original: only a
// strictly higher BLEU wins, so the returned score never regresses.
func Adopt(first, retry contractx.Score) bool {
	return retry.BLEU > first.BLEU
}
