package turnnode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	auditx "github.com/jadetp/ecommerce-voicebot-agent/agent/audit"
	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
	evaluatorx "github.com/jadetp/ecommerce-voicebot-agent/agent/evaluator"
	executorx "github.com/jadetp/ecommerce-voicebot-agent/agent/executor"
	reflexionx "github.com/jadetp/ecommerce-voicebot-agent/agent/reflexion"
)

// ReflectAndRetry reruns the agent pass with a corrective system prompt when
// the first score fell below the acceptance threshold. The retry outcome is
// adopted only when it strictly improves on the first BLEU; otherwise the
// original reply stands.
func ReflectAndRetry(
	ctx context.Context,
	in *GraphState,
	exec *executorx.Executor,
	audit contractx.AuditSink,
	log zerolog.Logger,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.FirstScore == nil || !reflexionx.ShouldRerun(*in.FirstScore) {
		return in, nil
	}

	previous := in.Outcome.Reply
	instruction := reflexionx.CorrectiveInstruction(previous)

	start := time.Now()
	retry := exec.RunAgent(ctx, in.Transcript, in.SessionID, in.RunID, instruction)
	retryScore := evaluatorx.Evaluate(retry.Reply, in.GroundTruth)
	adopted := reflexionx.Adopt(*in.FirstScore, retryScore)

	status := contractx.Status("no_gain")
	if adopted {
		status = "improved"
	}
	auditx.BestEffort(ctx, audit, log, contractx.AuditRecord{
		SessionID: in.SessionID,
		TaskName:  "reflexion",
		Tool:      "rerun",
		Args: map[string]any{
			"previous_reply": previous,
			"reason":         "bleu_below_threshold",
		},
		Result: map[string]any{
			"retry_bleu": retryScore.BLEU,
			"first_bleu": in.FirstScore.BLEU,
			"adopted":    adopted,
		},
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
		RunID:      in.RunID,
	})

	if adopted {
		in.Outcome = retry
		in.Evaluation = &retryScore
	}
	return in, nil
}
