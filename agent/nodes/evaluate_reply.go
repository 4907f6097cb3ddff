package turnnode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	auditx "github.com/jadetp/ecommerce-voicebot-agent/agent/audit"
	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
	evaluatorx "github.com/jadetp/ecommerce-voicebot-agent/agent/evaluator"
	reflexionx "github.com/jadetp/ecommerce-voicebot-agent/agent/reflexion"
)

// EvaluateReply scores the reply against the caller-supplied reference.
// Absence of a reference is the normal operating mode, not a degraded one;
// the node is then a no-op.
func EvaluateReply(
	ctx context.Context,
	in *GraphState,
	audit contractx.AuditSink,
	log zerolog.Logger,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if in.GroundTruth == "" {
		return in, nil
	}

	start := time.Now()
	score := evaluatorx.Evaluate(in.Outcome.Reply, in.GroundTruth)

	status := contractx.StatusSuccess
	if reflexionx.ShouldRerun(score) {
		status = contractx.StatusFailed
	}

	auditx.BestEffort(ctx, audit, log, contractx.AuditRecord{
		SessionID: in.SessionID,
		TaskName:  "evaluator",
		Tool:      "score",
		Args: map[string]any{
			"prediction": in.Outcome.Reply,
			"reference":  in.GroundTruth,
		},
		Result: map[string]any{
			"bleu":   score.BLEU,
			"rougeL": score.RougeL,
		},
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
		RunID:      in.RunID,
	})

	in.FirstScore = &score
	in.Evaluation = &score
	return in, nil
}
