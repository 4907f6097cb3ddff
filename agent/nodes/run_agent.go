package turnnode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	auditx "github.com/jadetp/ecommerce-voicebot-agent/agent/audit"
	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
	executorx "github.com/jadetp/ecommerce-voicebot-agent/agent/executor"
)

func RunAgent(
	ctx context.Context,
	in *GraphState,
	exec *executorx.Executor,
	audit contractx.AuditSink,
	log zerolog.Logger,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	start := time.Now()
	out := exec.RunAgent(ctx, in.Transcript, in.SessionID, in.RunID, "")

	auditx.BestEffort(ctx, audit, log, contractx.AuditRecord{
		SessionID: in.SessionID,
		TaskName:  string(contractx.TaskAgent),
		Tool:      "run",
		Args:      map[string]any{"transcript": in.Transcript},
		Result: map[string]any{
			"reply":         out.Reply,
			"source_count":  len(out.Sources),
			"subtask_count": len(out.Actions),
		},
		Status:     contractx.StatusSuccess,
		DurationMS: time.Since(start).Milliseconds(),
		RunID:      in.RunID,
	})

	in.Outcome = out
	return in, nil
}
