package audit

import (
	"context"

	"github.com/rs/zerolog"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
)

// BestEffort writes one record and swallows any sink failure, logging it
// instead. A failed audit write must never affect the turn.
func BestEffort(ctx context.Context, sink contractx.AuditSink, log zerolog.Logger, rec contractx.AuditRecord) {
	if sink == nil {
		return
	}
	if err := sink.Record(ctx, rec); err != nil {
		log.Warn().
			Err(err).
			Str("task", rec.TaskName).
			Str("session_id", rec.SessionID).
			Msg("audit write failed")
	}
}
