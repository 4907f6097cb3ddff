package audit

import (
	"context"

	"github.com/rs/zerolog"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
)

// LogSink writes audit records to the structured log. Useful for local runs
// where no audit database is configured.
type LogSink struct {
	log zerolog.Logger
}

var _ contractx.AuditSink = (*LogSink)(nil)

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Record(ctx context.Context, rec contractx.AuditRecord) error {
	s.log.Info().
		Str("session_id", rec.SessionID).
		Str("task", rec.TaskName).
		Str("tool", rec.Tool).
		Str("status", string(rec.Status)).
		Int64("duration_ms", rec.DurationMS).
		Str("run_id", rec.RunID).
		Msg("task dispatched")
	return nil
}
