// Package audit provides append-only sinks for dispatched-task records.
// Writes are best-effort from the pipeline's perspective: the dispatcher
// swallows and logs sink failures instead of surfacing them.
package audit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
)

type callRow struct {
	bun.BaseModel `bun:"table:agent_calls"`

	ID         int64          `bun:"id,pk,autoincrement"`
	SessionID  string         `bun:"session_id"`
	TaskName   string         `bun:"task_name"`
	Tool       string         `bun:"tool"`
	Args       map[string]any `bun:"args,type:jsonb"`
	Result     map[string]any `bun:"result,type:jsonb"`
	Status     string         `bun:"status"`
	DurationMS int64          `bun:"duration_ms"`
	RunID      string         `bun:"run_id"`
	CreatedAt  time.Time      `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type PostgresConfig struct {
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"3s"`
}

// PostgresSink appends one row per dispatched task.
type PostgresSink struct {
	db      *bun.DB
	timeout time.Duration
	now     func() time.Time
}

var _ contractx.AuditSink = (*PostgresSink)(nil)

func NewPostgresSink(db *bun.DB, cfg PostgresConfig) (*PostgresSink, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &PostgresSink{db: db, timeout: timeout, now: time.Now}, nil
}

func (s *PostgresSink) Record(ctx context.Context, rec contractx.AuditRecord) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	row := &callRow{
		SessionID:  rec.SessionID,
		TaskName:   rec.TaskName,
		Tool:       rec.Tool,
		Args:       rec.Args,
		Result:     rec.Result,
		Status:     string(rec.Status),
		DurationMS: rec.DurationMS,
		RunID:      rec.RunID,
		CreatedAt:  s.now().UTC(),
	}
	if _, err := s.db.NewInsert().Model(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert audit row: %w", err)
	}
	return nil
}
