package turn

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
	executorx "github.com/jadetp/ecommerce-voicebot-agent/agent/executor"
	turnnode "github.com/jadetp/ecommerce-voicebot-agent/agent/nodes"
	sessionx "github.com/jadetp/ecommerce-voicebot-agent/agent/session"
)

var (
	ErrEmptyTranscript = turnnode.ErrEmptyTranscript
	ErrInvalidSession  = turnnode.ErrInvalidSession
)

// Service runs one conversational turn end to end: validation, the agent
// pass, scoring, the reflexion rerun, and history persistence.
type Service struct {
	exec     *executorx.Executor
	sessions sessionx.Store
	audit    contractx.AuditSink
	log      zerolog.Logger

	graphRunner compose.Runnable[turnnode.GraphInput, turnnode.GraphOutput]

	now func() time.Time
}

func New(
	exec *executorx.Executor,
	sessions sessionx.Store,
	audit contractx.AuditSink,
	log zerolog.Logger,
) (*Service, error) {
	if exec == nil {
		return nil, errors.New("executor is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}

	s := &Service{
		exec:     exec,
		sessions: sessions,
		audit:    audit,
		log:      log,
		now:      time.Now,
	}

	graphRunner, err := s.compileHandleTurnGraph(context.Background())
	if err != nil {
		return nil, err
	}
	s.graphRunner = graphRunner

	return s, nil
}

func (s *Service) HandleTurn(ctx context.Context, req contractx.TurnRequest) (contractx.TurnResult, error) {
	out, err := s.graphRunner.Invoke(ctx, turnnode.GraphInput{
		Transcript:  req.Transcript,
		SessionID:   req.SessionID,
		GroundTruth: req.GroundTruth,
		RunID:       req.RunID,
	})
	if err != nil {
		return contractx.TurnResult{}, err
	}
	return out, nil
}
