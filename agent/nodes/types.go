package turnnode

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
)

var (
	ErrEmptyTranscript = errors.New("transcript is empty")
	ErrInvalidSession  = errors.New("session id is empty")
)

type GraphInput struct {
	Transcript  string
	SessionID   string
	GroundTruth string
	RunID       string
}

type GraphOutput = contractx.TurnResult

// GraphState is threaded through the turn pipeline nodes.
type GraphState struct {
	Transcript  string
	SessionID   string
	GroundTruth string
	RunID       string
	Now         time.Time

	Outcome    contractx.TurnOutcome
	FirstScore *contractx.Score
	Evaluation *contractx.Score
}

func ValidateRequest(in GraphInput, nowFn func() time.Time) (*GraphState, error) {
	sessionID := strings.TrimSpace(in.SessionID)
	if sessionID == "" {
		return nil, ErrInvalidSession
	}

	transcript := strings.TrimSpace(in.Transcript)
	transcript = strings.TrimRight(transcript, ".?!")
	if transcript == "" {
		return nil, ErrEmptyTranscript
	}

	runID := strings.TrimSpace(in.RunID)
	if runID == "" {
		runID = uuid.NewString()
	}

	return &GraphState{
		Transcript:  transcript,
		SessionID:   sessionID,
		GroundTruth: strings.TrimSpace(in.GroundTruth),
		RunID:       runID,
		Now:         nowFn().UTC(),
	}, nil
}
