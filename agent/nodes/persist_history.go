package turnnode

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
	sessionx "github.com/jadetp/ecommerce-voicebot-agent/agent/session"
)

// PersistHistory appends the finished turn to the session transcript.
// A write failure degrades continuity for the next turn but never fails
// the current one.
func PersistHistory(
	ctx context.Context,
	in *GraphState,
	sessions sessionx.Store,
	log zerolog.Logger,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	err := sessions.Update(ctx, in.SessionID, func(s *sessionx.Session) {
		s.AppendTurn(in.Transcript, in.Outcome.Reply)
	})
	if err != nil {
		log.Warn().Err(err).Str("session_id", in.SessionID).Msg("persist history failed")
	}
	return in, nil
}
