package turnnode

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
)

const emptyReplyFallback = "Sorry, I don't have an answer right now."

// FinalizeReply shapes the graph state into the caller-facing result.
func FinalizeReply(_ context.Context, in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	reply := strings.TrimSpace(in.Outcome.Reply)
	if reply == "" {
		reply = emptyReplyFallback
	}
	return GraphOutput{
		Reply:      reply,
		Sources:    in.Outcome.Sources,
		Actions:    in.Outcome.Actions,
		Evaluation: in.Evaluation,
	}, nil
}
