// Package llm adapts an eino chat model to the core's Generator contract.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/jadetp/ecommerce-voicebot-agent/agent/contract"
)

type Generator struct {
	model einomodel.BaseChatModel
}

var _ contractx.Generator = (*Generator)(nil)

func NewGenerator(model einomodel.BaseChatModel) (*Generator, error) {
	if model == nil {
		return nil, errors.New("chat model is required")
	}
	return &Generator{model: model}, nil
}

// Chat sends the messages to the generation backend and returns the text
// completion.
func (g *Generator) Chat(ctx context.Context, messages []contractx.Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("at least one message is required")
	}

	converted := make([]*schema.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case contractx.RoleSystem:
			converted = append(converted, schema.SystemMessage(m.Content))
		case contractx.RoleAssistant:
			converted = append(converted, schema.AssistantMessage(m.Content, nil))
		case contractx.RoleUser:
			converted = append(converted, schema.UserMessage(m.Content))
		default:
			return "", fmt.Errorf("unsupported message role %q", m.Role)
		}
	}

	out, err := g.model.Generate(ctx, converted)
	if err != nil {
		return "", fmt.Errorf("chat generate: %w", err)
	}
	if out == nil {
		return "", errors.New("chat generate: empty response")
	}
	return strings.TrimSpace(out.Content), nil
}
