package assistant

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/navigator/backend/internal/model/chat"
	"github.com/zhouzirui/navigator/backend/internal/model/component"
)

// Service runs user turns through an eino chain backed by the scripted model.
type Service struct {
	chain        compose.Runnable[map[string]any, *schema.Message]
	historyLimit int
}

// NewService compiles the prompt → model chain around respond.
func NewService(ctx context.Context, respond ResponderFunc, historyLimit int) (*Service, error) {
	if respond == nil {
		return nil, fmt.Errorf("responder is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(&scriptedModel{respond: respond})

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile assistant chain: %w", err)
	}

	return &Service{chain: runnable, historyLimit: historyLimit}, nil
}

// Reply produces the assistant's answer to input.
func (s *Service) Reply(ctx context.Context, sessionID string, history []chat.Message, input string) (chat.Reply, error) {
	msg, err := s.chain.Invoke(ctx, map[string]any{
		"history": s.buildHistoryMessages(history),
		"query":   input,
	})
	if err != nil {
		return chat.Reply{}, fmt.Errorf("failed to run assistant chain: %w", err)
	}

	reply := chat.Reply{Text: msg.Content, Descriptors: descriptorsFrom(msg)}
	zap.L().Named("assistant").Debug("generated reply",
		zap.String("session", sessionID),
		zap.Int("length", len(reply.Text)),
		zap.Int("descriptors", len(reply.Descriptors)),
	)
	return reply, nil
}

func descriptorsFrom(msg *schema.Message) []component.Descriptor {
	if descriptors, ok := msg.Extra[descriptorsKey].([]component.Descriptor); ok && descriptors != nil {
		return descriptors
	}
	return []component.Descriptor{}
}

func (s *Service) buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 || s.historyLimit <= 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > s.historyLimit {
		startIdx = len(messages) - s.historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Text))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Text, nil))
		}
	}

	return history
}
