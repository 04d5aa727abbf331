package assistant

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/navigator/backend/internal/model/chat"
)

// descriptorsKey carries the reply's component descriptors in schema.Message.Extra.
const descriptorsKey = "navigator.descriptors"

// ResponderFunc produces a canned reply for a user utterance.
type ResponderFunc func(input string) chat.Reply

// scriptedModel is a model.BaseChatModel that answers from a keyword
// responder instead of running inference.
type scriptedModel struct {
	respond ResponderFunc
}

var _ model.BaseChatModel = (*scriptedModel)(nil)

func (m *scriptedModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	query, err := lastUserContent(input)
	if err != nil {
		return nil, err
	}

	reply := m.respond(query)
	msg := schema.AssistantMessage(reply.Text, nil)
	msg.Extra = map[string]any{descriptorsKey: reply.Descriptors}
	return msg, nil
}

func (m *scriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func lastUserContent(input []*schema.Message) (string, error) {
	for i := len(input) - 1; i >= 0; i-- {
		if input[i] != nil && input[i].Role == schema.User {
			return input[i].Content, nil
		}
	}
	return "", errors.New("no user message in model input")
}
