package ai

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/joseph-fajen/ai-resume-chat/internal/config"
	"github.com/joseph-fajen/ai-resume-chat/internal/model/chat"
)

// Service answers candidate questions with the configured chat model.
type Service struct {
	candidate string
	chain     compose.Runnable[map[string]any, *schema.Message]
	logger    zerolog.Logger
}

// NewService creates a new AI service instance backed by Ark.
func NewService(ctx context.Context, cfg config.AIConfig, candidate string, logger zerolog.Logger) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create chat model")
	}
	return NewServiceWithModel(ctx, chatModel, candidate, logger)
}

// NewServiceWithModel compiles the answer chain around an existing model.
func NewServiceWithModel(ctx context.Context, chatModel model.BaseChatModel, candidate string, logger zerolog.Logger) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile chat chain")
	}

	return &Service{
		candidate: candidate,
		chain:     runnable,
		logger:    logger,
	}, nil
}

// StreamResponse streams answer chunks for userMessage. The whole history is
// sent as context and profileContext is injected into the system prompt.
func (s *Service) StreamResponse(ctx context.Context, history []chat.Message, userMessage, profileContext string) (*schema.StreamReader[*schema.Message], error) {
	input := s.buildChainInput(history, userMessage, profileContext)

	s.logger.Info().
		Int("prompt_length", len(userMessage)).
		Int("history_length", len(history)).
		Msg("agent.llm.streaming_started")

	stream, err := s.chain.Stream(ctx, input)
	if err != nil {
		return nil, errors.Wrap(err, "failed to stream AI chain output")
	}
	return stream, nil
}

func (s *Service) buildChainInput(history []chat.Message, userMessage, profileContext string) map[string]any {
	return map[string]any{
		"system":  BuildSystemPrompt(s.candidate, profileContext),
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}
	return history
}
