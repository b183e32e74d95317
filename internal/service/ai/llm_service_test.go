package ai

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-fajen/ai-resume-chat/internal/model/chat"
)

type scriptedModel struct {
	chunks []string
	input  []*schema.Message
}

func (m *scriptedModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.input = input
	return schema.AssistantMessage(strings.Join(m.chunks, ""), nil), nil
}

func (m *scriptedModel) Stream(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	m.input = input
	out := make([]*schema.Message, 0, len(m.chunks))
	for _, chunk := range m.chunks {
		out = append(out, schema.AssistantMessage(chunk, nil))
	}
	return schema.StreamReaderFromArray(out), nil
}

func TestStreamResponseBuildsPromptAndHistory(t *testing.T) {
	fake := &scriptedModel{chunks: []string{"Hel", "lo"}}
	svc, err := NewServiceWithModel(context.Background(), fake, "Joseph Fajen", zerolog.Nop())
	require.NoError(t, err)

	history := []chat.Message{
		chat.UserMessage("What do you do?"),
		chat.AssistantMessage("Documentation."),
		{Role: "system", Content: "ignored"},
	}
	stream, err := svc.StreamResponse(context.Background(), history, "Any failures?", "NAME: Joseph {braces}")
	require.NoError(t, err)
	defer stream.Close()

	var got strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got.WriteString(chunk.Content)
	}
	assert.Equal(t, "Hello", got.String())

	require.Len(t, fake.input, 4)
	assert.Equal(t, schema.System, fake.input[0].Role)
	assert.Contains(t, fake.input[0].Content, "evaluate Joseph Fajen as a candidate")
	assert.Contains(t, fake.input[0].Content, "NAME: Joseph {braces}")
	assert.Equal(t, schema.User, fake.input[1].Role)
	assert.Equal(t, schema.Assistant, fake.input[2].Role)
	assert.Equal(t, "Any failures?", fake.input[3].Content)
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := BuildSystemPrompt("", "CONTEXT")
	assert.Contains(t, prompt, "evaluate the candidate as a candidate")
	assert.Contains(t, prompt, "WHAT THE CANDIDATE WANTS YOU TO KNOW:\nCONTEXT\n")
	assert.NotContains(t, prompt, "{profile_context}")
	assert.NotContains(t, prompt, "{candidate}")
}
