package nodes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentflow"
)

type fakeLLMClient struct {
	reply string
	err   error
	calls []Request
}

func (f *fakeLLMClient) Execute(ctx context.Context, req Request) (Response, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return Response{}, f.err
	}
	return Response{Content: f.reply}, nil
}

func TestLLMNodeRendersPromptAndPublishesReply(t *testing.T) {
	client := &fakeLLMClient{reply: "hi there"}
	shared := agentflow.NewSharedState()
	shared.Set("topic", "weather")

	n := &LLMNode{Client: client, Model: "gpt-test", Prompt: "tell me about {{topic}}", OutputKey: "answer"}

	action, err := agentflow.Run(context.Background(), n, shared)
	require.NoError(t, err)
	assert.Equal(t, agentflow.Action(""), action)

	v, ok := shared.Get("answer")
	require.True(t, ok)
	assert.Equal(t, "hi there", v)

	require.Len(t, client.calls, 1)
	require.Len(t, client.calls[0].Messages, 1)
	assert.Equal(t, "tell me about weather", client.calls[0].Messages[0].Content)
}

func TestLLMNodeThreadsHistory(t *testing.T) {
	client := &fakeLLMClient{reply: "second reply"}
	shared := agentflow.NewSharedState()

	n := &LLMNode{Client: client, Prompt: "hello", HistoryKey: "history"}
	_, err := agentflow.Run(context.Background(), n, shared)
	require.NoError(t, err)

	v, ok := shared.Get("history")
	require.True(t, ok)
	history := v.([]Message)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "second reply", history[1].Content)
}

func TestLLMNodePropagatesClientFailure(t *testing.T) {
	client := &fakeLLMClient{err: agentflow.IoError(assertErr{})}
	shared := agentflow.NewSharedState()
	n := &LLMNode{Client: client, Prompt: "x"}

	_, err := agentflow.Run(context.Background(), n, shared)
	require.Error(t, err)
	assert.True(t, agentflow.AsKind(err, agentflow.KindIoError))
}

func TestLLMNodeRequiresClient(t *testing.T) {
	shared := agentflow.NewSharedState()
	n := &LLMNode{Prompt: "x"}

	_, err := agentflow.Run(context.Background(), n, shared)
	require.Error(t, err)
	assert.True(t, agentflow.AsKind(err, agentflow.KindConfigurationError))
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
