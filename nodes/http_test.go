package nodes

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentflow"
)

type fakeDoer struct {
	status int
	body   string
	err    error
	lastReq *http.Request
}

func (f *fakeDoer) Do(req *http.Request) (*http.Response, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{StatusCode: status, Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestHTTPNodeResolvesURLAndPublishesBody(t *testing.T) {
	doer := &fakeDoer{body: `{"ok":true}`}
	shared := agentflow.NewSharedState()
	shared.Set("host", "example.com")

	n := &HTTPNode{Client: doer, Method: http.MethodGet, URL: "https://{{host}}/status", OutputKey: "resp"}
	action, err := agentflow.Run(context.Background(), n, shared)
	require.NoError(t, err)
	assert.Equal(t, agentflow.Action(""), action)

	v, ok := shared.Get("resp")
	require.True(t, ok)
	assert.Equal(t, `{"ok":true}`, v)
	assert.Equal(t, "https://example.com/status", doer.lastReq.URL.String())
}

func TestHTTPNodeTranslatesErrorStatus(t *testing.T) {
	doer := &fakeDoer{status: 500, body: "boom"}
	shared := agentflow.NewSharedState()
	n := &HTTPNode{Client: doer, URL: "https://x"}

	_, err := agentflow.Run(context.Background(), n, shared)
	require.Error(t, err)
	assert.True(t, agentflow.AsKind(err, agentflow.KindIoError))
}

func TestHTTPNodeRequiresClient(t *testing.T) {
	shared := agentflow.NewSharedState()
	n := &HTTPNode{URL: "https://x"}
	_, err := agentflow.Run(context.Background(), n, shared)
	require.Error(t, err)
	assert.True(t, agentflow.AsKind(err, agentflow.KindConfigurationError))
}
