package nodes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentflow/agentflow"
)

type fakeFS struct {
	files map[string][]byte
}

func newFakeFS() *fakeFS { return &fakeFS{files: make(map[string][]byte)} }

func (f *fakeFS) ReadFile(path string) ([]byte, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, assertErr{}
	}
	return data, nil
}

func (f *fakeFS) WriteFile(path string, data []byte) error {
	f.files[path] = append([]byte{}, data...)
	return nil
}

func (f *fakeFS) AppendFile(path string, data []byte) error {
	f.files[path] = append(f.files[path], data...)
	return nil
}

func TestFileNodeWriteThenRead(t *testing.T) {
	fs := newFakeFS()
	shared := agentflow.NewSharedState()
	shared.Set("greeting", "hello")

	writeNode := &FileNode{FS: fs, Op: FileOpWrite, Path: "/tmp/out.txt", Content: "{{greeting}} world"}
	_, err := agentflow.Run(context.Background(), writeNode, shared)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(fs.files["/tmp/out.txt"]))

	readNode := &FileNode{FS: fs, Op: FileOpRead, Path: "/tmp/out.txt", OutputKey: "content"}
	_, err = agentflow.Run(context.Background(), readNode, shared)
	require.NoError(t, err)

	v, ok := shared.Get("content")
	require.True(t, ok)
	assert.Equal(t, "hello world", v)
}

func TestFileNodeAppend(t *testing.T) {
	fs := newFakeFS()
	fs.files["/tmp/log.txt"] = []byte("a")
	shared := agentflow.NewSharedState()

	n := &FileNode{FS: fs, Op: FileOpAppend, Path: "/tmp/log.txt", Content: "b"}
	_, err := agentflow.Run(context.Background(), n, shared)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(fs.files["/tmp/log.txt"]))
}

func TestFileNodeReadMissingFileIsIoError(t *testing.T) {
	fs := newFakeFS()
	shared := agentflow.NewSharedState()
	n := &FileNode{FS: fs, Op: FileOpRead, Path: "/tmp/missing.txt"}

	_, err := agentflow.Run(context.Background(), n, shared)
	require.Error(t, err)
	assert.True(t, agentflow.AsKind(err, agentflow.KindIoError))
}
