package nodes

import (
	"context"
	"os"

	"github.com/agentflow/agentflow"
)

// FileSystem is the collaborator boundary FileNode delegates to, so tests can substitute an
// in-memory fake instead of touching the real filesystem.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	AppendFile(path string, data []byte) error
}

// OSFileSystem is the default FileSystem, backed by os.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

func (OSFileSystem) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func (OSFileSystem) AppendFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

// FileOp selects FileNode's operation.
type FileOp string

const (
	FileOpRead   FileOp = "read"
	FileOpWrite  FileOp = "write"
	FileOpAppend FileOp = "append"
)

// FileNode performs a single filesystem operation, reading content/path via {{key}} template
// substitution against SharedState.
type FileNode struct {
	agentflow.BaseNode

	Name      string
	FS        FileSystem
	Op        FileOp
	Path      string // supports {{key}} substitution
	Content   string // supports {{key}} substitution; used by write/append
	OutputKey string // used by read
}

func (n *FileNode) ID() string {
	if n.Name != "" {
		return n.Name
	}
	return n.BaseNode.ID()
}

type filePrep struct {
	path, content string
}

func (n *FileNode) Prep(ctx context.Context, shared *agentflow.SharedState) (any, error) {
	return filePrep{
		path:    shared.ResolveTemplate(n.Path),
		content: shared.ResolveTemplate(n.Content),
	}, nil
}

func (n *FileNode) Exec(ctx context.Context, prep any) (any, error) {
	p, ok := prep.(filePrep)
	if !ok {
		return nil, agentflow.NodeExecutionFailed("file node %q: unexpected prep type", n.ID())
	}
	fs := n.FS
	if fs == nil {
		fs = OSFileSystem{}
	}

	switch n.Op {
	case FileOpWrite:
		if err := fs.WriteFile(p.path, []byte(p.content)); err != nil {
			return nil, agentflow.IoError(err)
		}
		return "", nil
	case FileOpAppend:
		if err := fs.AppendFile(p.path, []byte(p.content)); err != nil {
			return nil, agentflow.IoError(err)
		}
		return "", nil
	case FileOpRead, "":
		data, err := fs.ReadFile(p.path)
		if err != nil {
			return nil, agentflow.IoError(err)
		}
		return string(data), nil
	default:
		return nil, agentflow.ValidationError("file node %q: unknown op %q", n.ID(), n.Op)
	}
}

func (n *FileNode) Post(ctx context.Context, shared *agentflow.SharedState, prep, exec any) (agentflow.Action, error) {
	if n.Op == FileOpRead || n.Op == "" {
		content, _ := exec.(string)
		key := n.OutputKey
		if key == "" {
			key = "file_content"
		}
		shared.Set(key, content)
	}
	return "", nil
}
