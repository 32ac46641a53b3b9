package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type Tool interface {
	Name() string
	Description() string
	Schema() json.RawMessage
	Execute(ctx context.Context, input json.RawMessage) (interface{}, error)
}

type AnnotatedTool interface {
	Tool
	Title() string
	Annotations() map[string]bool
}

// Recorder persists one invocation record per executed tool call.
// *audit.Store satisfies it.
type Recorder interface {
	RecordInvocation(tool, arguments string, success bool, errMessage string, duration time.Duration) (string, error)
}

type Registry struct {
	mu       sync.RWMutex
	tools    map[string]Tool
	recorder Recorder
}

func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// SetRecorder enables invocation auditing. A nil recorder disables it.
func (r *Registry) SetRecorder(rec Recorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorder = rec
}

func (r *Registry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool already registered: %s", name)
	}

	r.tools[name] = tool
	return nil
}

func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) (interface{}, error) {
	tool, ok := r.Get(name)
	if !ok {
		return nil, NewToolNotFoundError(name)
	}

	start := time.Now()
	result, err := tool.Execute(ctx, input)
	r.record(name, input, err, time.Since(start))

	return result, err
}

// ExecuteWithTimeout bounds a single tool call; the deadline propagates to
// the resolver through ctx.
func (r *Registry) ExecuteWithTimeout(ctx context.Context, name string, input json.RawMessage, timeout time.Duration) (interface{}, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return r.Execute(ctx, name, input)
}

func (r *Registry) record(name string, input json.RawMessage, execErr error, elapsed time.Duration) {
	r.mu.RLock()
	rec := r.recorder
	r.mu.RUnlock()

	if rec == nil {
		return
	}

	errMessage := ""
	if execErr != nil {
		errMessage = execErr.Error()
	}
	_, _ = rec.RecordInvocation(name, string(input), execErr == nil, errMessage, elapsed)
}

func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	return result
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}
