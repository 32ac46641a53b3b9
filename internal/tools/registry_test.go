package tools

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubTool struct {
	name string
	exec func(ctx context.Context, input json.RawMessage) (interface{}, error)
}

func (t *stubTool) Name() string            { return t.name }
func (t *stubTool) Description() string     { return "stub" }
func (t *stubTool) Schema() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (t *stubTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	return t.exec(ctx, input)
}

type recordedCall struct {
	tool    string
	success bool
	errMsg  string
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *fakeRecorder) RecordInvocation(tool, arguments string, success bool, errMessage string, duration time.Duration) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{tool: tool, success: success, errMsg: errMessage})
	return "id", nil
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	tool := &stubTool{name: "echo", exec: func(ctx context.Context, in json.RawMessage) (interface{}, error) {
		return "ok", nil
	}}

	if err := reg.Register(tool); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := reg.Register(tool); err == nil {
		t.Error("duplicate register must fail")
	}
}

func TestRegistryExecuteUnknownTool(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Execute(context.Background(), "nope", nil)

	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Code != -32601 {
		t.Errorf("expected tool-not-found error, got %v", err)
	}
}

func TestRegistryRecordsInvocations(t *testing.T) {
	reg := NewRegistry()
	rec := &fakeRecorder{}
	reg.SetRecorder(rec)

	reg.Register(&stubTool{name: "good", exec: func(ctx context.Context, in json.RawMessage) (interface{}, error) {
		return "ok", nil
	}})
	reg.Register(&stubTool{name: "bad", exec: func(ctx context.Context, in json.RawMessage) (interface{}, error) {
		return nil, errors.New("boom")
	}})

	reg.Execute(context.Background(), "good", json.RawMessage(`{}`))
	reg.Execute(context.Background(), "bad", json.RawMessage(`{}`))

	if len(rec.calls) != 2 {
		t.Fatalf("got %d recorded calls, want 2", len(rec.calls))
	}
	if !rec.calls[0].success || rec.calls[0].tool != "good" {
		t.Errorf("first call record: %+v", rec.calls[0])
	}
	if rec.calls[1].success || rec.calls[1].errMsg != "boom" {
		t.Errorf("second call record: %+v", rec.calls[1])
	}
}

func TestExecuteWithTimeoutSetsDeadline(t *testing.T) {
	reg := NewRegistry()

	var hadDeadline bool
	reg.Register(&stubTool{name: "probe", exec: func(ctx context.Context, in json.RawMessage) (interface{}, error) {
		_, hadDeadline = ctx.Deadline()
		return nil, nil
	}})

	if _, err := reg.ExecuteWithTimeout(context.Background(), "probe", nil, time.Minute); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !hadDeadline {
		t.Error("tool context must carry the timeout deadline")
	}
}

func TestRegistryNames(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubTool{name: "a", exec: func(ctx context.Context, in json.RawMessage) (interface{}, error) { return nil, nil }})
	reg.Register(&stubTool{name: "b", exec: func(ctx context.Context, in json.RawMessage) (interface{}, error) { return nil, nil }})

	if len(reg.Names()) != 2 || len(reg.List()) != 2 {
		t.Errorf("names %v, list %d", reg.Names(), len(reg.List()))
	}
}
