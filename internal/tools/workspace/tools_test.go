package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/refscope/refscope-mcp/internal/audit"
	"github.com/refscope/refscope-mcp/internal/resolver"
)

type fakeSolution struct {
	snapshot *resolver.SnapshotInfo
	loadErr  error
	loads    []string
}

func (f *fakeSolution) Load(ctx context.Context, path string) (*resolver.SnapshotInfo, error) {
	f.loads = append(f.loads, path)
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	f.snapshot = &resolver.SnapshotInfo{
		Path:     path,
		Projects: []resolver.ProjectInfo{{Name: "Api"}, {Name: "Data"}},
		LoadedAt: time.Now(),
	}
	return f.snapshot, nil
}

func (f *fakeSolution) Reload(ctx context.Context) (*resolver.SnapshotInfo, error) {
	if f.snapshot == nil {
		return nil, resolver.ErrNotLoaded
	}
	return f.Load(ctx, f.snapshot.Path)
}

func (f *fakeSolution) Snapshot() *resolver.SnapshotInfo { return f.snapshot }

func (f *fakeSolution) SolutionPath() string {
	if f.snapshot == nil {
		return ""
	}
	return f.snapshot.Path
}

func (f *fakeSolution) Stats() resolver.ResolverStats {
	return resolver.ResolverStats{State: resolver.StateReady}
}

type fakeLoadRecorder struct {
	paths []string
}

func (r *fakeLoadRecorder) RecordWorkspaceLoad(path string, projectCount int, duration time.Duration) error {
	r.paths = append(r.paths, fmt.Sprintf("%s:%d", path, projectCount))
	return nil
}

type fakeActivity struct {
	limits     []int
	statsErr   error
	workspaces []audit.Workspace
}

func (a *fakeActivity) RecentInvocations(limit int) ([]audit.Invocation, error) {
	a.limits = append(a.limits, limit)
	return []audit.Invocation{
		{ID: "inv-1", Tool: "find_type_usages", Success: true, DurationMS: 12},
		{ID: "inv-2", Tool: "load_solution", Success: false, ErrorMessage: "solution not found"},
	}, nil
}

func (a *fakeActivity) ToolStats() ([]audit.ToolStat, error) {
	if a.statsErr != nil {
		return nil, a.statsErr
	}
	return []audit.ToolStat{{Tool: "find_type_usages", Calls: 3, Failures: 1}}, nil
}

func (a *fakeActivity) RecentWorkspaces(limit int) ([]audit.Workspace, error) {
	return a.workspaces, nil
}

func writeSolutionFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Acme.Shop.sln")
	if err := os.WriteFile(path, []byte("Microsoft Visual Studio Solution File"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSolution(t *testing.T) {
	solution := &fakeSolution{}
	recorder := &fakeLoadRecorder{}
	var notified *resolver.SnapshotInfo

	tool := &LoadSolutionTool{solution: solution, opts: Options{
		Recorder: recorder,
		OnLoaded: func(info *resolver.SnapshotInfo) { notified = info },
	}}

	path := writeSolutionFile(t)
	input, _ := json.Marshal(LoadSolutionRequest{SolutionPath: path})

	raw, err := tool.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	result := raw.(*LoadResult)
	if !result.Success {
		t.Fatalf("expected success, got %q", result.Error)
	}
	if result.ProjectCount != 2 || result.SolutionPath != path {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(recorder.paths) != 1 || recorder.paths[0] != path+":2" {
		t.Errorf("recorder: %v", recorder.paths)
	}
	if notified == nil || notified.Path != path {
		t.Error("OnLoaded callback must fire with the new snapshot")
	}
}

func TestLoadSolutionMissingFile(t *testing.T) {
	tool := &LoadSolutionTool{solution: &fakeSolution{}}

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"solutionPath":"/nope/Acme.sln"}`))
	if err != nil {
		t.Fatalf("missing file must be a result, not a protocol error: %v", err)
	}

	result := raw.(*LoadResult)
	if result.Success || result.Error == "" {
		t.Errorf("expected failure result, got %+v", result)
	}
}

func TestLoadSolutionRequiresPath(t *testing.T) {
	tool := &LoadSolutionTool{solution: &fakeSolution{}}

	if _, err := tool.Execute(context.Background(), json.RawMessage(`{}`)); err == nil {
		t.Error("missing solutionPath must error")
	}
}

func TestReloadWithoutLoad(t *testing.T) {
	tool := &ReloadSolutionTool{solution: &fakeSolution{}}

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	result := raw.(*LoadResult)
	if result.Success {
		t.Error("reload before load must fail")
	}
	if result.Error != "no solution loaded; call load_solution first" {
		t.Errorf("error message: %q", result.Error)
	}
}

func TestReloadAfterLoad(t *testing.T) {
	solution := &fakeSolution{}
	path := writeSolutionFile(t)
	if _, err := solution.Load(context.Background(), path); err != nil {
		t.Fatal(err)
	}

	tool := &ReloadSolutionTool{solution: solution}

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	result := raw.(*LoadResult)
	if !result.Success || result.SolutionPath != path {
		t.Errorf("unexpected result: %+v", result)
	}
	if len(solution.loads) != 2 {
		t.Errorf("reload must call Load again, got %d loads", len(solution.loads))
	}
}

func TestWorkspaceStatus(t *testing.T) {
	solution := &fakeSolution{}
	tool := &StatusTool{solution: solution}

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result := raw.(*StatusResult); result.Loaded {
		t.Error("nothing loaded yet")
	}

	path := writeSolutionFile(t)
	if _, err := solution.Load(context.Background(), path); err != nil {
		t.Fatal(err)
	}

	raw, err = tool.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	result := raw.(*StatusResult)
	if !result.Loaded || result.SolutionPath != path || len(result.Projects) != 2 {
		t.Errorf("unexpected status: %+v", result)
	}
	if result.RecentInvocations != nil {
		t.Error("no activity reader configured, status must omit audit history")
	}
}

func TestWorkspaceStatusIncludesActivity(t *testing.T) {
	activity := &fakeActivity{
		workspaces: []audit.Workspace{{Path: "/src/Acme.Shop.sln", LoadCount: 3}},
	}
	tool := &StatusTool{solution: &fakeSolution{}, activity: activity}

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	result := raw.(*StatusResult)
	if len(result.RecentInvocations) != 2 {
		t.Fatalf("got %d recent invocations, want 2", len(result.RecentInvocations))
	}
	if result.RecentInvocations[0].Tool != "find_type_usages" {
		t.Errorf("invocation order lost: %+v", result.RecentInvocations[0])
	}
	if len(result.ToolStats) != 1 || result.ToolStats[0].Calls != 3 {
		t.Errorf("tool stats: %+v", result.ToolStats)
	}
	if len(result.RecentWorkspaces) != 1 || result.RecentWorkspaces[0].LoadCount != 3 {
		t.Errorf("recent workspaces: %+v", result.RecentWorkspaces)
	}
	for _, limit := range activity.limits {
		if limit != statusActivityLimit {
			t.Errorf("query limit: got %d, want %d", limit, statusActivityLimit)
		}
	}
}

func TestWorkspaceStatusAuditFailureDegrades(t *testing.T) {
	activity := &fakeActivity{statsErr: fmt.Errorf("database is locked")}
	tool := &StatusTool{solution: &fakeSolution{}, activity: activity}

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("audit failure must not fail the tool call: %v", err)
	}

	result := raw.(*StatusResult)
	if result.ToolStats != nil {
		t.Errorf("failed stats query must be omitted, got %+v", result.ToolStats)
	}
	if len(result.RecentInvocations) != 2 {
		t.Error("surviving queries must still be reported")
	}
}
