// Package workspace exposes solution lifecycle operations as MCP tools.
package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/refscope/refscope-mcp/internal/audit"
	"github.com/refscope/refscope-mcp/internal/logger"
	"github.com/refscope/refscope-mcp/internal/resolver"
	"github.com/refscope/refscope-mcp/internal/tools"
)

var log = logger.ForComponent("workspace")

// Solution is the slice of the resolver manager these tools drive.
type Solution interface {
	Load(ctx context.Context, path string) (*resolver.SnapshotInfo, error)
	Reload(ctx context.Context) (*resolver.SnapshotInfo, error)
	Snapshot() *resolver.SnapshotInfo
	SolutionPath() string
	Stats() resolver.ResolverStats
}

// LoadRecorder persists which solutions were loaded and how long loading
// took. *audit.Store satisfies it.
type LoadRecorder interface {
	RecordWorkspaceLoad(path string, projectCount int, duration time.Duration) error
}

// ActivityReader reads back recent tool activity for workspace_status.
// *audit.Store satisfies it.
type ActivityReader interface {
	RecentInvocations(limit int) ([]audit.Invocation, error)
	ToolStats() ([]audit.ToolStat, error)
	RecentWorkspaces(limit int) ([]audit.Workspace, error)
}

// Options carries the optional collaborators of the workspace tools.
type Options struct {
	Recorder LoadRecorder
	Activity ActivityReader
	// OnLoaded runs after every successful load or reload; the server uses
	// it to repoint the file watcher and snippet provider.
	OnLoaded func(info *resolver.SnapshotInfo)
}

func RegisterAll(registry *tools.Registry, solution Solution, opts Options) error {
	all := []tools.Tool{
		&LoadSolutionTool{solution: solution, opts: opts},
		&ReloadSolutionTool{solution: solution, opts: opts},
		&StatusTool{solution: solution, activity: opts.Activity},
	}

	for _, t := range all {
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	return nil
}

type LoadResult struct {
	Success      bool                   `json:"success"`
	Error        string                 `json:"error,omitempty"`
	SolutionPath string                 `json:"solutionPath,omitempty"`
	Projects     []resolver.ProjectInfo `json:"projects,omitempty"`
	ProjectCount int                    `json:"projectCount"`
	DurationMS   int64                  `json:"durationMs"`
}

type LoadSolutionRequest struct {
	SolutionPath string `json:"solutionPath"`
}

type LoadSolutionTool struct {
	solution Solution
	opts     Options
}

func (t *LoadSolutionTool) Name() string {
	return "load_solution"
}

func (t *LoadSolutionTool) Description() string {
	return "Load a solution into the analysis engine, replacing any previously loaded one"
}

func (t *LoadSolutionTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {
			"solutionPath": {
				"type": "string",
				"description": "Absolute path to the solution file"
			}
		},
		"required": ["solutionPath"]
	}`)
}

func (t *LoadSolutionTool) Title() string {
	return "Load Solution"
}

func (t *LoadSolutionTool) Annotations() map[string]bool {
	return tools.NonIdempotentWriteAnnotations()
}

func (t *LoadSolutionTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	var req LoadSolutionRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	if req.SolutionPath == "" {
		return nil, fmt.Errorf("solutionPath is required")
	}

	if _, err := os.Stat(req.SolutionPath); err != nil {
		return &LoadResult{Error: fmt.Sprintf("solution not found: %s", req.SolutionPath)}, nil
	}

	return runLoad(ctx, t.opts, func(ctx context.Context) (*resolver.SnapshotInfo, error) {
		return t.solution.Load(ctx, req.SolutionPath)
	}), nil
}

type ReloadSolutionTool struct {
	solution Solution
	opts     Options
}

func (t *ReloadSolutionTool) Name() string {
	return "reload_solution"
}

func (t *ReloadSolutionTool) Description() string {
	return "Reload the currently loaded solution to pick up on-disk changes"
}

func (t *ReloadSolutionTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *ReloadSolutionTool) Title() string {
	return "Reload Solution"
}

func (t *ReloadSolutionTool) Annotations() map[string]bool {
	return tools.SafeWriteAnnotations()
}

func (t *ReloadSolutionTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	return runLoad(ctx, t.opts, t.solution.Reload), nil
}

func runLoad(ctx context.Context, opts Options, load func(context.Context) (*resolver.SnapshotInfo, error)) *LoadResult {
	start := time.Now()

	info, err := load(ctx)
	if err != nil {
		message := err.Error()
		if errors.Is(err, resolver.ErrNotLoaded) {
			message = "no solution loaded; call load_solution first"
		}
		return &LoadResult{Error: message, DurationMS: time.Since(start).Milliseconds()}
	}

	elapsed := time.Since(start)

	if opts.Recorder != nil {
		if err := opts.Recorder.RecordWorkspaceLoad(info.Path, len(info.Projects), elapsed); err != nil {
			log.Warn("failed to record workspace load", "error", err)
		}
	}
	if opts.OnLoaded != nil {
		opts.OnLoaded(info)
	}

	return &LoadResult{
		Success:      true,
		SolutionPath: info.Path,
		Projects:     info.Projects,
		ProjectCount: len(info.Projects),
		DurationMS:   elapsed.Milliseconds(),
	}
}

type StatusResult struct {
	Loaded            bool                   `json:"loaded"`
	SolutionPath      string                 `json:"solutionPath,omitempty"`
	Projects          []resolver.ProjectInfo `json:"projects,omitempty"`
	LoadedAt          *time.Time             `json:"loadedAt,omitempty"`
	Engine            resolver.ResolverStats `json:"engine"`
	RecentInvocations []audit.Invocation     `json:"recentInvocations,omitempty"`
	ToolStats         []audit.ToolStat       `json:"toolStats,omitempty"`
	RecentWorkspaces  []audit.Workspace      `json:"recentWorkspaces,omitempty"`
}

// statusActivityLimit bounds the audit rows embedded in a status report.
const statusActivityLimit = 10

type StatusTool struct {
	solution Solution
	activity ActivityReader
}

func (t *StatusTool) Name() string {
	return "workspace_status"
}

func (t *StatusTool) Description() string {
	return "Report the loaded solution, its projects and the analysis engine state"
}

func (t *StatusTool) Schema() json.RawMessage {
	return json.RawMessage(`{
		"type": "object",
		"properties": {},
		"required": []
	}`)
}

func (t *StatusTool) Title() string {
	return "Workspace Status"
}

func (t *StatusTool) Annotations() map[string]bool {
	return tools.ReadOnlyAnnotations()
}

func (t *StatusTool) Execute(ctx context.Context, input json.RawMessage) (interface{}, error) {
	result := &StatusResult{
		SolutionPath: t.solution.SolutionPath(),
		Engine:       t.solution.Stats(),
	}

	if snap := t.solution.Snapshot(); snap != nil {
		result.Loaded = true
		result.Projects = snap.Projects
		loadedAt := snap.LoadedAt
		result.LoadedAt = &loadedAt
	}

	t.attachActivity(result)

	return result, nil
}

// attachActivity embeds recent audit history; audit failures degrade the
// report, never the tool call.
func (t *StatusTool) attachActivity(result *StatusResult) {
	if t.activity == nil {
		return
	}

	invocations, err := t.activity.RecentInvocations(statusActivityLimit)
	if err != nil {
		log.Warn("failed to read recent invocations", "error", err)
	} else {
		result.RecentInvocations = invocations
	}

	stats, err := t.activity.ToolStats()
	if err != nil {
		log.Warn("failed to read tool stats", "error", err)
	} else {
		result.ToolStats = stats
	}

	workspaces, err := t.activity.RecentWorkspaces(statusActivityLimit)
	if err != nil {
		log.Warn("failed to read recent workspaces", "error", err)
	} else {
		result.RecentWorkspaces = workspaces
	}
}
