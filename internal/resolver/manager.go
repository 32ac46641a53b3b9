package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/refscope/refscope-mcp/internal/logger"
)

var (
	ErrManagerClosed = errors.New("resolver manager is closed")

	log = logger.ForComponent("resolver")
)

// Manager owns the resolver subprocess and the loaded snapshot. It enforces
// the single-writer, many-reader discipline the snapshot requires: solution
// loads take the write lock, analysis queries take the read lock, so no
// query ever observes a half-reloaded snapshot.
//
// Manager implements Resolver and DiagnosticSource.
type Manager struct {
	config  EngineConfig
	process *Process

	solutionPath string

	snapMu sync.RWMutex
	mu     sync.Mutex
	closed bool
}

var _ Resolver = (*Manager)(nil)
var _ DiagnosticSource = (*Manager)(nil)

func NewManager(config EngineConfig) *Manager {
	return &Manager{
		config:  config,
		process: NewProcess(config),
	}
}

// Load starts the engine if needed and loads (or replaces) the solution
// snapshot. Concurrent analysis calls block until the new snapshot is fully
// visible.
func (m *Manager) Load(ctx context.Context, path string) (*SnapshotInfo, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	m.mu.Unlock()

	m.snapMu.Lock()
	defer m.snapMu.Unlock()

	if err := m.process.Start(ctx); err != nil {
		return nil, fmt.Errorf("start resolver engine: %w", err)
	}

	log.Info("loading solution", "path", path)
	start := time.Now()

	info, err := m.process.Load(ctx, path)
	if err != nil {
		log.Error("solution load failed", "path", path, "error", err)
		return nil, err
	}

	m.solutionPath = path
	log.Info("solution loaded",
		"path", path,
		"projects", len(info.Projects),
		"elapsed_ms", time.Since(start).Milliseconds())
	return info, nil
}

// Reload re-loads the current solution path. No-op error if nothing was
// loaded yet.
func (m *Manager) Reload(ctx context.Context) (*SnapshotInfo, error) {
	m.snapMu.RLock()
	path := m.solutionPath
	m.snapMu.RUnlock()

	if path == "" {
		return nil, ErrNotLoaded
	}
	return m.Load(ctx, path)
}

func (m *Manager) Snapshot() *SnapshotInfo {
	m.snapMu.RLock()
	defer m.snapMu.RUnlock()

	client := m.process.Client()
	if client == nil {
		return nil
	}
	return client.Snapshot()
}

func (m *Manager) SolutionPath() string {
	m.snapMu.RLock()
	defer m.snapMu.RUnlock()
	return m.solutionPath
}

// client returns the ready client under the snapshot read lock, or
// ErrNotLoaded. The returned release func must be called when the query
// finishes.
func (m *Manager) client() (*Client, func(), error) {
	m.snapMu.RLock()

	client := m.process.Client()
	if client == nil || !client.IsReady() {
		m.snapMu.RUnlock()
		return nil, nil, ErrNotLoaded
	}
	return client, m.snapMu.RUnlock, nil
}

func (m *Manager) ResolveType(ctx context.Context, name string) (*Symbol, error) {
	client, release, err := m.client()
	if err != nil {
		return nil, err
	}
	defer release()
	return client.ResolveType(ctx, name)
}

func (m *Manager) ResolveMember(ctx context.Context, typeName, memberName string) (*Symbol, error) {
	client, release, err := m.client()
	if err != nil {
		return nil, err
	}
	defer release()
	return client.ResolveMember(ctx, typeName, memberName)
}

func (m *Manager) ResolveNamespace(ctx context.Context, name string) (*Symbol, error) {
	client, release, err := m.client()
	if err != nil {
		return nil, err
	}
	defer release()
	return client.ResolveNamespace(ctx, name)
}

func (m *Manager) FindReferences(ctx context.Context, symbolID string) ([]ReferenceLocation, error) {
	client, release, err := m.client()
	if err != nil {
		return nil, err
	}
	defer release()
	return client.FindReferences(ctx, symbolID)
}

func (m *Manager) EnclosingSyntax(ctx context.Context, loc ReferenceLocation) (*SyntaxContext, error) {
	client, release, err := m.client()
	if err != nil {
		return nil, err
	}
	defer release()
	return client.EnclosingSyntax(ctx, loc)
}

func (m *Manager) BaseType(ctx context.Context, symbolID string) (*Symbol, error) {
	client, release, err := m.client()
	if err != nil {
		return nil, err
	}
	defer release()
	return client.BaseType(ctx, symbolID)
}

func (m *Manager) ImplementedInterfaces(ctx context.Context, symbolID string) ([]Symbol, error) {
	client, release, err := m.client()
	if err != nil {
		return nil, err
	}
	defer release()
	return client.ImplementedInterfaces(ctx, symbolID)
}

func (m *Manager) Members(ctx context.Context, symbolID string) ([]Member, error) {
	client, release, err := m.client()
	if err != nil {
		return nil, err
	}
	defer release()
	return client.Members(ctx, symbolID)
}

func (m *Manager) Projects(ctx context.Context) ([]ProjectInfo, error) {
	client, release, err := m.client()
	if err != nil {
		return nil, err
	}
	defer release()
	return client.Projects(ctx)
}

func (m *Manager) Diagnostics(ctx context.Context, severity DiagnosticSeverity) ([]Diagnostic, error) {
	client, release, err := m.client()
	if err != nil {
		return nil, err
	}
	defer release()
	return client.Diagnostics(ctx, severity)
}

func (m *Manager) Stats() ResolverStats {
	return m.process.Stats()
}

func (m *Manager) CircuitState() CircuitState {
	return m.process.CircuitState()
}

func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	return m.process.Stop(ctx)
}
