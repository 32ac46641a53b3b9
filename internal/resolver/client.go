package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/jsonrpc2"
)

var (
	ErrNotInitialized = errors.New("resolver client not initialized")
	ErrNotLoaded      = errors.New("no solution loaded")
	ErrAlreadyClosed  = errors.New("resolver client already closed")
)

// Wire error code the resolver uses when queried before a snapshot is loaded.
const codeNotLoaded = -32001

type ClientConfig struct {
	InitTimeout    time.Duration
	RequestTimeout time.Duration
	LoadTimeout    time.Duration
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		InitTimeout:    30 * time.Second,
		RequestTimeout: 30 * time.Second,
		LoadTimeout:    5 * time.Minute,
	}
}

// Client speaks the resolver wire protocol over a stdio JSON-RPC connection.
// It holds no analysis state; the loaded snapshot lives in the resolver
// process.
type Client struct {
	conn         *jsonrpc2.Conn
	config       ClientConfig
	state        atomic.Value
	snapshot     *SnapshotInfo
	requestCount int64
	errorCount   int64
	lastRequest  time.Time
	mu           sync.RWMutex
	closedCh     chan struct{}
}

type stdioReadWriteCloser struct {
	reader io.ReadCloser
	writer io.WriteCloser
}

func (s *stdioReadWriteCloser) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

func (s *stdioReadWriteCloser) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

func (s *stdioReadWriteCloser) Close() error {
	rerr := s.reader.Close()
	werr := s.writer.Close()
	if rerr != nil {
		return rerr
	}
	return werr
}

func NewClient(ctx context.Context, stdin io.WriteCloser, stdout io.ReadCloser, config ClientConfig) *Client {
	rwc := &stdioReadWriteCloser{
		reader: stdout,
		writer: stdin,
	}

	c := &Client{
		config:   config,
		closedCh: make(chan struct{}),
	}
	c.state.Store(StateStarting)

	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	c.conn = jsonrpc2.NewConn(ctx, stream, noopHandler{})

	return c
}

// noopHandler drops server-initiated notifications; the resolver protocol
// has none that matter to us.
type noopHandler struct{}

func (noopHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {}

// LoadSolution loads (or replaces) the project snapshot inside the resolver.
// Callers must serialize this against analysis queries; the Manager does so.
func (c *Client) LoadSolution(ctx context.Context, path string) (*SnapshotInfo, error) {
	c.state.Store(StateInitializing)

	loadCtx, cancel := context.WithTimeout(ctx, c.config.LoadTimeout)
	defer cancel()

	params := struct {
		Path string `json:"path"`
	}{Path: path}

	var info SnapshotInfo
	if err := c.conn.Call(loadCtx, "workspace/load", params, &info); err != nil {
		c.state.Store(StateError)
		return nil, fmt.Errorf("workspace/load failed: %w", err)
	}
	if info.LoadedAt.IsZero() {
		info.LoadedAt = time.Now()
	}

	c.mu.Lock()
	c.snapshot = &info
	c.mu.Unlock()

	c.state.Store(StateReady)
	return &info, nil
}

func (c *Client) Snapshot() *SnapshotInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	if !c.IsReady() {
		return ErrNotLoaded
	}

	c.recordRequest()

	timeoutCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	if err := c.conn.Call(timeoutCtx, method, params, result); err != nil {
		c.recordError()
		var rpcErr *jsonrpc2.Error
		if errors.As(err, &rpcErr) && rpcErr.Code == codeNotLoaded {
			return ErrNotLoaded
		}
		return fmt.Errorf("%s failed: %w", method, err)
	}
	return nil
}

// callSymbol issues a query that may legitimately resolve to nothing; a JSON
// null result maps to (nil, nil).
func (c *Client) callSymbol(ctx context.Context, method string, params interface{}) (*Symbol, error) {
	var raw json.RawMessage
	if err := c.call(ctx, method, params, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var sym Symbol
	if err := json.Unmarshal(raw, &sym); err != nil {
		return nil, fmt.Errorf("parse %s result: %w", method, err)
	}
	return &sym, nil
}

type nameParams struct {
	Name string `json:"name"`
}

type idParams struct {
	ID string `json:"id"`
}

func (c *Client) ResolveType(ctx context.Context, name string) (*Symbol, error) {
	return c.callSymbol(ctx, "symbol/resolveType", nameParams{Name: name})
}

func (c *Client) ResolveMember(ctx context.Context, typeName, memberName string) (*Symbol, error) {
	params := struct {
		Type   string `json:"type"`
		Member string `json:"member"`
	}{Type: typeName, Member: memberName}
	return c.callSymbol(ctx, "symbol/resolveMember", params)
}

func (c *Client) ResolveNamespace(ctx context.Context, name string) (*Symbol, error) {
	return c.callSymbol(ctx, "symbol/resolveNamespace", nameParams{Name: name})
}

func (c *Client) FindReferences(ctx context.Context, symbolID string) ([]ReferenceLocation, error) {
	var refs []ReferenceLocation
	if err := c.call(ctx, "symbol/references", idParams{ID: symbolID}, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

func (c *Client) EnclosingSyntax(ctx context.Context, loc ReferenceLocation) (*SyntaxContext, error) {
	params := struct {
		Location ReferenceLocation `json:"location"`
	}{Location: loc}

	var sc SyntaxContext
	if err := c.call(ctx, "symbol/enclosingSyntax", params, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (c *Client) BaseType(ctx context.Context, symbolID string) (*Symbol, error) {
	return c.callSymbol(ctx, "symbol/baseType", idParams{ID: symbolID})
}

func (c *Client) ImplementedInterfaces(ctx context.Context, symbolID string) ([]Symbol, error) {
	var ifaces []Symbol
	if err := c.call(ctx, "symbol/interfaces", idParams{ID: symbolID}, &ifaces); err != nil {
		return nil, err
	}
	return ifaces, nil
}

func (c *Client) Members(ctx context.Context, symbolID string) ([]Member, error) {
	var members []Member
	if err := c.call(ctx, "symbol/members", idParams{ID: symbolID}, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) Projects(ctx context.Context) ([]ProjectInfo, error) {
	var projects []ProjectInfo
	if err := c.call(ctx, "workspace/projects", struct{}{}, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) Diagnostics(ctx context.Context, severity DiagnosticSeverity) ([]Diagnostic, error) {
	params := struct {
		Severity DiagnosticSeverity `json:"severity,omitempty"`
	}{Severity: severity}

	var diags []Diagnostic
	if err := c.call(ctx, "workspace/diagnostics", params, &diags); err != nil {
		return nil, err
	}
	return diags, nil
}

func (c *Client) Shutdown(ctx context.Context) error {
	if !c.IsReady() {
		return ErrNotInitialized
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	var result interface{}
	if err := c.conn.Call(timeoutCtx, "shutdown", nil, &result); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	if err := c.conn.Notify(ctx, "exit", nil); err != nil {
		return fmt.Errorf("exit notification failed: %w", err)
	}

	return nil
}

func (c *Client) Close() error {
	select {
	case <-c.closedCh:
		return ErrAlreadyClosed
	default:
		close(c.closedCh)
	}

	c.state.Store(StateStopped)
	return c.conn.Close()
}

func (c *Client) IsReady() bool {
	return c.getState() == StateReady
}

func (c *Client) getState() ResolverState {
	return c.state.Load().(ResolverState)
}

func (c *Client) State() ResolverState {
	return c.getState()
}

func (c *Client) Stats() ResolverStats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ResolverStats{
		State:        c.getState(),
		RequestCount: atomic.LoadInt64(&c.requestCount),
		ErrorCount:   atomic.LoadInt64(&c.errorCount),
		LastRequest:  c.lastRequest,
	}
}

func (c *Client) recordRequest() {
	atomic.AddInt64(&c.requestCount, 1)
	c.mu.Lock()
	c.lastRequest = time.Now()
	c.mu.Unlock()
}

func (c *Client) recordError() {
	atomic.AddInt64(&c.errorCount, 1)
}
