package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"
)

var (
	ErrEngineNotInstalled = errors.New("resolver engine not installed")
	ErrMaxRestarts        = errors.New("max restart attempts exceeded")
	ErrProcessNotRunning  = errors.New("resolver process not running")
)

// Process supervises one resolver subprocess: spawn, handshake, stop, and
// restart budget enforcement via the circuit breaker.
type Process struct {
	config  EngineConfig
	circuit *CircuitBreaker

	cmd    *exec.Cmd
	client *Client

	state        atomic.Value
	restartCount int
	startedAt    time.Time
	lastError    error

	mu       sync.RWMutex
	stopOnce sync.Once
}

func NewProcess(config EngineConfig) *Process {
	p := &Process{
		config:  config,
		circuit: NewCircuitBreaker(DefaultCircuitConfig()),
	}
	p.state.Store(StateStopped)
	return p
}

func (p *Process) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	currentState := p.getState()
	if currentState == StateReady || currentState == StateStarting || currentState == StateInitializing {
		return nil
	}

	if p.restartCount >= p.config.MaxRestarts {
		return ErrMaxRestarts
	}

	if !p.circuit.Allow() {
		return fmt.Errorf("circuit breaker open for %s", p.config.Command)
	}

	path, err := exec.LookPath(p.config.Command)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrEngineNotInstalled, p.config.Command)
	}

	p.state.Store(StateStarting)
	p.stopOnce = sync.Once{}

	p.cmd = exec.CommandContext(ctx, path, p.config.Args...)
	p.cmd.Env = os.Environ()
	p.cmd.Stderr = os.Stderr

	stdin, err := p.cmd.StdinPipe()
	if err != nil {
		p.state.Store(StateError)
		p.lastError = err
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}

	stdout, err := p.cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		p.state.Store(StateError)
		p.lastError = err
		return fmt.Errorf("failed to get stdout pipe: %w", err)
	}

	if err := p.cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		p.state.Store(StateError)
		p.lastError = err
		p.circuit.RecordFailure()
		return fmt.Errorf("failed to start %s: %w", p.config.Command, err)
	}

	p.startedAt = time.Now()

	clientConfig := ClientConfig{
		InitTimeout:    p.config.InitTimeout,
		RequestTimeout: p.config.RequestTimeout,
		LoadTimeout:    p.config.LoadTimeout,
	}

	p.client = NewClient(ctx, stdin, stdout, clientConfig)

	// The engine answers queries only after workspace/load; the process is
	// considered up once the subprocess and connection exist.
	p.circuit.RecordSuccess()
	return nil
}

// Load performs the workspace/load handshake for the supervised client.
func (p *Process) Load(ctx context.Context, path string) (*SnapshotInfo, error) {
	client := p.Client()
	if client == nil {
		return nil, ErrProcessNotRunning
	}

	info, err := client.LoadSolution(ctx, path)
	if err != nil {
		p.mu.Lock()
		p.lastError = err
		p.restartCount++
		p.mu.Unlock()
		p.circuit.RecordFailure()
		return nil, err
	}

	p.state.Store(StateReady)
	p.circuit.RecordSuccess()
	return info, nil
}

func (p *Process) Stop(ctx context.Context) error {
	var err error
	p.stopOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		if p.getState() == StateStopped {
			return
		}

		if p.client != nil && p.client.IsReady() {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if shutdownErr := p.client.Shutdown(shutdownCtx); shutdownErr != nil {
				err = shutdownErr
			}
			cancel()
			p.client.Close()
		}

		if p.cmd != nil && p.cmd.Process != nil {
			if sigErr := p.cmd.Process.Signal(os.Interrupt); sigErr != nil {
				err = sigErr
			}

			done := make(chan error, 1)
			go func() {
				done <- p.cmd.Wait()
			}()

			select {
			case <-done:
			case <-time.After(3 * time.Second):
				p.cmd.Process.Kill()
				<-done
			}
		}

		p.state.Store(StateStopped)
		p.client = nil
		p.cmd = nil
	})
	return err
}

func (p *Process) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cmd == nil || p.cmd.Process == nil {
		return nil
	}

	err := p.cmd.Process.Kill()
	p.state.Store(StateStopped)
	p.client = nil
	p.cmd = nil
	return err
}

func (p *Process) Client() *Client {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.client
}

func (p *Process) State() ResolverState {
	return p.getState()
}

func (p *Process) getState() ResolverState {
	return p.state.Load().(ResolverState)
}

func (p *Process) Stats() ResolverStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := ResolverStats{
		State: p.getState(),
	}

	if p.client != nil {
		clientStats := p.client.Stats()
		stats.RequestCount = clientStats.RequestCount
		stats.ErrorCount = clientStats.ErrorCount
		stats.LastRequest = clientStats.LastRequest
	}

	if !p.startedAt.IsZero() {
		stats.StartedAt = p.startedAt
		if p.getState() == StateReady {
			stats.Uptime = time.Since(p.startedAt)
		}
	}

	if p.lastError != nil {
		stats.LastErrorMsg = p.lastError.Error()
	}

	return stats
}

func (p *Process) CircuitState() CircuitState {
	return p.circuit.State()
}

func (p *Process) ResetCircuit() {
	p.circuit.Reset()
}

func (p *Process) ResetRestartCount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.restartCount = 0
}

func (p *Process) IsInstalled() bool {
	_, err := exec.LookPath(p.config.Command)
	return err == nil
}

func (p *Process) Command() string {
	return p.config.Command
}
