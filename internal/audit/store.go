package audit

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Invocation is one recorded tool call.
type Invocation struct {
	ID           string    `json:"id"`
	Tool         string    `json:"tool"`
	Arguments    string    `json:"arguments,omitempty"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	DurationMS   int64     `json:"durationMs"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Workspace is a solution the server has loaded at least once.
type Workspace struct {
	ID             int64     `json:"id"`
	Path           string    `json:"path"`
	ProjectCount   int       `json:"projectCount"`
	LoadDurationMS int64     `json:"loadDurationMs"`
	LoadCount      int       `json:"loadCount"`
	LastLoadedAt   time.Time `json:"lastLoadedAt"`
}

// ToolStat aggregates the invocation history of a single tool.
type ToolStat struct {
	Tool      string  `json:"tool"`
	Calls     int     `json:"calls"`
	Failures  int     `json:"failures"`
	AvgMillis float64 `json:"avgMillis"`
}

type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create audit dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, err
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *Store) initSchema() error {
	schema := GetSchema()

	lines := strings.Split(schema, "\n")
	var cleanLines []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "--") && trimmed != "" {
			cleanLines = append(cleanLines, line)
		}
	}
	cleanSchema := strings.Join(cleanLines, "\n")

	if _, err := s.db.Exec(cleanSchema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	_, _ = s.db.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, GetSchemaVersion())
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordInvocation persists one tool call and returns its generated id.
func (s *Store) RecordInvocation(tool, arguments string, success bool, errMessage string, duration time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO invocations (id, tool, arguments, success, error_message, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, tool, arguments, boolToInt(success), errMessage, duration.Milliseconds())

	if err != nil {
		return "", fmt.Errorf("record invocation: %w", err)
	}

	return id, nil
}

func (s *Store) RecentInvocations(limit int) ([]Invocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, tool, arguments, success, error_message, duration_ms, created_at
		FROM invocations ORDER BY created_at DESC, id LIMIT ?
	`, limit)

	if err != nil {
		return nil, fmt.Errorf("recent invocations: %w", err)
	}
	defer rows.Close()

	var out []Invocation

	for rows.Next() {
		var inv Invocation
		var success int
		var args, errMsg sql.NullString
		var createdAt sql.NullTime

		if err := rows.Scan(&inv.ID, &inv.Tool, &args, &success, &errMsg, &inv.DurationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}

		inv.Success = success != 0
		if args.Valid {
			inv.Arguments = args.String
		}
		if errMsg.Valid {
			inv.ErrorMessage = errMsg.String
		}
		if createdAt.Valid {
			inv.CreatedAt = createdAt.Time
		}

		out = append(out, inv)
	}

	return out, rows.Err()
}

func (s *Store) ToolStats() ([]ToolStat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT tool,
		       COUNT(*),
		       SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END),
		       AVG(duration_ms)
		FROM invocations GROUP BY tool ORDER BY tool
	`)

	if err != nil {
		return nil, fmt.Errorf("tool stats: %w", err)
	}
	defer rows.Close()

	var out []ToolStat

	for rows.Next() {
		var st ToolStat
		var avg sql.NullFloat64

		if err := rows.Scan(&st.Tool, &st.Calls, &st.Failures, &avg); err != nil {
			return nil, fmt.Errorf("scan tool stat: %w", err)
		}
		if avg.Valid {
			st.AvgMillis = avg.Float64
		}

		out = append(out, st)
	}

	return out, rows.Err()
}

// RecordWorkspaceLoad upserts the solution row, bumping its load counter.
func (s *Store) RecordWorkspaceLoad(path string, projectCount int, duration time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO workspaces (path, project_count, load_duration_ms, load_count, last_loaded_at)
		VALUES (?, ?, ?, 1, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			project_count = excluded.project_count,
			load_duration_ms = excluded.load_duration_ms,
			load_count = load_count + 1,
			last_loaded_at = CURRENT_TIMESTAMP
	`, path, projectCount, duration.Milliseconds())

	if err != nil {
		return fmt.Errorf("record workspace load: %w", err)
	}

	return nil
}

func (s *Store) RecentWorkspaces(limit int) ([]Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, path, project_count, load_duration_ms, load_count, last_loaded_at
		FROM workspaces ORDER BY last_loaded_at DESC LIMIT ?
	`, limit)

	if err != nil {
		return nil, fmt.Errorf("recent workspaces: %w", err)
	}
	defer rows.Close()

	var out []Workspace

	for rows.Next() {
		var ws Workspace
		var loadedAt sql.NullTime

		if err := rows.Scan(&ws.ID, &ws.Path, &ws.ProjectCount, &ws.LoadDurationMS, &ws.LoadCount, &loadedAt); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		if loadedAt.Valid {
			ws.LastLoadedAt = loadedAt.Time
		}

		out = append(out, ws)
	}

	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
