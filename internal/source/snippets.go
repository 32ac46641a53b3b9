package source

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/refscope/refscope-mcp/internal/logger"
)

var log = logger.ForComponent("source")

// MaxDocumentSize caps how large a document the provider will read.
const MaxDocumentSize = 10 * 1024 * 1024

type cachedDoc struct {
	lines   []string
	modTime int64
	size    int64
}

// Provider reads source documents from disk and serves individual lines,
// decoding legacy encodings on the way in. Documents are cached by path and
// invalidated when size or mtime changes.
type Provider struct {
	root  string
	mu    sync.Mutex
	cache map[string]*cachedDoc
}

// NewProvider serves documents addressed relative to root. Absolute unit
// paths are used as-is.
func NewProvider(root string) *Provider {
	return &Provider{
		root:  root,
		cache: make(map[string]*cachedDoc),
	}
}

// SetRoot repoints the provider at a new solution root and drops the cache.
func (p *Provider) SetRoot(root string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.root = root
	p.cache = make(map[string]*cachedDoc)
}

// Snippet returns the trimmed source line, or "" when the document cannot be
// read. Line numbers are 1-based.
func (p *Provider) Snippet(unit string, line int) string {
	lines, err := p.lines(unit)
	if err != nil {
		log.Debug("snippet unavailable", "unit", unit, "error", err)
		return ""
	}
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[line-1])
}

// Context returns up to radius lines on either side of line, untrimmed.
func (p *Provider) Context(unit string, line, radius int) []string {
	lines, err := p.lines(unit)
	if err != nil || line < 1 || line > len(lines) {
		return nil
	}

	start := line - 1 - radius
	if start < 0 {
		start = 0
	}
	end := line + radius
	if end > len(lines) {
		end = len(lines)
	}

	return append([]string(nil), lines[start:end]...)
}

func (p *Provider) resolvePath(unit string) string {
	if filepath.IsAbs(unit) {
		return unit
	}
	return filepath.Join(p.root, unit)
}

func (p *Provider) lines(unit string) ([]string, error) {
	path := p.resolvePath(unit)

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > MaxDocumentSize {
		return nil, os.ErrInvalid
	}

	p.mu.Lock()
	cached, ok := p.cache[path]
	p.mu.Unlock()

	if ok && cached.modTime == info.ModTime().UnixNano() && cached.size == info.Size() {
		return cached.lines, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text, _, err := Decode(data)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	p.mu.Lock()
	p.cache[path] = &cachedDoc{
		lines:   lines,
		modTime: info.ModTime().UnixNano(),
		size:    info.Size(),
	}
	p.mu.Unlock()

	return lines, nil
}
