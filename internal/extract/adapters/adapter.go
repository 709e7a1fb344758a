package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/jimaku/internal/extract"
	"github.com/ppiankov/jimaku/internal/model"
)

// Adapter defines the interface for subtitle format parsers
type Adapter interface {
	// Name returns the format name
	Name() string

	// CanHandle checks if this adapter can parse the given file
	CanHandle(path string, content string) bool

	// Parse extracts cleaned dialogue lines from decoded file content
	Parse(content string) ([]model.Line, error)
}

// Registry manages format adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a new adapter registry
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	// Register built-in adapters
	registry.Register(NewASSAdapter())
	registry.Register(NewVTTAdapter())
	registry.Register(NewSRTAdapter())

	// Plain text is the fallback
	registry.generic = NewPlainAdapter()

	return registry
}

// Register registers a new adapter
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the adapter for the given path and content
func (r *Registry) FindAdapter(path string, content string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(path, content) {
			return adapter
		}
	}
	return r.generic
}

// ParseFile reads, decodes and parses a subtitle file
func (r *Registry) ParseFile(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return r.ParseBytes(path, data)
}

// ParseBytes parses already-read subtitle bytes; path is used only for
// format detection and labelling.
func (r *Registry) ParseBytes(path string, data []byte) (*model.Document, error) {
	content, err := extract.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	adapter := r.FindAdapter(path, content)
	lines, err := adapter.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s as %s: %w", path, adapter.Name(), err)
	}

	return &model.Document{
		Path:   path,
		Format: adapter.Name(),
		Lines:  lines,
	}, nil
}

// BaseAdapter provides common functionality for adapters
type BaseAdapter struct {
	cleaner *extract.Cleaner
}

func newBaseAdapter() BaseAdapter {
	return BaseAdapter{cleaner: extract.NewCleaner()}
}

// HasExtension reports whether path ends with one of exts (case-insensitive)
func (b *BaseAdapter) HasExtension(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// AppendLine cleans raw and appends it when text remains
func (b *BaseAdapter) AppendLine(lines []model.Line, raw, start, end string) []model.Line {
	text := b.cleaner.Clean(raw)
	if text == "" {
		return lines
	}
	return append(lines, model.Line{
		Index: len(lines),
		Start: start,
		End:   end,
		Raw:   raw,
		Text:  text,
	})
}

// SplitBlocks splits content on blank lines
func (b *BaseAdapter) SplitBlocks(content string) [][]string {
	var blocks [][]string
	var current []string
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, strings.TrimRight(line, " \t"))
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}
