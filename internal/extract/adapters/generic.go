package adapters

import (
	"strings"

	"github.com/ppiankov/jimaku/internal/model"
)

// PlainAdapter is the fallback adapter: every non-empty line is dialogue
type PlainAdapter struct {
	BaseAdapter
}

// NewPlainAdapter creates a new plain-text adapter
func NewPlainAdapter() *PlainAdapter {
	return &PlainAdapter{BaseAdapter: newBaseAdapter()}
}

// Name returns the adapter name
func (a *PlainAdapter) Name() string {
	return "plain"
}

// CanHandle always returns true (fallback adapter)
func (a *PlainAdapter) CanHandle(path string, content string) bool {
	return true
}

// Parse treats each line as one dialogue line
func (a *PlainAdapter) Parse(content string) ([]model.Line, error) {
	var lines []model.Line
	for _, raw := range strings.Split(content, "\n") {
		lines = a.AppendLine(lines, raw, "", "")
	}
	return lines, nil
}
