package adapters

import (
	"strings"

	"github.com/ppiankov/jimaku/internal/model"
)

// VTTAdapter parses WebVTT (.vtt) files
type VTTAdapter struct {
	BaseAdapter
}

// NewVTTAdapter creates a new WebVTT adapter
func NewVTTAdapter() *VTTAdapter {
	return &VTTAdapter{BaseAdapter: newBaseAdapter()}
}

// Name returns the adapter name
func (a *VTTAdapter) Name() string {
	return "vtt"
}

// CanHandle matches the .vtt extension or a WEBVTT header
func (a *VTTAdapter) CanHandle(path string, content string) bool {
	return a.HasExtension(path, ".vtt") || strings.HasPrefix(strings.TrimSpace(content), "WEBVTT")
}

// Parse skips the header and NOTE, STYLE and REGION blocks. Cue identifiers
// and cue settings are dropped.
func (a *VTTAdapter) Parse(content string) ([]model.Line, error) {
	var lines []model.Line
	for i, block := range a.SplitBlocks(content) {
		first := strings.TrimSpace(block[0])
		if i == 0 && strings.HasPrefix(first, "WEBVTT") {
			continue
		}
		if isVTTMetaBlock(first) {
			continue
		}

		timing := -1
		for j, l := range block {
			if strings.Contains(l, "-->") {
				timing = j
				break
			}
		}
		if timing < 0 {
			continue
		}

		fields := strings.Fields(block[timing])
		var start, end string
		if len(fields) >= 3 {
			start, end = fields[0], fields[2]
		}

		text := make([]string, 0, len(block)-timing-1)
		for _, l := range block[timing+1:] {
			text = append(text, strings.TrimSpace(l))
		}
		lines = a.AppendLine(lines, strings.Join(text, ""), start, end)
	}
	return lines, nil
}

func isVTTMetaBlock(first string) bool {
	for _, kw := range []string{"NOTE", "STYLE", "REGION"} {
		if first == kw || strings.HasPrefix(first, kw+" ") {
			return true
		}
	}
	return false
}
