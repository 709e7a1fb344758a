package adapters

import (
	"regexp"
	"strings"

	"github.com/ppiankov/jimaku/internal/model"
)

var (
	srtIndexRe  = regexp.MustCompile(`^\d+$`)
	srtTimingRe = regexp.MustCompile(`(\d{1,2}:\d{2}:\d{2}[,.]\d{1,3})\s*-->\s*(\d{1,2}:\d{2}:\d{2}[,.]\d{1,3})`)
)

// SRTAdapter parses SubRip (.srt) files
type SRTAdapter struct {
	BaseAdapter
}

// NewSRTAdapter creates a new SRT adapter
func NewSRTAdapter() *SRTAdapter {
	return &SRTAdapter{BaseAdapter: newBaseAdapter()}
}

// Name returns the adapter name
func (a *SRTAdapter) Name() string {
	return "srt"
}

// CanHandle matches the .srt extension or SubRip timing lines
func (a *SRTAdapter) CanHandle(path string, content string) bool {
	if a.HasExtension(path, ".srt") {
		return true
	}
	return srtTimingRe.MatchString(content) && !strings.HasPrefix(strings.TrimSpace(content), "WEBVTT")
}

// Parse drops cue indices and timing lines; the text lines of one cue are
// joined into a single dialogue line.
func (a *SRTAdapter) Parse(content string) ([]model.Line, error) {
	var lines []model.Line
	for _, block := range a.SplitBlocks(content) {
		var start, end string
		var text []string
		for _, l := range block {
			trimmed := strings.TrimSpace(l)
			if m := srtTimingRe.FindStringSubmatch(trimmed); m != nil {
				start, end = m[1], m[2]
				continue
			}
			if srtIndexRe.MatchString(trimmed) && start == "" {
				continue
			}
			text = append(text, trimmed)
		}
		if len(text) == 0 {
			continue
		}
		lines = a.AppendLine(lines, strings.Join(text, ""), start, end)
	}
	return lines, nil
}
