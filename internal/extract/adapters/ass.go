package adapters

import (
	"strings"

	"github.com/ppiankov/jimaku/internal/model"
)

// ASSAdapter parses Advanced SubStation Alpha (.ass/.ssa) files
type ASSAdapter struct {
	BaseAdapter
}

// NewASSAdapter creates a new ASS/SSA adapter
func NewASSAdapter() *ASSAdapter {
	return &ASSAdapter{BaseAdapter: newBaseAdapter()}
}

// Name returns the adapter name
func (a *ASSAdapter) Name() string {
	return "ass"
}

// CanHandle matches .ass/.ssa extensions or an [Events]/[Script Info] section
func (a *ASSAdapter) CanHandle(path string, content string) bool {
	if a.HasExtension(path, ".ass", ".ssa") {
		return true
	}
	return strings.Contains(content, "[Script Info]") || strings.Contains(content, "[Events]")
}

// assFormat records field positions from an [Events] Format line
type assFormat struct {
	fields int
	start  int
	end    int
	text   int
}

var defaultASSFormat = assFormat{fields: 10, start: 1, end: 2, text: 9}

func parseASSFormat(spec string) assFormat {
	f := assFormat{start: -1, end: -1, text: -1}
	names := strings.Split(spec, ",")
	f.fields = len(names)
	for i, n := range names {
		switch strings.ToLower(strings.TrimSpace(n)) {
		case "start":
			f.start = i
		case "end":
			f.end = i
		case "text":
			f.text = i
		}
	}
	if f.text < 0 {
		return defaultASSFormat
	}
	return f
}

// Parse reads Dialogue lines of the [Events] section. Text is the last
// field and may itself contain commas.
func (a *ASSAdapter) Parse(content string) ([]model.Line, error) {
	var lines []model.Line
	format := defaultASSFormat
	inEvents := false

	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			inEvents = strings.EqualFold(line, "[Events]")
			continue
		}
		if !inEvents {
			continue
		}

		key, rest, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "Format":
			format = parseASSFormat(rest)
		case "Dialogue":
			parts := strings.SplitN(strings.TrimSpace(rest), ",", format.fields)
			if len(parts) <= format.text {
				continue
			}
			var start, end string
			if format.start >= 0 && format.start < len(parts) {
				start = strings.TrimSpace(parts[format.start])
			}
			if format.end >= 0 && format.end < len(parts) {
				end = strings.TrimSpace(parts[format.end])
			}
			lines = a.AppendLine(lines, parts[format.text], start, end)
		}
	}
	return lines, nil
}
