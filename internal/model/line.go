package model

import "strings"

// Line is one cleaned subtitle cue or text line
type Line struct {
	Index int    `json:"index"`           // 0-based position in the source file
	Start string `json:"start,omitempty"` // Cue start timestamp, if the format has one
	End   string `json:"end,omitempty"`   // Cue end timestamp
	Raw   string `json:"raw,omitempty"`   // Text before cleanup
	Text  string `json:"text"`            // Cleaned text
}

// Document is a subtitle file reduced to its dialogue lines
type Document struct {
	Path   string `json:"path"`
	Format string `json:"format"` // srt, vtt, ass, plain
	Lines  []Line `json:"lines"`
}

// Text joins the cleaned lines with newlines, skipping empty ones
func (d Document) Text() string {
	parts := make([]string, 0, len(d.Lines))
	for _, l := range d.Lines {
		if l.Text != "" {
			parts = append(parts, l.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// NonEmptyLines counts lines that survived cleanup
func (d Document) NonEmptyLines() int {
	n := 0
	for _, l := range d.Lines {
		if l.Text != "" {
			n++
		}
	}
	return n
}
