package adapters

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:03,000
<i>こんにちは</i>

2
00:00:04,000 --> 00:00:06,500
（先生）今日は
勉強します。

3
00:00:07,000 --> 00:00:08,000
♪～
`

const sampleVTT = `WEBVTT
Kind: captions

NOTE this is a comment

STYLE
::cue { color: yellow }

intro
00:01.000 --> 00:04.000 align:start
猫が<c.yellow>好き</c>です

00:05.000 --> 00:06.000
行こう！
`

const sampleASS = `[Script Info]
Title: Sample

[V4+ Styles]
Format: Name, Fontname
Style: Default,Arial

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:03.00,Default,,0,0,0,,{\i1}食べている{\i0}
Comment: 0,0:00:03.00,0:00:04.00,Default,,0,0,0,,note to self
Dialogue: 0,0:00:04.00,0:00:05.00,Default,,0,0,0,,そう、だね\Nまた明日
`

func TestRegistry_FindAdapter(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		path    string
		content string
		want    string
	}{
		{"srt by extension", "ep01.srt", "", "srt"},
		{"vtt by extension", "ep01.VTT", "", "vtt"},
		{"ass by extension", "ep01.ass", "", "ass"},
		{"ssa by extension", "ep01.ssa", "", "ass"},
		{"srt by content", "ep01.txt", sampleSRT, "srt"},
		{"vtt by content", "ep01.txt", sampleVTT, "vtt"},
		{"ass by content", "ep01.txt", sampleASS, "ass"},
		{"plain fallback", "notes.txt", "ただのテキスト", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.FindAdapter(tt.path, tt.content).Name(); got != tt.want {
				t.Errorf("FindAdapter(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestSRTAdapter_Parse(t *testing.T) {
	lines, err := NewSRTAdapter().Parse(sampleSRT)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines (decoration-only cue dropped), got %d: %+v", len(lines), lines)
	}
	if lines[0].Text != "こんにちは" || lines[0].Start != "00:00:01,000" || lines[0].End != "00:00:03,000" {
		t.Errorf("unexpected first line %+v", lines[0])
	}
	if lines[1].Text != "今日は勉強します" {
		t.Errorf("expected joined cue text, got %q", lines[1].Text)
	}
	if lines[1].Index != 1 {
		t.Errorf("expected index 1, got %d", lines[1].Index)
	}
}

func TestVTTAdapter_Parse(t *testing.T) {
	lines, err := NewVTTAdapter().Parse(sampleVTT)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 cues, got %d: %+v", len(lines), lines)
	}
	if lines[0].Text != "猫が好きです" {
		t.Errorf("unexpected first cue %q", lines[0].Text)
	}
	if lines[0].Start != "00:01.000" || lines[0].End != "00:04.000" {
		t.Errorf("unexpected timing %s -> %s", lines[0].Start, lines[0].End)
	}
	if lines[1].Text != "行こう" {
		t.Errorf("unexpected second cue %q", lines[1].Text)
	}
}

func TestASSAdapter_Parse(t *testing.T) {
	lines, err := NewASSAdapter().Parse(sampleASS)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("expected 2 dialogue lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Text != "食べている" {
		t.Errorf("unexpected first line %q", lines[0].Text)
	}
	if lines[0].Start != "0:00:01.00" {
		t.Errorf("unexpected start %q", lines[0].Start)
	}
	if lines[1].Text != "そう だね また明日" {
		t.Errorf("unexpected second line %q", lines[1].Text)
	}
}

func TestPlainAdapter_Parse(t *testing.T) {
	lines, err := NewPlainAdapter().Parse("一行目\n\n  \n二行目です。")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lines) != 2 || lines[1].Text != "二行目です" {
		t.Errorf("unexpected lines %+v", lines)
	}
}

func TestRegistry_ParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "episode.srt")
	if err := os.WriteFile(path, []byte(sampleSRT), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	doc, err := NewRegistry().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if doc.Format != "srt" {
		t.Errorf("expected srt, got %s", doc.Format)
	}
	if doc.Text() != "こんにちは\n今日は勉強します" {
		t.Errorf("unexpected text %q", doc.Text())
	}

	if _, err := NewRegistry().ParseFile(filepath.Join(dir, "missing.srt")); err == nil {
		t.Error("expected error for missing file")
	}
}
