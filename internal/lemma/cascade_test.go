package lemma

import (
	"reflect"
	"sync"
	"testing"
)

func word(s string) RawToken {
	return RawToken{Surface: s, WordLike: true}
}

func TestNormalizeToken(t *testing.T) {
	tests := []struct {
		name    string
		surface string
		want    []Lemma
	}{
		{"particle", "は", []Lemma{}},
		{"compound particle", "には", []Lemma{}},
		{"numeral and counter", "3人", []Lemma{"3", "人"}},
		{"kanji numeral and counter", "二十歳", []Lemma{"二十", "歳"}},
		{"full-width numeral", "５枚", []Lemma{"５", "枚"}},
		{"all numerals backs off one", "十二", []Lemma{"十", "二"}},
		{"single numeral", "三", []Lemma{"三"}},
		{"fixed phrase", "ありがとうございます", []Lemma{"ありがとうございます"}},
		{"apology", "すみません", []Lemma{"すみません"}},
		{"keigo before suru split", "申します", []Lemma{"言う"}},
		{"keigo honorific", "いらっしゃいます", []Lemma{"来る"}},
		{"plural tachi", "子供たち", []Lemma{"子供"}},
		{"plural kanji", "私達", []Lemma{"私"}},
		{"plural ra", "彼ら", []Lemma{"彼"}},
		{"suru polite", "勉強します", []Lemma{"勉強", "する"}},
		{"suru progressive", "勉強している", []Lemma{"勉強", "する"}},
		{"suru katakana", "テストする", []Lemma{"テスト", "する"}},
		{"compound start", "書き始める", []Lemma{"書く", "始める"}},
		{"compound out", "思い出す", []Lemma{"思う", "出す"}},
		{"compound excess", "食べすぎる", []Lemma{"食べる", "すぎる"}},
		{"auxiliary iru", "食べている", []Lemma{"食べる"}},
		{"auxiliary ita", "読んでいた", []Lemma{"読む"}},
		{"auxiliary miru", "やってみる", []Lemma{"やる"}},
		{"deconjugate", "書いた", []Lemma{"書く"}},
		{"suru split takes kanji te form", "話して", []Lemma{"話", "する"}},
		{"suru split takes kanji past", "話した", []Lemma{"話", "する"}},
		{"kana suru past", "した", []Lemma{"す"}},
		{"kana kuru negative", "こない", []Lemma{"こる"}},
		{"fallback ascii", "hello", []Lemma{"hello"}},
		{"fallback noun", "学校", []Lemma{"学校"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeToken(word(tt.surface)).Slice()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeToken(%q) = %v, want %v", tt.surface, got, tt.want)
			}
		})
	}
}

func TestNormalizeToken_Skip(t *testing.T) {
	tests := []RawToken{
		{Surface: "、", WordLike: false},
		{Surface: "", WordLike: true},
		{Surface: "   ", WordLike: true},
		{Surface: "　", WordLike: true},
		{Surface: "食べる", WordLike: false},
	}

	for _, tok := range tests {
		if got := NormalizeToken(tok); got.Len() != 0 {
			t.Errorf("NormalizeToken(%+v) = %v, want empty", tok, got.Slice())
		}
	}
}

func TestNormalizeToken_KeigoPrecedesPatterns(t *testing.T) {
	for surface, plain := range keigo {
		if _, fixed := fixedPhraseStage(surface); fixed {
			continue
		}
		got := NormalizeToken(word(surface)).Slice()
		if len(got) != 1 || got[0] != plain {
			t.Errorf("NormalizeToken(%q) = %v, want [%s]", surface, got, plain)
		}
	}
}

func TestNormalizeToken_ParticlesVanish(t *testing.T) {
	for p := range particles {
		if got := NormalizeToken(word(p)); got.Len() != 0 {
			t.Errorf("particle %q produced %v", p, got.Slice())
		}
	}
}

func TestNormalizeToken_FallbackSafety(t *testing.T) {
	inputs := []string{"abcdef", "xyz", "Tokyo", "ZZZ"}
	for _, in := range inputs {
		got := NormalizeToken(word(in)).Slice()
		if len(got) != 1 || string(got[0]) != in {
			t.Errorf("NormalizeToken(%q) = %v, want [%s]", in, got, in)
		}
	}
}

func TestExplain(t *testing.T) {
	tests := []struct {
		surface string
		stage   string
		rule    string
		trimmed string
	}{
		{"申します", StageKeigo, "", ""},
		{"は", StageParticle, "", ""},
		{"3人", StageNumeral, "", ""},
		{"勉強します", StageSuru, "", ""},
		{"書き始める", StageCompound, "", ""},
		{"食べている", StageAuxiliary, "", ""},
		{"書いた", StageDeconjugate, "te-ta", ""},
		{"話して", StageSuru, "", ""},
		{"嫌いだ", StageDeconjugate, "te-ta", ""},
		{"子供たち", StageDeconjugate, FallbackRule, "子供"},
	}

	for _, tt := range tests {
		t.Run(tt.surface, func(t *testing.T) {
			ex := Explain(word(tt.surface))
			if ex.Stage != tt.stage {
				t.Errorf("stage = %q, want %q", ex.Stage, tt.stage)
			}
			if ex.Rule != tt.rule {
				t.Errorf("rule = %q, want %q", ex.Rule, tt.rule)
			}
			if ex.Trimmed != tt.trimmed {
				t.Errorf("trimmed = %q, want %q", ex.Trimmed, tt.trimmed)
			}
			if ex.Surface != tt.surface {
				t.Errorf("surface = %q, want %q", ex.Surface, tt.surface)
			}
		})
	}

	if ex := Explain(RawToken{Surface: "。"}); ex.Stage != StageSkip || len(ex.Lemmas) != 0 {
		t.Errorf("expected skip with no lemmas, got %+v", ex)
	}
}

func TestNormalizeToken_ConcurrentDeterminism(t *testing.T) {
	surfaces := []string{"書いた", "勉強します", "3人", "申します", "書き始める", "食べている"}
	want := make([][]Lemma, len(surfaces))
	for i, s := range surfaces {
		want[i] = NormalizeToken(word(s)).Slice()
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, s := range surfaces {
				if got := NormalizeToken(word(s)).Slice(); !reflect.DeepEqual(got, want[i]) {
					errs <- s
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for s := range errs {
		t.Errorf("non-deterministic result for %q", s)
	}
}

func TestLemmas_Accessors(t *testing.T) {
	ls := two("数", "人")
	if ls.Len() != 2 || ls.At(0) != "数" || ls.At(1) != "人" {
		t.Errorf("unexpected lemmas %+v", ls)
	}

	dst := ls.AppendTo([]Lemma{"前"})
	if !reflect.DeepEqual(dst, []Lemma{"前", "数", "人"}) {
		t.Errorf("AppendTo = %v", dst)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic on out-of-range At")
		}
	}()
	_ = one("x").At(1)
}
