package extract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

var (
	assTagRe        = regexp.MustCompile(`\{[^}]*\}`)
	soundEffectRe   = regexp.MustCompile(`(?i)\((?:BGM|SE)[^)]*\)`)
	fullParenRe     = regexp.MustCompile(`（[^）]*）`)
	lenticularRe    = regexp.MustCompile(`【[^】]*】`)
	squareBracketRe = regexp.MustCompile(`\[[^\]]*\]`)
	halfParenRe     = regexp.MustCompile(`\([^)]*\)`)
	decorationRe    = regexp.MustCompile(`[♪～☆★※]`)
	punctuationRe   = regexp.MustCompile(`[。、！？「」『』.,!?"'#%&;:\-(){}<>～~…・]`)
	spaceRe         = regexp.MustCompile(`\s+`)
)

// Cleaner reduces a subtitle line to plain dialogue text
type Cleaner struct {
	removals []*regexp.Regexp
}

// NewCleaner creates a cleaner with the standard removal rules
func NewCleaner() *Cleaner {
	return &Cleaner{
		removals: []*regexp.Regexp{
			assTagRe,
			soundEffectRe,
			fullParenRe,
			lenticularRe,
			squareBracketRe,
			halfParenRe, // names and furigana readings
			decorationRe,
		},
	}
}

// Clean strips markup, speaker names, readings, sound-effect markers and
// decoration, turns punctuation into spaces and collapses whitespace.
func (c *Cleaner) Clean(s string) string {
	s = norm.NFC.String(s)
	s = StripMarkup(s)
	s = strings.NewReplacer(`\N`, " ", `\n`, " ", `\h`, " ").Replace(s)
	for _, re := range c.removals {
		s = re.ReplaceAllString(s, "")
	}
	s = punctuationRe.ReplaceAllString(s, " ")
	s = spaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripMarkup removes HTML-style tags (<i>, <font color=...>) and decodes
// entities. Script, style and ruby reading (<rt>, <rp>) content is dropped.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var buf strings.Builder
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return buf.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style", "rt", "rp":
				skip++
			case "br":
				buf.WriteByte(' ')
			}
		case html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				buf.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "script", "style", "rt", "rp":
				if skip > 0 {
					skip--
				}
			}
		case html.TextToken:
			if skip == 0 {
				buf.Write(z.Text())
			}
		}
	}
}
