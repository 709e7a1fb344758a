package lemma

// particles are dropped without further analysis.
var particles = newStringSet(
	"は", "が", "を", "に", "で", "と", "も", "へ", "や", "か", "な", "ね", "よ", "わ",
	"から", "まで", "より", "の", "こそ", "さえ", "でも", "しか", "だけ", "ばかり",
	"のみ", "など", "くらい", "ぐらい", "ほど", "ぞ", "ぜ", "さ",
	"には", "では", "とは", "からは", "までは", "にも", "へも", "までに", "のか", "のに",
)

// keigo maps honorific and humble verb forms to the plain verb.
var keigo = map[string]Lemma{
	"いらっしゃる": "来る", "いらっしゃいます": "来る",
	"おっしゃる": "言う", "おっしゃいます": "言う",
	"なさる": "する", "なさいます": "する",
	"くださる": "くれる", "くださいます": "くれる",
	"召し上がる": "食べる", "召し上がります": "食べる",
	"ご覧になる":    "見る",
	"お亡くなりになる": "死ぬ",
	"参る":       "行く", "参ります": "行く",
	"伺う": "聞く", "伺います": "聞く",
	"申す": "言う", "申します": "言う",
	"申し上げる": "言う",
	"いたす":   "する", "いたします": "する",
	"いただく": "もらう", "いただきます": "もらう",
	"拝見する": "見る",
	"拝読する": "読む",
	"存じる":  "知る", "存じます": "知る", "存じ上げる": "知る",
	"おる":    "いる", "おります": "いる",
	"差し上げる": "あげる",
}

// fixedPhrases are kept verbatim when a token contains any of them.
var fixedPhrases = []string{
	"ありがとう", "ございます", "すみません", "ごめんなさい", "おはよう", "こんにちは",
	"こんばんは", "さようなら", "いただきます", "ごちそうさま", "はい", "いいえ",
}

// counters are recognised after a numeral. Any single character after a
// numeral is treated as a counter as well.
var counters = newStringSet(
	"個", "本", "枚", "匹", "人", "冊", "台", "杯", "回", "つ", "歳", "才", "円",
	"時", "分", "秒", "年", "月", "日", "階", "番",
)

// numeralRunes are the characters allowed in the numeral part of a
// numeral+counter token.
var numeralRunes = newRuneSet([]rune("0123456789０１２３４５６７８９一二三四五六七八九十百千万億兆")...)

// compoundSuffixes are verbs that fuse onto a masu-stem (書き始める). Order
// matters: the first suffix that yields a split wins.
var compoundSuffixes = []string{
	"始める", "終わる", "出す", "込む", "換える", "直す", "返す", "合う", "合わせる", "すぎる", "過ぎる",
}

// auxContinuations follow a て/で marker and do not change the lexical item.
var auxContinuations = []string{
	"いる", "いた", "いない", "ある", "あった", "ない", "おく", "おいた", "しまう", "しまった",
	"みる", "みた", "くる", "きた", "いく", "いった", "あげる", "くれる", "もらう",
}

// pluralSuffixes are tried in order; only the first match is trimmed.
var pluralSuffixes = []string{"たち", "達", "ら"}

// suruForms are the inflections of する recognised after a noun stem.
var suruForms = []string{"する", "した", "して", "します", "しない", "しよう", "せずに"}

// sentenceParticles are stripped once from the end of longer words.
var sentenceParticles = newRuneSet('よ', 'ね', 'な', 'さ', 'ぞ', 'ぜ', 'わ')

// bareCopula forms resolve to themselves.
var bareCopula = newStringSet("だ", "です", "でした", "だった", "でしょう", "だろう")

// copulaSuffixes are stripped from na-adjectives and nouns, longest first.
var copulaSuffixes = []string{"じゃない", "ではない", "でしょう", "だろう", "でした", "だった", "です", "だ", "な", "に"}

// adjectiveEndings restore an i-adjective's い.
var adjectiveEndings = []string{"くない", "かった", "くて", "ければ"}

// desireEndings belong to the たい family and are excluded from the
// adjective rule.
var desireEndings = []string{"たくない", "たかった", "たい"}

// politeEndings are the masu family, longest first.
var politeEndings = []string{"ませんでした", "ましょう", "ました", "ません", "ます"}

// derivedSuffixes are stripped to the bare stem.
var derivedSuffixes = []string{"そう", "すぎ", "やす", "にく"}

// teTaClusters map a te/ta ending cluster to the restored dictionary ending.
var teTaClusters = []struct {
	endings []string
	tail    string
}{
	{[]string{"った", "って"}, "る"},
	{[]string{"んだ", "んで"}, "む"},
	{[]string{"いた", "いて"}, "く"},
	{[]string{"いだ", "いで"}, "ぐ"},
	{[]string{"した", "して"}, "す"},
}

// aRowToU maps the a-row mora before ない/ず/れる/せる to the u-row ending.
var aRowToU = map[rune]rune{
	'か': 'く', 'が': 'ぐ', 'さ': 'す', 'た': 'つ', 'な': 'ぬ', 'ば': 'ぶ', 'ま': 'む', 'ら': 'る', 'わ': 'う',
}

// iRowToU maps a godan masu-stem final to the u-row ending.
var iRowToU = map[rune]rune{
	'き': 'く', 'ぎ': 'ぐ', 'し': 'す', 'ち': 'つ', 'に': 'ぬ', 'ひ': 'ぶ', 'び': 'ぶ', 'み': 'む', 'り': 'る', 'い': 'う',
}

// oRowToU maps the volitional o-row mora to the u-row ending. そ is absent:
// そう is the "seeming" suffix.
var oRowToU = map[rune]rune{
	'こ': 'く', 'ご': 'ぐ', 'と': 'つ', 'の': 'ぬ', 'ぼ': 'ぶ', 'も': 'む', 'ろ': 'る', 'お': 'う',
}

// eRowToU maps the conditional e-row mora to the u-row ending.
var eRowToU = map[rune]rune{
	'け': 'く', 'げ': 'ぐ', 'せ': 'す', 'て': 'つ', 'ね': 'ぬ', 'べ': 'ぶ', 'め': 'む', 'れ': 'る',
}

// eRow finals mark an ichidan masu-stem.
var eRow = newRuneSet('え', 'け', 'げ', 'せ', 'て', 'ね', 'へ', 'べ', 'め', 'れ')

type stringSet map[string]struct{}

func newStringSet(items ...string) stringSet {
	s := make(stringSet, len(items))
	for _, item := range items {
		s[item] = struct{}{}
	}
	return s
}

func (s stringSet) has(item string) bool {
	_, ok := s[item]
	return ok
}

type runeSet map[rune]struct{}

func newRuneSet(items ...rune) runeSet {
	s := make(runeSet, len(items))
	for _, r := range items {
		s[r] = struct{}{}
	}
	return s
}

func (s runeSet) has(r rune) bool {
	_, ok := s[r]
	return ok
}

// IsParticle reports whether s is in the particle set.
func IsParticle(s string) bool {
	return particles.has(s)
}

// Keigo returns the plain lemma for an honorific form.
func Keigo(s string) (Lemma, bool) {
	l, ok := keigo[s]
	return l, ok
}

// CompoundSuffixes returns a copy of the compound-verb suffix list.
func CompoundSuffixes() []string {
	out := make([]string, len(compoundSuffixes))
	copy(out, compoundSuffixes)
	return out
}
