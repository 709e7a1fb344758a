// Package lemma reduces segmented Japanese surface tokens to dictionary
// (lemma) forms so that conjugated forms of a word collapse to one lookup key.
//
// The engine is a fixed, ordered decision list. Each token is tried against
// the token stages (particle filter, numeral+counter split, fixed phrases,
// honorific lookup), then the plural suffix trim, then the stem stages
// (suru-verb split, compound-verb split, auxiliary-chain strip) and finally
// the core deconjugator, which always resolves. The first stage that accepts
// a token decides its output; there is no backtracking.
//
// The rules are suffix heuristics, not a dictionary-backed analyzer. Known
// ambiguities are resolved with fixed defaults:
//
//   - った/って always restores る (言った -> 言る, 待った -> 待る).
//   - んだ/んで always restores む (遊んだ -> 遊む).
//   - an i-row masu-stem prefers the godan reading (起きます -> 起く, not
//     起きる).
//   - かった is read as an i-adjective past (分かった -> 分い).
//   - kanji+い before だ is read as a past cluster (泳いだ -> 泳ぐ), which
//     also catches na-adjectives ending in い (嫌いだ -> 嫌ぐ).
//   - kana stems of する and 来る follow the regular rules (します -> す,
//     しない -> しる, きた -> きる, こない -> こる); a bare te/ta cluster
//     resolves to its ending alone (した -> す, いた -> く).
//   - a kanji run followed by an inflection of する is split as a suru-verb
//     before deconjugation (話して -> 話 + する).
//
// Downstream frequency tables are tuned against these defaults, so they are
// kept as they are.
//
// All functions are safe for concurrent use; the rule tables are built once
// at package initialisation and never mutated.
package lemma
