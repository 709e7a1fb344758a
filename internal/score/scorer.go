package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/ppiankov/jimaku/internal/lemma"
	"github.com/ppiankov/jimaku/internal/model"
)

const smallSampleOccurrences = 200

// Options tunes the scorer
type Options struct {
	DifficultWords     int  // Size of the most-difficult list
	DropRareKanji      bool // Drop single-kanji lemmas ranked past RareKanjiRankLimit
	RareKanjiRankLimit int
}

// OptionsFromConfig converts scoring configuration
func OptionsFromConfig(cfg model.ScoringConfig) Options {
	return Options{
		DifficultWords:     cfg.DifficultWords,
		DropRareKanji:      cfg.DropRareKanji,
		RareKanjiRankLimit: cfg.RareKanjiRankLimit,
	}
}

// Input is everything the scorer reads
type Input struct {
	Counts     []lemma.Count                   // Lemma occurrences in first-occurrence order
	Entries    map[string]model.ReferenceEntry // Lookup results for found lemmas
	Lines      int
	Characters int
}

// Result is the scored vocabulary of a text
type Result struct {
	Words          []model.WordEntry // Every scored lemma, most difficult first
	DifficultWords []model.WordEntry
	JLPT           model.JLPTDistribution
	Frequency      model.FrequencyDistribution
	Occurrences    int // Scored lemma occurrences
	Dropped        int // Found lemmas removed by the rare-kanji filter
	AvgSentenceLen float64
	Score          model.Score
}

// Scorer calculates vocabulary difficulty and generates signals
type Scorer struct {
	opts Options
}

// NewScorer creates a new scorer
func NewScorer(opts Options) *Scorer {
	if opts.DifficultWords <= 0 {
		opts.DifficultWords = 20
	}
	if opts.RareKanjiRankLimit <= 0 {
		opts.RareKanjiRankLimit = 10000
	}
	return &Scorer{opts: opts}
}

// Calculate scores every lemma found in BCCWJ. Each occurrence contributes
// (JLPT points + rank points); difficulty is the rounded sum divided by 1000.
func (s *Scorer) Calculate(in Input) *Result {
	res := &Result{}
	total := 0

	for _, c := range in.Counts {
		word := string(c.Lemma)
		entry, ok := in.Entries[word]
		if !ok || !entry.Found {
			continue
		}
		if s.opts.DropRareKanji && isSingleKanji(word) && entry.Rank > s.opts.RareKanjiRankLimit {
			res.Dropped++
			continue
		}

		jp := JLPTPoints(entry.JLPT)
		rp := RankPoints(entry.Rank)
		res.Words = append(res.Words, model.WordEntry{
			Word:       word,
			Reading:    entry.Reading,
			Rank:       entry.Rank,
			JLPT:       entry.JLPT,
			Count:      c.N,
			JLPTPoints: jp,
			RankPoints: rp,
			Points:     jp + rp,
		})

		res.Occurrences += c.N
		res.JLPT.Add(entry.JLPT, c.N)
		res.Frequency.Add(entry.Rank, c.N)
		total += (jp + rp) * c.N
	}

	sort.SliceStable(res.Words, func(i, j int) bool {
		return res.Words[i].Points > res.Words[j].Points
	})
	n := min(s.opts.DifficultWords, len(res.Words))
	res.DifficultWords = append([]model.WordEntry(nil), res.Words[:n]...)

	if in.Lines > 0 {
		res.AvgSentenceLen = float64(in.Characters) / float64(in.Lines)
	}

	var signals []model.Signal
	signals = append(signals, s.coverageSignal(len(in.Counts), len(res.Words), res.Dropped))
	signals = append(signals, s.jlptProfileSignal(res.JLPT))
	signals = append(signals, s.raritySignal(res.Frequency))
	level, levelSignal := s.levelEstimate(res.JLPT)
	signals = append(signals, levelSignal)
	signals = append(signals, s.sentenceLengthSignal(res.AvgSentenceLen, in.Lines, in.Characters))
	if res.Occurrences < smallSampleOccurrences {
		signals = append(signals, model.Signal{
			Type:        model.SignalSmallSample,
			Severity:    model.SeverityWarning,
			Description: fmt.Sprintf("Only %d scored occurrences; the estimate is unstable", res.Occurrences),
			Data: map[string]interface{}{
				"occurrences": res.Occurrences,
				"threshold":   smallSampleOccurrences,
			},
		})
	}

	coverage := 0.0
	if len(in.Counts) > 0 {
		coverage = float64(len(res.Words)) / float64(len(in.Counts))
	}

	res.Score = model.Score{
		Difficulty:  int(math.Round(float64(total) / 1000)),
		TotalPoints: total,
		Level:       level,
		Confidence:  s.determineConfidence(res.Occurrences, coverage),
		Signals:     signals,
	}
	return res
}

// coverageSignal reports how much of the vocabulary the reference tables know
func (s *Scorer) coverageSignal(unique, known, dropped int) model.Signal {
	if unique == 0 {
		return model.Signal{
			Type:        model.SignalCoverage,
			Severity:    model.SeverityCritical,
			Description: "No lemmas extracted",
			Data:        map[string]interface{}{"unique_lemmas": 0},
		}
	}

	ratio := float64(known) / float64(unique)
	severity := model.SeverityInfo
	if ratio < 0.3 {
		severity = model.SeverityCritical
	} else if ratio < 0.6 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Reference coverage: %d/%d lemmas (%.0f%%)", known, unique, ratio*100),
		Data: map[string]interface{}{
			"unique_lemmas": unique,
			"known_lemmas":  known,
			"dropped":       dropped,
			"ratio":         ratio,
			"formula":       "known_lemmas / unique_lemmas",
		},
	}
}

// jlptProfileSignal reports the weight of N1/N2 vocabulary among tagged occurrences
func (s *Scorer) jlptProfileSignal(d model.JLPTDistribution) model.Signal {
	tagged := d.Tagged()
	if tagged == 0 {
		return model.Signal{
			Type:        model.SignalJLPTProfile,
			Severity:    model.SeverityWarning,
			Description: "No JLPT-tagged vocabulary",
			Data:        map[string]interface{}{"tagged": 0},
		}
	}

	advanced := float64(d.N1+d.N2) / float64(tagged)
	severity := model.SeverityInfo
	if advanced >= 0.15 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalJLPTProfile,
		Severity:    severity,
		Description: fmt.Sprintf("Advanced (N1/N2) share: %.1f%% of %d tagged occurrences", advanced*100, tagged),
		Data: map[string]interface{}{
			"n1":             d.N1,
			"n2":             d.N2,
			"n3":             d.N3,
			"n4":             d.N4,
			"n5":             d.N5,
			"untagged":       d.None,
			"tagged":         tagged,
			"advanced_share": advanced,
			"formula":        "(n1 + n2) / tagged",
		},
	}
}

// raritySignal reports the share of occurrences ranked past 10,000
func (s *Scorer) raritySignal(d model.FrequencyDistribution) model.Signal {
	total := d.Total()
	if total == 0 {
		return model.Signal{
			Type:        model.SignalRarity,
			Severity:    model.SeverityInfo,
			Description: "No ranked vocabulary",
			Data:        map[string]interface{}{"total": 0},
		}
	}

	rare := float64(d.Top20k+d.Rare) / float64(total)
	severity := model.SeverityInfo
	if rare >= 0.1 {
		severity = model.SeverityWarning
	}

	return model.Signal{
		Type:        model.SignalRarity,
		Severity:    severity,
		Description: fmt.Sprintf("Low-frequency share (rank > 10,000): %.1f%%", rare*100),
		Data: map[string]interface{}{
			"top_1k":     d.Top1k,
			"top_5k":     d.Top5k,
			"top_10k":    d.Top10k,
			"top_20k":    d.Top20k,
			"rare":       d.Rare,
			"total":      total,
			"rare_share": rare,
			"formula":    "(top_20k + rare) / total",
		},
	}
}

// levelEstimate rounds the occurrence-weighted mean JLPT level
func (s *Scorer) levelEstimate(d model.JLPTDistribution) (string, model.Signal) {
	tagged := d.Tagged()
	if tagged == 0 {
		return model.JLPTNone.String(), model.Signal{
			Type:        model.SignalLevelEstimate,
			Severity:    model.SeverityWarning,
			Description: "Level unknown: no JLPT-tagged vocabulary",
			Data:        map[string]interface{}{"tagged": 0},
		}
	}

	sum := d.N1*1 + d.N2*2 + d.N3*3 + d.N4*4 + d.N5*5
	mean := float64(sum) / float64(tagged)
	level := model.JLPTLevel(int(math.Round(mean)))
	if level < model.JLPTN1 {
		level = model.JLPTN1
	}
	if level > model.JLPTN5 {
		level = model.JLPTN5
	}

	return level.String(), model.Signal{
		Type:        model.SignalLevelEstimate,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("Estimated level %s (mean %.2f)", level, mean),
		Data: map[string]interface{}{
			"mean":    mean,
			"level":   level.String(),
			"tagged":  tagged,
			"formula": "round((n1*1 + n2*2 + n3*3 + n4*4 + n5*5) / tagged)",
		},
	}
}

// sentenceLengthSignal reports average characters per dialogue line
func (s *Scorer) sentenceLengthSignal(avg float64, lines, chars int) model.Signal {
	severity := model.SeverityInfo
	if avg > 25 {
		severity = model.SeverityWarning
	}
	return model.Signal{
		Type:        model.SignalSentenceLength,
		Severity:    severity,
		Description: fmt.Sprintf("Average line length: %.1f characters", avg),
		Data: map[string]interface{}{
			"lines":      lines,
			"characters": chars,
			"average":    avg,
			"formula":    "characters / lines",
		},
	}
}

// determineConfidence rates how far the estimate can be trusted
func (s *Scorer) determineConfidence(occurrences int, coverage float64) string {
	if occurrences < smallSampleOccurrences || coverage < 0.3 {
		return "low"
	}
	if occurrences >= 1000 && coverage >= 0.6 {
		return "high"
	}
	return "medium"
}
