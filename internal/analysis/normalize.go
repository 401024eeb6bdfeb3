package analysis

import (
	"fmt"
	"math"
	"strconv"
)

// Meta is authoritative metadata from the transcription step. Its numbers
// always win over whatever the analysis model estimated.
type Meta struct {
	WordCount       int
	DurationSeconds float64
	Unclear         []UnclearWord
}

const maxSynthesizedMispronunciations = 5

// Normalize turns a parsed-but-untrusted object into a schema-complete
// Result. Missing or mistyped fields are repaired with neutral defaults in a
// single pass; this layer never fails.
func Normalize(raw map[string]any, meta Meta) *Result {
	res := &Result{
		VoiceModulation:     fillCategory(raw["voiceModulation"]),
		ThoughtStructure:    fillCategory(raw["thoughtStructure"]),
		LanguageProficiency: fillLanguage(raw["languageProficiency"]),

		ProficiencyLevel: stringOr(raw["proficiencyLevel"], defaultLevel),
		Summary:          stringOr(raw["summary"], defaultSummary),
		SuggestedDrill:   stringOr(raw["suggestedDrill"], ""),

		TopStrengths:        stringList(raw["topStrengths"]),
		TopDevelopmentAreas: stringList(raw["topDevelopmentAreas"]),
		TimestampedFeedback: timedFeedbackList(raw["timestampedFeedback"]),
		Mispronunciations:   mispronunciationList(raw["mispronunciations"]),
	}

	if score, ok := scoreOf(raw["overallScore"]); ok {
		res.OverallScore = score
	} else {
		// Average of the three groups when the model omitted its own.
		sum := res.VoiceModulation.Score + res.ThoughtStructure.Score + res.LanguageProficiency.Score
		res.OverallScore = clampScore(int(math.Round(float64(sum) / 3)))
	}

	res.WordCount = intOr(raw["wordCount"], 0)
	res.DurationSeconds = floatOr(raw["durationSeconds"], 0)
	res.WordsPerMinute = intOr(raw["wordsPerMinute"], 0)

	// Transcription numbers are ground truth; the model's are guesses.
	if meta.WordCount > 0 {
		res.WordCount = meta.WordCount
	}
	if meta.DurationSeconds > 0 {
		res.DurationSeconds = meta.DurationSeconds
	}
	if res.WordsPerMinute == 0 && res.WordCount > 0 && res.DurationSeconds > 0 {
		res.WordsPerMinute = int(math.Round(float64(res.WordCount) / res.DurationSeconds * 60))
	}

	if len(res.Mispronunciations) == 0 && len(meta.Unclear) > 0 {
		res.Mispronunciations = synthesizeMispronunciations(meta.Unclear)
	}

	return res
}

func fillCategory(v any) CategoryScore {
	m := asMap(v)
	score, ok := scoreOf(m["score"])
	feedback := stringOr(m["feedback"], "")
	if !ok {
		score = defaultScore
		if feedback == "" {
			feedback = defaultFeedback
		}
	}
	if feedback == "" {
		feedback = defaultFeedback
	}
	return CategoryScore{
		Score:            score,
		Feedback:         feedback,
		Strengths:        stringList(m["strengths"]),
		DevelopmentAreas: stringList(m["developmentAreas"]),
	}
}

func fillLanguage(v any) LanguageProficiency {
	m := asMap(v)
	base := fillCategory(v)
	return LanguageProficiency{
		Score:            base.Score,
		Feedback:         base.Feedback,
		Strengths:        base.Strengths,
		DevelopmentAreas: base.DevelopmentAreas,
		Grammar:          fillDetail(m["grammar"]),
		Vocabulary:       fillDetail(m["vocabulary"]),
		Fluency:          fillDetail(m["fluency"]),
	}
}

func fillDetail(v any) ScoreDetail {
	m := asMap(v)
	score, ok := scoreOf(m["score"])
	feedback := stringOr(m["feedback"], "")
	if !ok {
		score = defaultScore
	}
	if feedback == "" {
		feedback = defaultFeedback
	}
	return ScoreDetail{Score: score, Feedback: feedback}
}

func timedFeedbackList(v any) []TimedFeedback {
	items, _ := v.([]any)
	out := make([]TimedFeedback, 0, len(items))
	for _, item := range items {
		m := asMap(item)
		fb := stringOr(m["feedback"], "")
		if fb == "" {
			continue
		}
		out = append(out, TimedFeedback{
			Timestamp: stringOr(m["timestamp"], "0:00"),
			Feedback:  fb,
		})
	}
	return out
}

func mispronunciationList(v any) []Mispronunciation {
	items, _ := v.([]any)
	out := make([]Mispronunciation, 0, len(items))
	for _, item := range items {
		m := asMap(item)
		word := stringOr(m["word"], "")
		if word == "" {
			continue
		}
		out = append(out, Mispronunciation{
			Word:      word,
			Timestamp: stringOr(m["timestamp"], "0:00"),
			Issue:     stringOr(m["issue"], ""),
		})
	}
	return out
}

func synthesizeMispronunciations(unclear []UnclearWord) []Mispronunciation {
	n := len(unclear)
	if n > maxSynthesizedMispronunciations {
		n = maxSynthesizedMispronunciations
	}
	out := make([]Mispronunciation, 0, n)
	for _, w := range unclear[:n] {
		out = append(out, Mispronunciation{
			Word:      w.Word,
			Timestamp: FormatTimestamp(w.Start),
			Issue:     fmt.Sprintf("Transcribed with only %d%% confidence; articulate this word more clearly.", int(w.Confidence*100)),
		})
	}
	return out
}

// FormatTimestamp renders an offset in seconds as "m:ss".
func FormatTimestamp(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func clampScore(s int) int {
	if s < 1 {
		return 1
	}
	if s > 10 {
		return 10
	}
	return s
}

// scoreOf coerces a free-form score value into [1,10]. Numbers arrive as
// float64 from encoding/json; numeric strings are tolerated too.
func scoreOf(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return clampScore(int(math.Round(n))), true
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return clampScore(int(math.Round(f))), true
		}
	}
	return 0, false
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	if m == nil {
		return map[string]any{}
	}
	return m
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func intOr(v any, fallback int) int {
	if f, ok := v.(float64); ok {
		return int(math.Round(f))
	}
	return fallback
}

func floatOr(v any, fallback float64) float64 {
	if f, ok := v.(float64); ok {
		return f
	}
	return fallback
}
