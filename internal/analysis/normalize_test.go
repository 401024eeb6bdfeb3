package analysis

import (
	"testing"
)

func TestNormalizeEmptyObject(t *testing.T) {
	res := Normalize(map[string]any{}, Meta{})

	for name, score := range map[string]int{
		"voiceModulation":     res.VoiceModulation.Score,
		"thoughtStructure":    res.ThoughtStructure.Score,
		"languageProficiency": res.LanguageProficiency.Score,
		"grammar":             res.LanguageProficiency.Grammar.Score,
		"vocabulary":          res.LanguageProficiency.Vocabulary.Score,
		"fluency":             res.LanguageProficiency.Fluency.Score,
		"overall":             res.OverallScore,
	} {
		if score < 1 || score > 10 {
			t.Errorf("%s score = %d, want within [1,10]", name, score)
		}
	}

	if res.ProficiencyLevel != "Intermediate" {
		t.Errorf("proficiency level = %q", res.ProficiencyLevel)
	}
	if res.Summary == "" {
		t.Error("summary should be defaulted, not empty")
	}
	if res.VoiceModulation.Feedback == "" {
		t.Error("feedback should be defaulted, not empty")
	}
	if res.TopStrengths == nil || res.Mispronunciations == nil {
		t.Error("lists should be initialized, not nil")
	}
}

func TestNormalizeMissingGroupSynthesized(t *testing.T) {
	raw := map[string]any{
		"voiceModulation":     map[string]any{"score": float64(7), "feedback": "strong projection"},
		"languageProficiency": map[string]any{"score": float64(8), "feedback": "rich vocabulary"},
		// thoughtStructure absent
	}
	res := Normalize(raw, Meta{})

	if res.VoiceModulation.Score != 7 || res.VoiceModulation.Feedback != "strong projection" {
		t.Errorf("voiceModulation = %+v", res.VoiceModulation)
	}
	if res.ThoughtStructure.Score != 5 {
		t.Errorf("absent group score = %d, want neutral 5", res.ThoughtStructure.Score)
	}
	if res.ThoughtStructure.Feedback == "" {
		t.Error("absent group should get placeholder feedback")
	}
}

func TestNormalizeNonNumericScore(t *testing.T) {
	raw := map[string]any{
		"voiceModulation": map[string]any{"score": "excellent", "feedback": "nice"},
	}
	res := Normalize(raw, Meta{})
	if res.VoiceModulation.Score != 5 {
		t.Errorf("non-numeric score = %d, want neutral 5", res.VoiceModulation.Score)
	}
}

func TestNormalizeScoreClamping(t *testing.T) {
	raw := map[string]any{
		"voiceModulation":  map[string]any{"score": float64(42)},
		"thoughtStructure": map[string]any{"score": float64(-3)},
	}
	res := Normalize(raw, Meta{})
	if res.VoiceModulation.Score != 10 {
		t.Errorf("overshoot clamped to %d, want 10", res.VoiceModulation.Score)
	}
	if res.ThoughtStructure.Score != 1 {
		t.Errorf("undershoot clamped to %d, want 1", res.ThoughtStructure.Score)
	}
}

func TestNormalizeStringScoreCoerced(t *testing.T) {
	raw := map[string]any{
		"voiceModulation": map[string]any{"score": "8"},
	}
	res := Normalize(raw, Meta{})
	if res.VoiceModulation.Score != 8 {
		t.Errorf("string score = %d, want 8", res.VoiceModulation.Score)
	}
}

func TestNormalizeTranscriptionMetaWins(t *testing.T) {
	raw := map[string]any{
		"wordCount":       float64(999), // model guess, must lose
		"durationSeconds": float64(1),
	}
	res := Normalize(raw, Meta{WordCount: 150, DurationSeconds: 60})

	if res.WordCount != 150 {
		t.Errorf("wordCount = %d, want 150 from transcription", res.WordCount)
	}
	if res.DurationSeconds != 60 {
		t.Errorf("duration = %v, want 60 from transcription", res.DurationSeconds)
	}
	if res.WordsPerMinute != 150 {
		t.Errorf("wordsPerMinute = %d, want round(150/60*60) = 150", res.WordsPerMinute)
	}
}

func TestNormalizeKeepsModelWPM(t *testing.T) {
	raw := map[string]any{"wordsPerMinute": float64(120)}
	res := Normalize(raw, Meta{WordCount: 150, DurationSeconds: 60})
	if res.WordsPerMinute != 120 {
		t.Errorf("already-present wordsPerMinute overwritten: %d", res.WordsPerMinute)
	}
}

func TestNormalizeSynthesizedMispronunciations(t *testing.T) {
	unclear := []UnclearWord{
		{Word: "arbitrage", Start: 65, Confidence: 0.42},
		{Word: "liquidity", Start: 3, Confidence: 0.55},
		{Word: "a", Start: 1, Confidence: 0.1},
		{Word: "b", Start: 1, Confidence: 0.1},
		{Word: "c", Start: 1, Confidence: 0.1},
		{Word: "d", Start: 1, Confidence: 0.1},
		{Word: "e", Start: 1, Confidence: 0.1},
	}
	res := Normalize(map[string]any{}, Meta{Unclear: unclear})

	if len(res.Mispronunciations) != 5 {
		t.Fatalf("synthesized %d entries, want cap of 5", len(res.Mispronunciations))
	}
	first := res.Mispronunciations[0]
	if first.Word != "arbitrage" || first.Timestamp != "1:05" {
		t.Errorf("first entry = %+v", first)
	}
	if first.Issue == "" {
		t.Error("issue template should cite the confidence")
	}
}

func TestNormalizeModelMispronunciationsKept(t *testing.T) {
	raw := map[string]any{
		"mispronunciations": []any{
			map[string]any{"word": "rural", "timestamp": "0:12", "issue": "vowel blend"},
		},
	}
	res := Normalize(raw, Meta{Unclear: []UnclearWord{{Word: "other", Start: 2, Confidence: 0.3}}})

	if len(res.Mispronunciations) != 1 || res.Mispronunciations[0].Word != "rural" {
		t.Errorf("model list should win over synthesis: %+v", res.Mispronunciations)
	}
}

func TestNormalizeTimestampedFeedback(t *testing.T) {
	raw := map[string]any{
		"timestampedFeedback": []any{
			map[string]any{"timestamp": "0:30", "feedback": "pace dropped here"},
			map[string]any{"timestamp": "1:10"}, // no feedback text, dropped
			"not an object",
		},
	}
	res := Normalize(raw, Meta{})
	if len(res.TimestampedFeedback) != 1 {
		t.Fatalf("kept %d entries, want 1", len(res.TimestampedFeedback))
	}
	if res.TimestampedFeedback[0].Feedback != "pace dropped here" {
		t.Errorf("entry = %+v", res.TimestampedFeedback[0])
	}
}

func TestNormalizeOverallFromGroups(t *testing.T) {
	raw := map[string]any{
		"voiceModulation":     map[string]any{"score": float64(6)},
		"thoughtStructure":    map[string]any{"score": float64(8)},
		"languageProficiency": map[string]any{"score": float64(7)},
	}
	res := Normalize(raw, Meta{})
	if res.OverallScore != 7 {
		t.Errorf("overall = %d, want mean 7", res.OverallScore)
	}
}
