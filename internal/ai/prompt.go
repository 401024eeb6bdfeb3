package ai

import (
	"fmt"
	"strings"

	"github.com/darthvader-ux740/speakconfident/internal/analysis"
)

// BuildPrompt builds the complete prompt pair for the evaluation call
func BuildPrompt(input EvalInput) (string, string) {
	systemPrompt := `You are an expert speech coach evaluating a short spoken presentation.
You must be precise, neutral and evidence-based.
ONLY use information present in the transcript.
Return ONE valid JSON object and nothing else.
ALL fields are REQUIRED, even if some arrays are empty.
Scores are integers from 1 to 10.`

	var unclearSection strings.Builder
	if len(input.Unclear) > 0 {
		unclearSection.WriteString("\nWords the transcription engine was unsure about (possible mispronunciations):\n")
		for _, w := range input.Unclear {
			unclearSection.WriteString(fmt.Sprintf("- %q at %s (confidence %d%%)\n",
				w.Word, analysis.FormatTimestamp(w.Start), int(w.Confidence*100)))
		}
	}

	userPrompt := fmt.Sprintf(`Transcript of the speech:
"""
%s
"""

Clip duration: %.1f seconds. Word count: %d.
%s
Evaluate the speech and return JSON with EXACTLY this shape:

{
  "voiceModulation": {"score": 7, "feedback": "...", "strengths": ["..."], "developmentAreas": ["..."]},
  "thoughtStructure": {"score": 7, "feedback": "...", "strengths": ["..."], "developmentAreas": ["..."]},
  "languageProficiency": {
    "score": 7, "feedback": "...", "strengths": ["..."], "developmentAreas": ["..."],
    "grammar": {"score": 7, "feedback": "..."},
    "vocabulary": {"score": 7, "feedback": "..."},
    "fluency": {"score": 7, "feedback": "..."}
  },
  "proficiencyLevel": "Beginner | Elementary | Intermediate | Upper-Intermediate | Advanced",
  "overallScore": 7,
  "summary": "3-5 sentence overall assessment",
  "timestampedFeedback": [{"timestamp": "0:30", "feedback": "..."}],
  "topStrengths": ["...", "...", "..."],
  "topDevelopmentAreas": ["...", "...", "..."],
  "suggestedDrill": "one concrete practice exercise",
  "mispronunciations": [{"word": "...", "timestamp": "0:12", "issue": "..."}]
}

RULES:
- voiceModulation covers pace, pauses, pitch variety and emphasis.
- thoughtStructure covers opening, logical flow, transitions and closing.
- languageProficiency covers grammar, vocabulary range and fluency.
- timestampedFeedback: at most 5 entries tied to specific moments.
- mispronunciations: only words you have evidence for; empty array otherwise.
- Every feedback string must be specific to THIS speech, not generic advice.`,
		input.Transcript, input.DurationSeconds, input.WordCount, unclearSection.String())

	return systemPrompt, userPrompt
}
