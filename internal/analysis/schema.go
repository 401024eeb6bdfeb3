package analysis

// Canonical rubric for a speech evaluation. Every field is guaranteed present
// after Normalize, so the display layer never branches on missing keys.

// ScoreDetail is a single sub-metric: a 1-10 score plus feedback text.
type ScoreDetail struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// CategoryScore is one of the top-level evaluation groups.
type CategoryScore struct {
	Score            int      `json:"score"`
	Feedback         string   `json:"feedback"`
	Strengths        []string `json:"strengths"`
	DevelopmentAreas []string `json:"developmentAreas"`
}

// LanguageProficiency carries the language group plus its sub-metrics.
type LanguageProficiency struct {
	Score            int         `json:"score"`
	Feedback         string      `json:"feedback"`
	Strengths        []string    `json:"strengths"`
	DevelopmentAreas []string    `json:"developmentAreas"`
	Grammar          ScoreDetail `json:"grammar"`
	Vocabulary       ScoreDetail `json:"vocabulary"`
	Fluency          ScoreDetail `json:"fluency"`
}

// Mispronunciation is one flagged word with a display timestamp ("m:ss").
type Mispronunciation struct {
	Word      string `json:"word"`
	Timestamp string `json:"timestamp"`
	Issue     string `json:"issue"`
}

// TimedFeedback is one timestamped coaching note.
type TimedFeedback struct {
	Timestamp string `json:"timestamp"`
	Feedback  string `json:"feedback"`
}

// Result is the normalized evaluation returned to the caller and persisted.
type Result struct {
	VoiceModulation     CategoryScore       `json:"voiceModulation"`
	ThoughtStructure    CategoryScore       `json:"thoughtStructure"`
	LanguageProficiency LanguageProficiency `json:"languageProficiency"`

	ProficiencyLevel string  `json:"proficiencyLevel"`
	OverallScore     int     `json:"overallScore"`
	Summary          string  `json:"summary"`
	WordCount        int     `json:"wordCount"`
	DurationSeconds  float64 `json:"durationSeconds"`
	WordsPerMinute   int     `json:"wordsPerMinute"`

	TimestampedFeedback []TimedFeedback    `json:"timestampedFeedback"`
	TopStrengths        []string           `json:"topStrengths"`
	TopDevelopmentAreas []string           `json:"topDevelopmentAreas"`
	SuggestedDrill      string             `json:"suggestedDrill"`
	Mispronunciations   []Mispronunciation `json:"mispronunciations"`

	Transcript string `json:"transcript,omitempty"`
}

// UnclearWord is a low-confidence transcription word. It enriches the
// analysis prompt and backfills the mispronunciation list when the model
// returns none of its own.
type UnclearWord struct {
	Word       string  `json:"word"`
	Start      float64 `json:"start"`
	Confidence float64 `json:"confidence"`
}

// ProficiencyLevels is the ordered label set for overall speaking skill.
var ProficiencyLevels = []string{
	"Beginner",
	"Elementary",
	"Intermediate",
	"Upper-Intermediate",
	"Advanced",
}

const (
	defaultScore    = 5
	defaultLevel    = "Intermediate"
	defaultSummary  = "Analysis completed."
	defaultFeedback = "No specific feedback was generated for this area."
)
