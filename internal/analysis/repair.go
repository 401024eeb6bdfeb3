package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnparsable means the repair ladder was exhausted without producing a
// parsable JSON object.
var ErrUnparsable = errors.New("model response contained no parsable JSON object")

var (
	fenceRe         = regexp.MustCompile("```[a-zA-Z]*")
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	// A trailing comma followed by an incomplete key, a key with no value,
	// or a value cut off mid-string at end of input.
	danglingFragmentRe = regexp.MustCompile(`,\s*"(?:[^"\\]|\\.)*"?\s*(?::\s*"?(?:[^"\\{}\[\]]|\\.)*)?$`)
)

// repairStep is one rung of the ladder: a pure text transform applied on top
// of the previous rung's output.
type repairStep struct {
	name  string
	apply func(string) string
}

var repairLadder = []repairStep{
	{"strip markdown fences", stripFences},
	{"remove trailing commas", stripTrailingCommas},
	{"isolate outermost object", outermostObject},
	{"close truncated structure", closeTruncated},
}

// ExtractObject locates and parses the JSON object inside a free-form model
// response. Repair strategies are ordered from most faithful to most
// aggressive; each is attempted only when the previous parse failed, so
// well-formed output is never rewritten beyond fence stripping.
func ExtractObject(text string) (map[string]any, error) {
	cleaned := text
	for _, step := range repairLadder {
		cleaned = step.apply(cleaned)
		var obj map[string]any
		if err := json.Unmarshal([]byte(cleaned), &obj); err == nil {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("%w (preview: %q)", ErrUnparsable, preview(text, 120))
}

func stripFences(s string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(s, ""))
}

func stripTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// outermostObject cuts the substring from the first '{' to the last '}',
// dropping prose commentary around the JSON. No-op when either is missing.
func outermostObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return s
	}
	return s[start : end+1]
}

// closeTruncated assumes the generation was cut off mid-structure: it strips
// a dangling trailing fragment, then appends the missing closers. Brackets
// are appended before braces; both land at the very end, so relative order
// between the two kinds does not affect parseability of model output shaped
// as arrays-inside-objects.
func closeTruncated(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	s = danglingFragmentRe.ReplaceAllString(s, "")

	openBraces := strings.Count(s, "{") - strings.Count(s, "}")
	openBrackets := strings.Count(s, "[") - strings.Count(s, "]")

	if openBrackets > 0 {
		s += strings.Repeat("]", openBrackets)
	}
	if openBraces > 0 {
		s += strings.Repeat("}", openBraces)
	}
	return s
}

func preview(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
