package analysis

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestExtractObjectPlain(t *testing.T) {
	obj, err := ExtractObject(`{"score": 7, "feedback": "good pace"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["score"] != float64(7) {
		t.Errorf("score = %v", obj["score"])
	}
}

func TestExtractObjectFencedMatchesPlain(t *testing.T) {
	plain := `{"voiceModulation": {"score": 7, "feedback": "clear"}, "summary": "ok"}`
	fenced := "```json\n" + plain + "\n```"

	a, err := ExtractObject(plain)
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	b, err := ExtractObject(fenced)
	if err != nil {
		t.Fatalf("fenced: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("fenced parse differs from plain: %v vs %v", b, a)
	}
}

func TestExtractObjectFenceWithoutLanguageTag(t *testing.T) {
	if _, err := ExtractObject("```\n{\"a\": 1}\n```"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractObjectTrailingCommas(t *testing.T) {
	obj, err := ExtractObject(`{"strengths": ["pacing", "clarity",], "score": 8,}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(obj["strengths"].([]any)) != 2 {
		t.Errorf("strengths = %v", obj["strengths"])
	}
}

func TestExtractObjectSurroundingProse(t *testing.T) {
	text := `Here is your evaluation:

{"score": 6, "feedback": "solid"}

Hope that helps!`
	obj, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["feedback"] != "solid" {
		t.Errorf("feedback = %v", obj["feedback"])
	}
}

func TestExtractObjectTruncatedMidArray(t *testing.T) {
	// Cut off with 2 unclosed ] and 1 unclosed }: the repair must append
	// exactly "]]" then "}".
	text := `{"groups": [[1, 2], [3, 4`
	obj, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	groups := obj["groups"].([]any)
	if len(groups) != 2 {
		t.Fatalf("groups = %v", groups)
	}
	if len(groups[1].([]any)) != 2 {
		t.Errorf("second group = %v", groups[1])
	}
}

func TestExtractObjectTruncatedMidString(t *testing.T) {
	text := `{"summary": "fine", "topStrengths": ["pacing", "clar`
	obj, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["summary"] != "fine" {
		t.Errorf("summary = %v", obj["summary"])
	}
}

func TestExtractObjectTruncatedDanglingKey(t *testing.T) {
	text := `{"voiceModulation": {"score": 7}, "thoughtStructure`
	obj, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := obj["voiceModulation"]; !ok {
		t.Errorf("voiceModulation lost in repair: %v", obj)
	}
}

func TestExtractObjectIdempotent(t *testing.T) {
	first, err := ExtractObject("```json\n{\"score\": 9, \"items\": [1, 2,]}\n```")
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	encoded, _ := json.Marshal(first)
	second, err := ExtractObject(string(encoded))
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repair is not idempotent: %v vs %v", first, second)
	}
}

func TestExtractObjectUnparsable(t *testing.T) {
	_, err := ExtractObject("I could not evaluate this recording, sorry.")
	if !errors.Is(err, ErrUnparsable) {
		t.Fatalf("expected ErrUnparsable, got %v", err)
	}
	if !strings.Contains(err.Error(), "could not evaluate") {
		t.Errorf("error should carry a preview of the input: %v", err)
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := map[float64]string{
		0:     "0:00",
		5.4:   "0:05",
		65:    "1:05",
		125.9: "2:05",
	}
	for in, want := range cases {
		if got := FormatTimestamp(in); got != want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", in, got, want)
		}
	}
}
