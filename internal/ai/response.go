package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Shape names the provider response layout a plan was extracted from.
type Shape string

const (
	ShapeText             Shape = "text"              // {"text": "..."}
	ShapeOutputContent    Shape = "output_content"    // {"output":[{"content":[{"text": "..."}]}]}
	ShapeCandidateContent Shape = "candidate_content" // {"candidates":[{"content":[{"text": "..."}]}]}
	ShapeCandidateParts   Shape = "candidate_parts"   // {"candidates":[{"content":{"parts":[{"text": "..."}]}}]}
	ShapeCandidateText    Shape = "candidate_text"    // {"candidates":[{"text": "..."}]}
	ShapeUnrecognized     Shape = "unrecognized"
)

// ErrMalformedResponse means the provider body was not JSON at all.
var ErrMalformedResponse = errors.New("malformed provider response")

// Normalized is a provider response reduced to plan text.
type Normalized struct {
	Shape Shape
	Text  string
}

type envelope struct {
	Text       json.RawMessage `json:"text"`
	Output     json.RawMessage `json:"output"`
	Candidates json.RawMessage `json:"candidates"`
}

type extractor struct {
	shape   Shape
	extract func(envelope) string
}

// checked in order; first non-blank text wins
var extractors = []extractor{
	{ShapeText, func(e envelope) string {
		return textOf(e.Text)
	}},
	{ShapeOutputContent, func(e envelope) string {
		return textOf(field(first(field(first(e.Output), "content")), "text"))
	}},
	{ShapeCandidateContent, func(e envelope) string {
		return textOf(field(first(field(first(e.Candidates), "content")), "text"))
	}},
	{ShapeCandidateParts, func(e envelope) string {
		return joinParts(field(field(first(e.Candidates), "content"), "parts"))
	}},
	{ShapeCandidateText, func(e envelope) string {
		return textOf(field(first(e.Candidates), "text"))
	}},
}

// Normalize extracts plan text from a provider response. Valid JSON that
// matches no known shape comes back as ShapeUnrecognized with the indented
// document as text; only non-JSON input is an error.
func Normalize(raw json.RawMessage) (Normalized, error) {
	if !json.Valid(raw) {
		return Normalized{}, ErrMalformedResponse
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil {
		for _, x := range extractors {
			if text := x.extract(env); text != "" {
				return Normalized{Shape: x.shape, Text: text}, nil
			}
		}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return Normalized{}, err
	}
	return Normalized{Shape: ShapeUnrecognized, Text: buf.String()}, nil
}

func textOf(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

func first(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil || len(items) == 0 {
		return nil
	}
	return items[0]
}

func field(raw json.RawMessage, name string) json.RawMessage {
	if raw == nil {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	return obj[name]
}

// joinParts concatenates the text of every non-thought part.
func joinParts(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var parts []struct {
		Text    string `json:"text"`
		Thought bool   `json:"thought"`
	}
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}

	var b strings.Builder
	for _, p := range parts {
		if p.Thought {
			continue
		}
		b.WriteString(p.Text)
	}
	if strings.TrimSpace(b.String()) == "" {
		return ""
	}
	return b.String()
}
