package strategy

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/campainly/campaigner/pkg/errors"
)

var (
	fencePattern  = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON recovers a JSON object embedded in free text. Markdown code
// fences are stripped first, then the span from the first '{' to the last
// '}' is parsed. It returns nil when no valid object is found.
func ExtractJSON(text string) json.RawMessage {
	candidates := make([]string, 0, 2)
	for _, m := range fencePattern.FindAllStringSubmatch(text, -1) {
		candidates = append(candidates, m[1])
	}
	candidates = append(candidates, text)

	for _, c := range candidates {
		obj := objectPattern.FindString(strings.TrimSpace(c))
		if obj == "" {
			continue
		}
		if json.Valid([]byte(obj)) {
			return json.RawMessage(obj)
		}
	}
	return nil
}

// Decode returns the strategy from a chat response. A structured schema is
// preferred; otherwise a JSON object embedded in message is tried. The
// error is a *errors.ParseError when neither yields a strategy.
func Decode(structured json.RawMessage, message string) (*Schema, error) {
	if len(structured) > 0 && !isNull(structured) {
		if s, err := parse(structured); err == nil {
			return s, nil
		}
		// a string-encoded schema is tolerated too
		var inner string
		if json.Unmarshal(structured, &inner) == nil {
			if s, err := parse(ExtractJSON(inner)); err == nil {
				return s, nil
			}
		}
	}

	raw := ExtractJSON(message)
	if raw == nil {
		return nil, errors.NewParseError("json", "strategy message", "no JSON object found", nil)
	}
	s, err := parse(raw)
	if err != nil {
		return nil, errors.WrapParse("json", "strategy message", err)
	}
	return s, nil
}

func parse(raw json.RawMessage) (*Schema, error) {
	if raw == nil {
		return nil, ErrNoCreative
	}
	var s Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
