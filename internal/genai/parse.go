package genai

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonschema"
)

// Card is one generated flashcard.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Distinct extraction failures. "No array in the output" and "an array was
// found but it is not valid card JSON" trigger the same heuristic fallback
// but are logged separately.
var (
	ErrNoArray        = errors.New("no JSON array found in model output")
	ErrMalformedArray = errors.New("model output contains a malformed JSON array")
)

// cardArraySchema validates that an extracted JSON array really is a list of
// {front, back} string pairs before it is accepted.
var cardArraySchema = func() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(`{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["front", "back"],
			"properties": {
				"front": {"type": "string"},
				"back": {"type": "string"}
			}
		}
	}`))
	if err != nil {
		panic(fmt.Sprintf("invalid card array schema: %v", err))
	}
	return schema
}()

// extractJSONArray scans model output for the first top-level JSON array and
// returns it verbatim. The scan walks three states: seeking the opening
// bracket, consuming the array while tracking nesting and string literals,
// and done once the matching bracket closes.
func extractJSONArray(text string) (string, error) {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return "", ErrNoArray
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", ErrMalformedArray
}

// decodeCards parses an extracted JSON array and validates it against the
// card schema. Any invalid payload is reported as malformed.
func decodeCards(raw string) ([]Card, error) {
	var generic interface{}
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedArray, err)
	}

	result := cardArraySchema.Validate(generic)
	if !result.IsValid() {
		var messages []string
		for field, evalErr := range result.Errors {
			messages = append(messages, fmt.Sprintf("%s: %s", field, evalErr.Error()))
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformedArray, strings.Join(messages, "; "))
	}

	var cards []Card
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedArray, err)
	}
	return cards, nil
}

var (
	frontMarker = regexp.MustCompile(`(?i)^(q|question|front)[:\-]?\s*`)
	backMarker  = regexp.MustCompile(`(?i)^(a|answer|back)[:\-]?\s*`)
)

// parseHeuristic is the line-oriented fallback extractor used when the model
// did not return usable JSON. A front marker starts a new card, a back marker
// fills the answer side, and any other non-empty line is appended to
// whichever side is currently open.
//
// In strict mode an in-progress card is only flushed once both sides are
// non-empty; in lenient mode a non-empty front suffices.
func parseHeuristic(text string, strict bool) []Card {
	var cards []Card
	var current Card

	flushable := func() bool {
		if strict {
			return current.Front != "" && current.Back != ""
		}
		return current.Front != ""
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch {
		case frontMarker.MatchString(trimmed):
			if flushable() {
				cards = append(cards, current)
			}
			current = Card{Front: strings.TrimSpace(frontMarker.ReplaceAllString(trimmed, ""))}
		case backMarker.MatchString(trimmed):
			current.Back = strings.TrimSpace(backMarker.ReplaceAllString(trimmed, ""))
		case current.Front != "" && current.Back == "":
			current.Front += " " + trimmed
		case current.Front != "":
			current.Back += " " + trimmed
		}
	}

	if flushable() {
		cards = append(cards, current)
	}
	return cards
}
