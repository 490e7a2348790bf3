// Package genai turns study topics and content into summaries, flashcards,
// and recommendations by prompting a remote generative model, with structured
// output extraction and offline fallbacks when the model misbehaves.
package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kvianAR/Mindmate/internal/models"
)

const (
	// DefaultDeckSize is the card count used when a request does not specify one.
	DefaultDeckSize = 5
	// MaxDeckSize bounds a single generation request.
	MaxDeckSize = 20

	maxRecommendations = 5
)

// Pipeline orchestrates prompt construction, the remote call, and the
// extraction/fallback cascade. The Generator is injected so tests can
// substitute a double.
type Pipeline struct {
	gen Generator
	log *slog.Logger
}

// NewPipeline creates a Pipeline around the given Generator.
func NewPipeline(gen Generator, log *slog.Logger) *Pipeline {
	return &Pipeline{gen: gen, log: log}
}

// Summarize produces a study summary for the topic and content. The model's
// text is returned verbatim; a remote failure surfaces as a GenerationError.
func (p *Pipeline) Summarize(ctx context.Context, topic, content string) (string, error) {
	text, err := p.gen.GenerateText(ctx, summaryPrompt(topic, content))
	if err != nil {
		return "", &GenerationError{Op: "summary", Err: err}
	}
	return text, nil
}

// GenerateFlashcards produces flashcards from note content. Extraction
// cascades from JSON array parsing to the lenient heuristic parser to a
// single placeholder card; only a remote call failure is an error.
func (p *Pipeline) GenerateFlashcards(ctx context.Context, topic, content string) ([]Card, error) {
	text, err := p.gen.GenerateText(ctx, flashcardsPrompt(topic, content))
	if err != nil {
		return nil, &GenerationError{Op: "flashcards", Err: err}
	}

	if cards, ok := p.cardsFromJSON(text); ok {
		return cards, nil
	}

	cards := parseHeuristic(text, false)
	if len(cards) == 0 {
		cards = []Card{{Front: "Question", Back: "Answer"}}
	}
	return cards, nil
}

// GenerateFlashcardsFromTopic produces up to count flashcards for a bare
// topic at the given difficulty. Quota, rate-limit, and timeout failures are
// recovered from the static fallback table; any other remote failure is a
// GenerationError.
func (p *Pipeline) GenerateFlashcardsFromTopic(ctx context.Context, topic string, count int, difficulty string) ([]Card, error) {
	if count <= 0 {
		count = DefaultDeckSize
	}
	if count > MaxDeckSize {
		count = MaxDeckSize
	}

	text, err := p.gen.GenerateText(ctx, topicFlashcardsPrompt(topic, count, difficulty))
	if err != nil {
		if IsTransient(err) {
			p.log.Warn("model unavailable, serving fallback flashcards",
				"topic", topic, "error", err.Error())
			return FallbackCards(topic, count), nil
		}
		return nil, &GenerationError{Op: "flashcards from topic", Err: err}
	}

	if cards, ok := p.cardsFromJSON(text); ok {
		if len(cards) > count {
			cards = cards[:count]
		}
		return cards, nil
	}

	// Strict heuristic: only complete cards count here.
	cards := parseHeuristic(text, true)
	switch {
	case len(cards) >= count:
		return cards[:count], nil
	case len(cards) > 0:
		return cards, nil
	default:
		return placeholderCards(topic, count), nil
	}
}

// GenerateRecommendations asks the model for next study topics based on note
// topics and recent sessions. It never fails visibly: any remote failure
// yields an empty list.
func (p *Pipeline) GenerateRecommendations(ctx context.Context, notes []models.Note, sessions []models.StudySession) []string {
	topics := distinctTopics(notes)
	recent := recentSessionTopics(sessions, 10)

	text, err := p.gen.GenerateText(ctx, recommendationsPrompt(topics, recent))
	if err != nil {
		p.log.Warn("recommendation generation failed", "error", err.Error())
		return []string{}
	}

	return splitLines(text, maxRecommendations)
}

// cardsFromJSON attempts the structured extraction path, logging the two
// distinct failure modes separately.
func (p *Pipeline) cardsFromJSON(text string) ([]Card, bool) {
	raw, err := extractJSONArray(text)
	if err != nil {
		if errors.Is(err, ErrNoArray) {
			p.log.Debug("no JSON array in model output, trying heuristic parser")
		} else {
			p.log.Debug("unterminated JSON array in model output, trying heuristic parser")
		}
		return nil, false
	}

	cards, err := decodeCards(raw)
	if err != nil {
		p.log.Debug("malformed card array in model output, trying heuristic parser",
			"error", err.Error())
		return nil, false
	}
	return cards, true
}

func placeholderCards(topic string, count int) []Card {
	if count > 3 {
		count = 3
	}
	cards := make([]Card, count)
	for i := range cards {
		cards[i] = Card{
			Front: fmt.Sprintf("Study question %d about %s", i+1, topic),
			Back:  fmt.Sprintf("This is a study answer about %s. Review your materials for more detailed information.", topic),
		}
	}
	return cards
}

// distinctTopics returns non-empty note topics in first-encounter order.
func distinctTopics(notes []models.Note) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, n := range notes {
		if n.Topic == "" || seen[n.Topic] {
			continue
		}
		seen[n.Topic] = true
		topics = append(topics, n.Topic)
	}
	return topics
}

func recentSessionTopics(sessions []models.StudySession, limit int) []string {
	var topics []string
	for _, s := range sessions {
		if len(topics) == limit {
			break
		}
		if s.Topic != "" {
			topics = append(topics, s.Topic)
		}
	}
	return topics
}

func splitLines(text string, limit int) []string {
	lines := []string{}
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
			if len(lines) == limit {
				break
			}
		}
	}
	return lines
}
