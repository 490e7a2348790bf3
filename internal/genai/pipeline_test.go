package genai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/kvianAR/Mindmate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator is a Generator test double returning a fixed response or error.
type fakeGenerator struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func newTestPipeline(gen *fakeGenerator) *Pipeline {
	return NewPipeline(gen, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSummarizeReturnsTextVerbatim(t *testing.T) {
	gen := &fakeGenerator{response: "  A summary with whitespace.  "}
	p := newTestPipeline(gen)

	got, err := p.Summarize(context.Background(), "calculus", "derivatives and limits")
	require.NoError(t, err)
	assert.Equal(t, "  A summary with whitespace.  ", got)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "calculus")
	assert.Contains(t, gen.prompts[0], "derivatives and limits")
}

func TestSummarizePropagatesGenerationError(t *testing.T) {
	p := newTestPipeline(&fakeGenerator{err: errors.New("connection refused")})

	_, err := p.Summarize(context.Background(), "x", "y")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Contains(t, genErr.Error(), "summary")
}

func TestGenerateFlashcardsJSONPath(t *testing.T) {
	gen := &fakeGenerator{response: `Sure! [{"front":"What is X?","back":"X is Y."}]`}
	p := newTestPipeline(gen)

	cards, err := p.GenerateFlashcards(context.Background(), "topic", "content")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, Card{Front: "What is X?", Back: "X is Y."}, cards[0])
}

func TestGenerateFlashcardsHeuristicPath(t *testing.T) {
	gen := &fakeGenerator{response: "Q: What is X?\nA: X is Y."}
	p := newTestPipeline(gen)

	cards, err := p.GenerateFlashcards(context.Background(), "topic", "content")
	require.NoError(t, err)
	assert.Equal(t, []Card{{Front: "What is X?", Back: "X is Y."}}, cards)
}

func TestGenerateFlashcardsPlaceholderWhenNothingParses(t *testing.T) {
	gen := &fakeGenerator{response: "I am sorry, I cannot help with that."}
	p := newTestPipeline(gen)

	cards, err := p.GenerateFlashcards(context.Background(), "topic", "content")
	require.NoError(t, err)
	assert.Equal(t, []Card{{Front: "Question", Back: "Answer"}}, cards)
}

func TestGenerateFlashcardsRemoteErrorPropagates(t *testing.T) {
	p := newTestPipeline(&fakeGenerator{err: errors.New("boom")})

	_, err := p.GenerateFlashcards(context.Background(), "topic", "content")
	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func bigCardArray(n int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"front":"q%d","back":"a%d"}`, i, i)
	}
	return "[" + strings.Join(items, ",") + "]"
}

func TestFromTopicTruncatesJSONToCount(t *testing.T) {
	gen := &fakeGenerator{response: bigCardArray(12)}
	p := newTestPipeline(gen)

	cards, err := p.GenerateFlashcardsFromTopic(context.Background(), "math", 7, "medium")
	require.NoError(t, err)
	assert.Len(t, cards, 7)
}

func TestFromTopicKeepsShortHeuristicResult(t *testing.T) {
	gen := &fakeGenerator{response: "Q: only one?\nA: yes."}
	p := newTestPipeline(gen)

	cards, err := p.GenerateFlashcardsFromTopic(context.Background(), "math", 5, "medium")
	require.NoError(t, err)
	// Fewer than requested is returned as-is, no padding
	assert.Equal(t, []Card{{Front: "only one?", Back: "yes."}}, cards)
}

func TestFromTopicPlaceholdersWhenNothingParses(t *testing.T) {
	gen := &fakeGenerator{response: "no cards here"}
	p := newTestPipeline(gen)

	cards, err := p.GenerateFlashcardsFromTopic(context.Background(), "botany", 5, "easy")
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "Study question 1 about botany", cards[0].Front)
	assert.Contains(t, cards[0].Back, "botany")
}

func TestFromTopicQuotaErrorServesFallback(t *testing.T) {
	for _, msg := range []string{
		"model API returned status 429: rate limited",
		"quota exceeded for project",
		"Too Many Requests",
	} {
		t.Run(msg, func(t *testing.T) {
			p := newTestPipeline(&fakeGenerator{err: errors.New(msg)})

			cards, err := p.GenerateFlashcardsFromTopic(context.Background(), "algebra", 4, "medium")
			require.NoError(t, err)
			require.NotEmpty(t, cards)
			assert.LessOrEqual(t, len(cards), 4)

			// Every card must come from the static deck table
			for _, c := range cards {
				assert.True(t, isStaticDeckCard(c), "unexpected card %+v", c)
			}
		})
	}
}

func isStaticDeckCard(card Card) bool {
	for _, deck := range fallbackDecks {
		for _, c := range deck.Cards {
			if c == card {
				return true
			}
		}
	}
	return false
}

func TestFromTopicTimeoutServesFallback(t *testing.T) {
	p := newTestPipeline(&fakeGenerator{err: context.DeadlineExceeded})

	cards, err := p.GenerateFlashcardsFromTopic(context.Background(), "history", 3, "hard")
	require.NoError(t, err)
	assert.NotEmpty(t, cards)
}

func TestFromTopicNonQuotaErrorPropagates(t *testing.T) {
	p := newTestPipeline(&fakeGenerator{err: errors.New("invalid API key")})

	_, err := p.GenerateFlashcardsFromTopic(context.Background(), "math", 5, "medium")
	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestFromTopicDifficultyShapesPrompt(t *testing.T) {
	gen := &fakeGenerator{response: bigCardArray(5)}
	p := newTestPipeline(gen)

	_, err := p.GenerateFlashcardsFromTopic(context.Background(), "math", 5, "hard")
	require.NoError(t, err)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "critical thinking")
	assert.Contains(t, gen.prompts[0], "exactly 5")
}

func TestGenerateRecommendations(t *testing.T) {
	gen := &fakeGenerator{response: "Review limits\n\n  Practice integrals  \nRead chapter 4\nLine 4\nLine 5\nLine 6"}
	p := newTestPipeline(gen)

	notes := []models.Note{
		{Topic: "calculus"}, {Topic: "calculus"}, {Topic: "algebra"}, {Topic: ""},
	}
	sessions := []models.StudySession{{Topic: "calculus"}, {Topic: ""}}

	recs := p.GenerateRecommendations(context.Background(), notes, sessions)

	// Blank lines dropped, whitespace trimmed, capped at five
	assert.Equal(t, []string{"Review limits", "Practice integrals", "Read chapter 4", "Line 4", "Line 5"}, recs)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "calculus, algebra")
}

func TestGenerateRecommendationsNeverFails(t *testing.T) {
	p := newTestPipeline(&fakeGenerator{err: errors.New("model exploded")})

	recs := p.GenerateRecommendations(context.Background(), nil, nil)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}
