package genai

import (
	_ "embed"
	"fmt"
	"math/rand"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

type fallbackDeck struct {
	Keywords []string `yaml:"keywords"`
	Cards    []Card   `yaml:"cards"`
}

var fallbackDecks = func() []fallbackDeck {
	var table struct {
		Decks []fallbackDeck `yaml:"decks"`
	}
	if err := yaml.Unmarshal(templatesYAML, &table); err != nil {
		panic(fmt.Sprintf("invalid fallback deck table: %v", err))
	}
	return table.Decks
}()

// FallbackCards returns canned flashcards for a topic, used when the remote
// model is unavailable due to quota or rate limits. The deck is selected by
// substring keyword match against the lowercased topic; unknown topics get a
// generic set templated from the topic string. The result is shuffled and
// truncated to at most count cards.
func FallbackCards(topic string, count int) []Card {
	topicLower := strings.ToLower(topic)

	var selected []Card
	for _, deck := range fallbackDecks {
		for _, keyword := range deck.Keywords {
			if strings.Contains(topicLower, keyword) {
				selected = deck.Cards
				break
			}
		}
		if selected != nil {
			break
		}
	}
	if selected == nil {
		selected = genericFallbackCards(topic)
	}

	shuffled := make([]Card, len(selected))
	copy(shuffled, selected)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

func genericFallbackCards(topic string) []Card {
	return []Card{
		{
			Front: fmt.Sprintf("What are the key concepts in %s?", topic),
			Back:  fmt.Sprintf("The key concepts in %s include fundamental principles and important definitions that form the foundation of understanding.", topic),
		},
		{
			Front: fmt.Sprintf("Why is %s important?", topic),
			Back:  fmt.Sprintf("%s is important because it provides essential knowledge and skills that are valuable for academic and practical applications.", topic),
		},
		{
			Front: fmt.Sprintf("What are common applications of %s?", topic),
			Back:  fmt.Sprintf("Common applications of %s can be found in various fields and real-world scenarios where this knowledge is applied.", topic),
		},
		{
			Front: fmt.Sprintf("What should beginners know about %s?", topic),
			Back:  fmt.Sprintf("Beginners should focus on understanding the basic principles and building a solid foundation in %s fundamentals.", topic),
		},
		{
			Front: fmt.Sprintf("How can you improve your understanding of %s?", topic),
			Back:  "Improve your understanding through regular practice, reviewing key concepts, and applying knowledge to solve problems.",
		},
	}
}
