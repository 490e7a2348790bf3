package genai

import (
	"fmt"
	"strings"
)

func summaryPrompt(topic, content string) string {
	return fmt.Sprintf(`Generate a concise and comprehensive study summary for the following topic: %q. Include key concepts, important points, and main ideas. Make it well-structured and easy to understand.

Content: %s`, topic, content)
}

func flashcardsPrompt(topic, content string) string {
	return fmt.Sprintf(`Generate 5-10 flashcards for the topic: %q. For each flashcard, provide a question on the front and a detailed answer on the back. Format the response as a JSON array where each object has "front" and "back" properties. Content: %s`, topic, content)
}

// difficultyModifier selects prompt framing for a difficulty level.
// Unknown values get the medium framing.
func difficultyModifier(difficulty string) string {
	switch difficulty {
	case "easy":
		return "Focus on basic concepts and fundamental definitions. Keep questions simple and straightforward."
	case "hard":
		return "Include advanced concepts, critical thinking questions, and complex scenarios. Make questions challenging."
	default:
		return "Include a mix of basic and intermediate concepts. Make questions clear but not too simple."
	}
}

func topicFlashcardsPrompt(topic string, count int, difficulty string) string {
	return fmt.Sprintf(`Generate exactly %d study flashcards for the topic: %q. %s

Create engaging and educational flashcards that help students learn effectively. For each flashcard:
- Front: Clear, concise question or prompt
- Back: Detailed, accurate answer with explanations

Format your response as a valid JSON array where each object has exactly "front" and "back" properties.

Example format:
[
  {"front": "What is...?", "back": "The answer is... because..."},
  {"front": "How does...?", "back": "It works by... which means..."}
]

Make sure the questions are diverse, covering different aspects of %s.`, count, topic, difficultyModifier(difficulty), topic)
}

func recommendationsPrompt(topics, recentTopics []string) string {
	return fmt.Sprintf(`Based on the following study history, suggest 3-5 topics or areas the student should focus on next. Be specific and actionable.

Topics studied: %s
Recent sessions: %s

Provide recommendations as a simple list, one per line.`,
		strings.Join(topics, ", "), strings.Join(recentTopics, ", "))
}
