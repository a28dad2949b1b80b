package quizgen

import (
	"github.com/tmc/langchaingo/prompts"
)

const quizPromptTemplate = `You are an expert educational quiz generator. Build a quiz strictly from the
Wikipedia article content below. Every question, summary sentence and entity must be
grounded in the provided text. Never invent facts, options or entities.

Article Title: {{.title}}
Article Content:
{{.content}}

Respond with ONLY one JSON object of this shape:
{
  "summary": "two or three sentences tailored to the topic",
  "key_entities": {"people": [], "organizations": [], "locations": []},
  "sections": ["short thematic section names"],
  "questions": [
    {
      "question": "question text",
      "options": ["A", "B", "C", "D"],
      "answer": "the option text that is correct",
      "difficulty": "easy | medium | hard",
      "explanation": "one concise sentence on why the answer is correct",
      "section": "thematic section this question is based on"
    }
  ],
  "related_topics": ["follow-up topic"]
}

Rules:
- Exactly {{.question_count}} questions, each with exactly {{.option_count}} distinct options.
- "answer" must be copied verbatim from that question's options.
- This is a {{.mode}} quiz: use exactly {{.easy}} easy, {{.medium}} medium and {{.hard}} hard questions.
  easy = direct facts (who, what, when, where); medium = context and simple reasoning;
  hard = analytical or indirect facts.
- At most {{.max_entities}} entries in each key_entities list, explicit mentions only, most frequent first.
- Between 1 and {{.max_related}} related_topics.
- Skip boilerplate sections such as See also, References or External links.
- No markdown and no commentary outside the JSON object.
`

const summaryPromptTemplate = `You are an expert summarizer and educator.
Read the article below and extract {{.points}} concise, factual and insightful key points.
Return them as a JSON array of strings and nothing else.

Guidelines:
- Do not repeat trivial information already in the title.
- Include only specific, verifiable facts that help a learner understand the article.
- Write each point as one short, clear sentence.

Article Title: {{.title}}
Article Content:
{{.content}}
`

func newQuizPrompt() prompts.PromptTemplate {
	return prompts.NewPromptTemplate(quizPromptTemplate, []string{
		"title", "content", "mode", "easy", "medium", "hard",
		"question_count", "option_count", "max_entities", "max_related",
	})
}

func newSummaryPrompt() prompts.PromptTemplate {
	return prompts.NewPromptTemplate(summaryPromptTemplate, []string{"title", "content", "points"})
}
