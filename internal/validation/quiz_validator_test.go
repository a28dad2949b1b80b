package validation

import (
	"fmt"
	"strings"
	"testing"

	"wikiquiz/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuiz(mode domain.Difficulty) *domain.QuizOutput {
	mix := mode.Distribution()
	levels := make([]domain.Difficulty, 0, domain.QuestionsPerQuiz)
	for i := 0; i < mix.Easy; i++ {
		levels = append(levels, domain.DifficultyEasy)
	}
	for i := 0; i < mix.Medium; i++ {
		levels = append(levels, domain.DifficultyMedium)
	}
	for i := 0; i < mix.Hard; i++ {
		levels = append(levels, domain.DifficultyHard)
	}

	questions := make([]domain.Question, 0, len(levels))
	for i, level := range levels {
		questions = append(questions, domain.Question{
			Question:    fmt.Sprintf("Question %d?", i+1),
			Options:     []string{"A", "B", "C", "D"},
			Answer:      "B",
			Difficulty:  level,
			Explanation: "Because B.",
		})
	}
	return &domain.QuizOutput{
		Summary:       "A short summary.",
		KeyEntities:   domain.KeyEntities{People: []string{"Ada Lovelace"}},
		Sections:      []string{"Early Life"},
		Questions:     questions,
		RelatedTopics: []string{"Charles Babbage"},
	}
}

func TestQuizValidator_ValidQuizzes(t *testing.T) {
	v := NewQuizValidator(5)
	for _, mode := range []domain.Difficulty{domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard} {
		t.Run(string(mode), func(t *testing.T) {
			assert.NoError(t, v.Validate(validQuiz(mode), mode))
		})
	}
}

func TestQuizValidator_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *domain.QuizOutput)
		want   string
	}{
		{"seven questions", func(q *domain.QuizOutput) { q.Questions = q.Questions[:7] }, "expected 8 questions, got 7"},
		{"missing question text", func(q *domain.QuizOutput) { q.Questions[0].Question = " " }, "question 1: question text is required"},
		{"missing explanation", func(q *domain.QuizOutput) { q.Questions[2].Explanation = "" }, "question 3: explanation is required"},
		{"three options", func(q *domain.QuizOutput) { q.Questions[1].Options = []string{"A", "B", "C"} }, "question 2: expected 4 options, got 3"},
		{"answer not an option", func(q *domain.QuizOutput) { q.Questions[3].Answer = "E" }, `question 4: answer "E" is not among the options`},
		{"unknown difficulty", func(q *domain.QuizOutput) { q.Questions[0].Difficulty = "expert" }, `question 1: difficulty "expert" must be easy, medium or hard`},
		{"wrong distribution", func(q *domain.QuizOutput) { q.Questions[0].Difficulty = domain.DifficultyHard }, "difficulty distribution"},
		{"too many people", func(q *domain.QuizOutput) {
			q.KeyEntities.People = []string{"a", "b", "c", "d", "e", "f"}
		}, "key_entities.people has 6 entries, max 5"},
		{"no related topics", func(q *domain.QuizOutput) { q.RelatedTopics = nil }, "related_topics must have between 1 and 3 entries, got 0"},
		{"four related topics", func(q *domain.QuizOutput) {
			q.RelatedTopics = []string{"a", "b", "c", "d"}
		}, "related_topics must have between 1 and 3 entries, got 4"},
		{"empty summary", func(q *domain.QuizOutput) { q.Summary = "" }, "summary is required"},
	}

	v := NewQuizValidator(5)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuiz(domain.DifficultyMedium)
			tt.mutate(q)

			err := v.Validate(q, domain.DifficultyMedium)
			require.Error(t, err)
			assert.True(t, domain.HasCode(err, domain.CodeSchemaViolation))

			violations := v.Violations(q, domain.DifficultyMedium)
			found := false
			for _, msg := range violations {
				if strings.HasPrefix(msg, tt.want) {
					found = true
				}
			}
			assert.True(t, found, "violations %v should contain %q", violations, tt.want)
		})
	}
}

func TestQuizValidator_ModeMismatch(t *testing.T) {
	v := NewQuizValidator(5)
	err := v.Validate(validQuiz(domain.DifficultyEasy), domain.DifficultyHard)
	require.Error(t, err)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	violations, ok := domainErr.Context["violations"].([]string)
	require.True(t, ok)
	assert.Len(t, violations, 1)
}

func TestQuizValidator_NilQuiz(t *testing.T) {
	err := NewQuizValidator(5).Validate(nil, domain.DifficultyEasy)
	assert.True(t, domain.HasCode(err, domain.CodeSchemaViolation))
}

func TestQuizValidator_IsPure(t *testing.T) {
	q := validQuiz(domain.DifficultyMedium)
	q.Questions = q.Questions[:5]
	before := *q

	_ = NewQuizValidator(5).Validate(q, domain.DifficultyMedium)
	assert.Equal(t, before, *q)
	assert.Len(t, q.Questions, 5)
}
