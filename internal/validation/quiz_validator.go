package validation

import (
	"fmt"
	"strings"

	"wikiquiz/internal/domain"
)

// QuizValidator checks a generated quiz against the QuizOutput contract.
// It never repairs the payload.
type QuizValidator struct {
	maxEntities int
}

// NewQuizValidator returns a validator capping each entity list at maxEntities.
func NewQuizValidator(maxEntities int) *QuizValidator {
	return &QuizValidator{maxEntities: maxEntities}
}

// Validate returns a SchemaViolation error listing every problem found in q
// for a quiz requested in the given mode, or nil.
func (v *QuizValidator) Validate(q *domain.QuizOutput, mode domain.Difficulty) error {
	if violations := v.Violations(q, mode); len(violations) > 0 {
		return domain.NewSchemaViolationError(violations)
	}
	return nil
}

// Violations lists the contract violations of q in a stable order.
func (v *QuizValidator) Violations(q *domain.QuizOutput, mode domain.Difficulty) []string {
	if q == nil {
		return []string{"quiz payload is empty"}
	}

	var violations []string
	add := func(format string, args ...interface{}) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	if strings.TrimSpace(q.Summary) == "" {
		add("summary is required")
	}

	if len(q.Questions) != domain.QuestionsPerQuiz {
		add("expected %d questions, got %d", domain.QuestionsPerQuiz, len(q.Questions))
	}

	difficultiesValid := true
	for i, question := range q.Questions {
		n := i + 1
		if strings.TrimSpace(question.Question) == "" {
			add("question %d: question text is required", n)
		}
		if strings.TrimSpace(question.Explanation) == "" {
			add("question %d: explanation is required", n)
		}
		if len(question.Options) != domain.OptionsPerQuestion {
			add("question %d: expected %d options, got %d", n, domain.OptionsPerQuestion, len(question.Options))
		}
		for j, opt := range question.Options {
			if strings.TrimSpace(opt) == "" {
				add("question %d: option %d is empty", n, j+1)
			}
		}
		if strings.TrimSpace(question.Answer) == "" {
			add("question %d: answer is required", n)
		} else if !contains(question.Options, question.Answer) {
			add("question %d: answer %q is not among the options", n, question.Answer)
		}
		if question.Difficulty == "" {
			add("question %d: difficulty is required", n)
			difficultiesValid = false
		} else if !question.Difficulty.Valid() {
			add("question %d: difficulty %q must be easy, medium or hard", n, question.Difficulty)
			difficultiesValid = false
		}
	}

	if difficultiesValid && len(q.Questions) == domain.QuestionsPerQuiz && mode.Valid() {
		want := mode.Distribution()
		if got := q.CountByDifficulty(); got != want {
			add("difficulty distribution %s does not match %s mode (%s)", got, mode, want)
		}
	}

	// LLMQuizGenerator already truncates entity lists; this guards quizzes
	// from any other source, such as stored payloads or other generators.
	if v.maxEntities > 0 {
		entityLists := []struct {
			name string
			list []string
		}{
			{"people", q.KeyEntities.People},
			{"organizations", q.KeyEntities.Organizations},
			{"locations", q.KeyEntities.Locations},
		}
		for _, e := range entityLists {
			if len(e.list) > v.maxEntities {
				add("key_entities.%s has %d entries, max %d", e.name, len(e.list), v.maxEntities)
			}
		}
	}

	if n := len(q.RelatedTopics); n < 1 || n > domain.MaxRelatedTopics {
		add("related_topics must have between 1 and %d entries, got %d", domain.MaxRelatedTopics, n)
	}

	return violations
}

func contains(options []string, answer string) bool {
	for _, opt := range options {
		if opt == answer {
			return true
		}
	}
	return false
}
