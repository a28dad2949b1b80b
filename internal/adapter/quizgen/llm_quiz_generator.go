package quizgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wikiquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"go.uber.org/zap"
)

// LLMQuizGenerator implements domain.QuizGenerator with a langchaingo model.
type LLMQuizGenerator struct {
	llm         llms.Model
	retriever   *Retriever
	prompt      prompts.PromptTemplate
	maxEntities int
	temperature float64
	timeout     time.Duration
	logger      *zap.Logger
}

// QuizGeneratorOptions tunes an LLMQuizGenerator.
type QuizGeneratorOptions struct {
	MaxEntities int
	Temperature float64
	Timeout     time.Duration
}

// NewLLMQuizGenerator creates a quiz generator. retriever may be nil, in which
// case the whole text is sent to the model.
func NewLLMQuizGenerator(llm llms.Model, retriever *Retriever, opts QuizGeneratorOptions, logger *zap.Logger) (*LLMQuizGenerator, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm client cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxEntities <= 0 {
		opts.MaxEntities = 5
	}
	return &LLMQuizGenerator{
		llm:         llm,
		retriever:   retriever,
		prompt:      newQuizPrompt(),
		maxEntities: opts.MaxEntities,
		temperature: opts.Temperature,
		timeout:     opts.Timeout,
		logger:      logger,
	}, nil
}

// quizResponse is the JSON shape requested from the model. Some models answer
// with "quiz" instead of "questions".
type quizResponse struct {
	Summary       string             `json:"summary"`
	KeyEntities   domain.KeyEntities `json:"key_entities"`
	Sections      []string           `json:"sections"`
	Questions     []domain.Question  `json:"questions"`
	Quiz          []domain.Question  `json:"quiz"`
	RelatedTopics []string           `json:"related_topics"`
}

// Generate implements domain.QuizGenerator. Transport and model failures are
// GenerationErrors; unparseable output is a SchemaViolation.
func (g *LLMQuizGenerator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.QuizOutput, error) {
	mode := req.Mode
	if !mode.Valid() {
		mode = domain.DifficultyMedium
	}

	content := req.Text
	if g.retriever != nil {
		chunks, err := g.retriever.Retrieve(ctx, req.Title, req.Text)
		if err != nil {
			return nil, domain.NewGenerationError(err)
		}
		content = strings.Join(chunks, "\n")
	}

	mix := mode.Distribution()
	prompt, err := g.prompt.Format(map[string]any{
		"title":          req.Title,
		"content":        content,
		"mode":           string(mode),
		"easy":           mix.Easy,
		"medium":         mix.Medium,
		"hard":           mix.Hard,
		"question_count": domain.QuestionsPerQuiz,
		"option_count":   domain.OptionsPerQuestion,
		"max_entities":   g.maxEntities,
		"max_related":    domain.MaxRelatedTopics,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to render quiz prompt", err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	raw, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, callOptions(g.temperature, true)...)
	if err != nil {
		g.logger.Error("Quiz generation call failed", zap.String("title", req.Title), zap.Error(err))
		return nil, domain.NewGenerationError(err)
	}
	g.logger.Debug("Quiz generation call finished",
		zap.String("title", req.Title),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("raw_response", truncate(raw, 500)),
	)

	quiz, err := g.parse(raw)
	if err != nil {
		g.logger.Warn("Could not parse quiz response", zap.Error(err), zap.String("raw_response", truncate(raw, 500)))
		return nil, domain.NewSchemaViolationError([]string{err.Error()})
	}

	quiz.Title = req.Title
	quiz.Mode = mode
	quiz.SelectedSections = req.Sections
	quiz.GeneratedAt = time.Now().UTC()
	return quiz, nil
}

// parse decodes a model response and tidies it. Entity lists are truncated to
// the configured cap; everything else is left for validation.
func (g *LLMQuizGenerator) parse(raw string) (*domain.QuizOutput, error) {
	jsonStr, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	var resp quizResponse
	if err := json.Unmarshal([]byte(jsonStr), &resp); err != nil {
		return nil, fmt.Errorf("response is not valid quiz JSON: %w", err)
	}

	questions := resp.Questions
	if len(questions) == 0 {
		questions = resp.Quiz
	}
	for i := range questions {
		q := &questions[i]
		q.Question = strings.TrimSpace(q.Question)
		q.Answer = strings.TrimSpace(q.Answer)
		q.Explanation = strings.TrimSpace(q.Explanation)
		q.Section = strings.TrimSpace(q.Section)
		q.Difficulty = domain.Difficulty(strings.ToLower(strings.TrimSpace(string(q.Difficulty))))
		for j := range q.Options {
			q.Options[j] = strings.TrimSpace(q.Options[j])
		}
	}

	return &domain.QuizOutput{
		Summary: strings.TrimSpace(resp.Summary),
		KeyEntities: domain.KeyEntities{
			People:        capList(resp.KeyEntities.People, g.maxEntities),
			Organizations: capList(resp.KeyEntities.Organizations, g.maxEntities),
			Locations:     capList(resp.KeyEntities.Locations, g.maxEntities),
		},
		Sections:      nonNil(resp.Sections),
		Questions:     questions,
		RelatedTopics: resp.RelatedTopics,
	}, nil
}

func capList(list []string, max int) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

var _ domain.QuizGenerator = (*LLMQuizGenerator)(nil)
