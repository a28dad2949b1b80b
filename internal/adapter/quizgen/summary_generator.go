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

const (
	// SummaryUnavailable is returned when the model output cannot be parsed.
	SummaryUnavailable = "Could not generate summary at this time."

	defaultSummaryPoints      = 10
	defaultSummaryTemperature = 0.25
	minFallbackLineLength     = 6
)

// LLMSummaryGenerator implements domain.SummaryGenerator.
type LLMSummaryGenerator struct {
	llm     llms.Model
	prompt  prompts.PromptTemplate
	points  int
	timeout time.Duration
	logger  *zap.Logger
}

// NewLLMSummaryGenerator creates a summary generator.
func NewLLMSummaryGenerator(llm llms.Model, timeout time.Duration, logger *zap.Logger) (*LLMSummaryGenerator, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm client cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMSummaryGenerator{
		llm:     llm,
		prompt:  newSummaryPrompt(),
		points:  defaultSummaryPoints,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Summarize returns key points about the article. A model failure is a
// GenerationError; an unreadable answer yields SummaryUnavailable.
func (s *LLMSummaryGenerator) Summarize(ctx context.Context, title, content string) ([]string, error) {
	prompt, err := s.prompt.Format(map[string]any{
		"title":   title,
		"content": content,
		"points":  s.points,
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to render summary prompt", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, callOptions(defaultSummaryTemperature, false)...)
	if err != nil {
		s.logger.Error("Summary generation call failed", zap.String("title", title), zap.Error(err))
		return nil, domain.NewGenerationError(err)
	}

	return s.parse(raw), nil
}

// parse accepts a JSON array of strings. Other valid JSON falls back to line
// splitting; invalid JSON yields the placeholder.
func (s *LLMSummaryGenerator) parse(raw string) []string {
	text := cleanResponse(raw)

	var decoded interface{}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		if arr, aerr := extractDelimited(text, '[', ']'); aerr == nil {
			var points []string
			if json.Unmarshal([]byte(arr), &points) == nil && len(points) > 0 {
				return points
			}
		}
		s.logger.Warn("Summary response is not valid JSON", zap.Error(err), zap.String("raw_response", truncate(raw, 300)))
		return []string{SummaryUnavailable}
	}

	if list, ok := decoded.([]interface{}); ok {
		points := make([]string, 0, len(list))
		for _, item := range list {
			if str, ok := item.(string); ok {
				if str = strings.TrimSpace(str); str != "" {
					points = append(points, str)
				}
			}
		}
		if len(points) > 0 {
			return points
		}
		return []string{SummaryUnavailable}
	}

	var points []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(strings.TrimSpace(line), " -•\"',{}[]")
		if len(line) >= minFallbackLineLength {
			points = append(points, line)
		}
	}
	if len(points) == 0 {
		return []string{SummaryUnavailable}
	}
	return points
}

var _ domain.SummaryGenerator = (*LLMSummaryGenerator)(nil)
