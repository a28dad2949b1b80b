package quizgen

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// fakeLLM is an llms.Model that returns a canned response and records prompts.
type fakeLLM struct {
	mu       sync.Mutex
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	var sb strings.Builder
	for _, m := range messages {
		for _, p := range m.Parts {
			if tc, ok := p.(llms.TextContent); ok {
				sb.WriteString(tc.Text)
			}
		}
	}
	f.mu.Lock()
	f.prompts = append(f.prompts, sb.String())
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: f.response}}}, nil
}

func (f *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

var errModelDown = errors.New("model unavailable")

// keywordEmbedder maps text containing keyword to {1,0} and anything else to {0,1}.
type keywordEmbedder struct {
	keyword string
	err     error
}

func (k *keywordEmbedder) Generate(_ context.Context, text string) ([]float32, error) {
	if k.err != nil {
		return nil, k.err
	}
	if strings.Contains(strings.ToLower(text), k.keyword) {
		return []float32{1, 0}, nil
	}
	return []float32{0, 1}, nil
}
