package llm

import (
	"context"
	"fmt"
	"sync"

	"github.com/liliang-cn/askpdf/internal/domain"
)

// MockLLM is a scripted Generator. Without Replies it echoes the prompt length.
type MockLLM struct {
	mu      sync.Mutex
	Replies []domain.Completion
	Err     error
	Prompts []string
}

func NewMockLLM(replies ...domain.Completion) *MockLLM {
	return &MockLLM{Replies: replies}
}

// Generate records the prompt and returns the next scripted reply, cycling when exhausted.
func (m *MockLLM) Generate(ctx context.Context, prompt string) (domain.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.Prompts)
	m.Prompts = append(m.Prompts, prompt)

	if m.Err != nil {
		return domain.Completion{}, m.Err
	}
	if len(m.Replies) == 0 {
		return domain.Completion{Text: fmt.Sprintf("reply to a %d character prompt", len(prompt)), Tokens: 1}, nil
	}
	return m.Replies[n%len(m.Replies)], nil
}

// Calls returns how many prompts were received
func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}

// Prompt returns the i-th received prompt
func (m *MockLLM) Prompt(i int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Prompts[i]
}
