// Package conversation keeps a running summary of a chat and answers new input against it.
package conversation

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/liliang-cn/askpdf/internal/domain"
	"github.com/liliang-cn/askpdf/internal/llm"
	"go.uber.org/zap"
)

const conversationTemplate = `The following is a friendly conversation between a human and an AI. The AI is talkative and gives specific details from its context. If the AI does not know the answer to a question, it says truthfully that it does not know.

Current conversation:
%s
Human: %s
AI:`

const summaryTemplate = `Progressively summarize the lines of conversation below, adding onto the previous summary and returning a new summary.

EXAMPLE
Current summary:
The human asks what the AI thinks of artificial intelligence. The AI thinks artificial intelligence is a force for good.

New lines of conversation:
Human: Why do you think artificial intelligence is a force for good?
AI: Because artificial intelligence will help humans reach their full potential.

New summary:
The human asks what the AI thinks of artificial intelligence. The AI thinks artificial intelligence is a force for good because it will help humans reach their full potential.
END OF EXAMPLE

Current summary:
%s

New lines of conversation:
%s

New summary:`

// Engine answers input with a summary of the earlier turns in place of the verbatim history.
type Engine struct {
	llm    llm.Generator
	logger *zap.Logger

	// turn serializes Predict, mu guards summary
	turn    sync.Mutex
	mu      sync.Mutex
	summary string
}

// NewEngine creates an engine with an empty summary. A nil logger disables logging.
func NewEngine(gen llm.Generator, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{llm: gen, logger: logger}
}

// Predict answers input and folds the exchange into the summary.
// Tokens in the result cover both the answer and the summary call.
// On failure the summary is left unchanged.
func (e *Engine) Predict(ctx context.Context, input string) (domain.Completion, error) {
	e.turn.Lock()
	defer e.turn.Unlock()

	summary := e.Summary()

	answer, err := e.llm.Generate(ctx, RenderConversation(summary, input))
	if err != nil {
		return domain.Completion{}, fmt.Errorf("conversation predict: %w", err)
	}
	reply := strings.TrimSpace(answer.Text)

	newLines := fmt.Sprintf("Human: %s\nAI: %s", input, reply)
	summarized, err := e.llm.Generate(ctx, RenderSummary(summary, newLines))
	if err != nil {
		return domain.Completion{}, fmt.Errorf("conversation summarize: %w", err)
	}
	summary = strings.TrimSpace(summarized.Text)

	e.mu.Lock()
	e.summary = summary
	e.mu.Unlock()

	e.logger.Debug("conversation turn completed",
		zap.Int("answer_tokens", answer.Tokens),
		zap.Int("summary_tokens", summarized.Tokens),
		zap.Int("summary_len", len(summary)),
	)

	return domain.Completion{
		Text:   reply,
		Tokens: answer.Tokens + summarized.Tokens,
	}, nil
}

// Summary returns the current summary buffer
func (e *Engine) Summary() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summary
}

// RenderConversation builds the prompt for the answering call.
func RenderConversation(summary, input string) string {
	return fmt.Sprintf(conversationTemplate, summary, input)
}

// RenderSummary builds the prompt for the summary call.
func RenderSummary(summary, newLines string) string {
	return fmt.Sprintf(summaryTemplate, summary, newLines)
}
