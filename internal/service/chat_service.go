package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/liliang-cn/askpdf/internal/conversation"
	"github.com/liliang-cn/askpdf/internal/domain"
	"github.com/liliang-cn/askpdf/internal/llm"
	"github.com/liliang-cn/askpdf/internal/repository"
	"github.com/liliang-cn/askpdf/internal/session"
	"go.uber.org/zap"
)

// FallbackContext stands in for retrieved text when no document was uploaded
const FallbackContext = "There is no document uploaded. I can still answer general questions!"

const promptTemplate = `You're a smart bot that answers questions based on the context given to you only.
Return the answer.
context: {context}
question: {question}`

// RenderPrompt fills the question-answering template
func RenderPrompt(docContext, question string) string {
	return strings.NewReplacer("{context}", docContext, "{question}", question).Replace(promptTemplate)
}

// ChatService answers questions against a session's document
type ChatService struct {
	llm       llm.Generator
	usageRepo *repository.UsageRepository
	logger    *zap.Logger
}

// NewChatService creates a new chat service. usageRepo may be nil.
func NewChatService(gen llm.Generator, usageRepo *repository.UsageRepository, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		llm:       gen,
		usageRepo: usageRepo,
		logger:    logger,
	}
}

// NewEngine creates a conversation engine over the service's model. Sessions
// call it once, on their first question.
func (s *ChatService) NewEngine() *conversation.Engine {
	return conversation.NewEngine(s.llm, s.logger)
}

// Ask runs one question through the session: retrieve, prompt, predict, record.
// History and token count change only when the model call succeeds.
func (s *ChatService) Ask(ctx context.Context, sess *session.Session, question string) (*domain.Turn, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidRequest)
	}

	if err := sess.BeginSubmit(); err != nil {
		return nil, err
	}
	defer func() {
		if err := sess.EndSubmit(); err != nil {
			s.logger.Error("failed to end submit", zap.String("session_id", sess.ID), zap.Error(err))
		}
	}()

	docContext, err := s.retrieveContext(ctx, sess, question)
	if err != nil {
		return nil, err
	}

	reply, err := sess.Engine().Predict(ctx, RenderPrompt(docContext, question))
	if err != nil {
		return nil, err
	}

	tokenCount := sess.AppendTurn(question, reply)

	if s.usageRepo != nil {
		if err := s.usageRepo.Create(&domain.Usage{SessionID: sess.ID, Tokens: reply.Tokens}); err != nil {
			s.logger.Warn("failed to record usage", zap.String("session_id", sess.ID), zap.Error(err))
		}
	}

	s.logger.Debug("question answered",
		zap.String("session_id", sess.ID),
		zap.Int("tokens", reply.Tokens),
		zap.Int("token_count", tokenCount),
	)

	return &domain.Turn{
		Human:      domain.HumanMessage(question),
		AI:         domain.AIMessage(reply.Text),
		Tokens:     reply.Tokens,
		TokenCount: tokenCount,
	}, nil
}

func (s *ChatService) retrieveContext(ctx context.Context, sess *session.Session, question string) (string, error) {
	r := sess.Retriever()
	if r == nil {
		return FallbackContext, nil
	}

	chunks, err := r.Retrieve(ctx, question)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}
	return JoinChunks(chunks), nil
}
