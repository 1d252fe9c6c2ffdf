// Package session holds the per-browser chat state: history, token count,
// conversation engine and the current document's retriever.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/liliang-cn/askpdf/internal/conversation"
	"github.com/liliang-cn/askpdf/internal/domain"
)

// Retriever returns the chunks most relevant to a query
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]domain.Chunk, error)
}

// EngineFactory creates the conversation engine on first use
type EngineFactory func() *conversation.Engine

// Session is the state of one browser session. It is safe for concurrent use;
// submits are serialized through the state machine.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	state      State
	prior      State
	history    []domain.ChatMessage
	tokenCount int
	engine     *conversation.Engine
	newEngine  EngineFactory
	retriever  Retriever
	document   string
}

// New creates an Idle session
func New(id string, newEngine EngineFactory) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		state:     Idle,
		newEngine: newEngine,
	}
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Open marks the page as loaded
func (s *Session) Open() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state, _ = Next(s.state, EventOpen, s.prior)
	return s.state
}

// AttachDocument swaps in the retriever for a freshly ingested document.
// The previous retriever is dropped.
func (s *Session) AttachDocument(name string, r Retriever) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Idle {
		s.state, _ = Next(s.state, EventOpen, s.prior)
	}
	next, err := Next(s.state, EventDocumentAttached, s.prior)
	if err != nil {
		return err
	}
	s.state = next
	s.retriever = r
	s.document = name
	return nil
}

// Retriever returns the current document's retriever, nil before any upload
func (s *Session) Retriever() Retriever {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retriever
}

// Document returns the name of the current document
func (s *Session) Document() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.document
}

// Engine returns the conversation engine, creating it on first call
func (s *Session) Engine() *conversation.Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		s.engine = s.newEngine()
	}
	return s.engine
}

// BeginSubmit moves the session to AwaitingReply. It fails with ErrBusy if a
// submit is already in flight.
func (s *Session) BeginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Idle {
		s.state, _ = Next(s.state, EventOpen, s.prior)
	}
	next, err := Next(s.state, EventSubmit, s.prior)
	if err != nil {
		return err
	}
	s.prior = s.state
	s.state = next
	return nil
}

// EndSubmit returns the session to the state the submit started from.
func (s *Session) EndSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := Next(s.state, EventReply, s.prior)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// AppendTurn records a human message and its reply, and adds the tokens spent on it.
// It returns the new token count.
func (s *Session) AppendTurn(question string, reply domain.Completion) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, domain.HumanMessage(question), domain.AIMessage(reply.Text))
	if reply.Tokens > 0 {
		s.tokenCount += reply.Tokens
	}
	return s.tokenCount
}

// History returns a copy of the chat history
func (s *Session) History() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.history))
	copy(out, s.history)
	return out
}

// TokenCount returns the tokens spent by this session so far
func (s *Session) TokenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenCount
}

// View returns a snapshot for rendering
func (s *Session) View() domain.SessionView {
	summary := s.Engine().Summary()

	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]domain.ChatMessage, len(s.history))
	copy(history, s.history)

	return domain.SessionView{
		ID:         s.ID,
		State:      s.state.String(),
		Document:   s.document,
		History:    history,
		TokenCount: s.tokenCount,
		Summary:    summary,
	}
}
