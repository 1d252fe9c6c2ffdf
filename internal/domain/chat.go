package domain

import "time"

// Origin tags who produced a chat message
type Origin string

const (
	OriginHuman Origin = "human"
	OriginAI    Origin = "ai"
)

// ChatMessage is one bubble in the chat history
type ChatMessage struct {
	Origin Origin `json:"origin"`
	Text   string `json:"text"`
}

// HumanMessage builds a message typed by the user
func HumanMessage(text string) ChatMessage {
	return ChatMessage{Origin: OriginHuman, Text: text}
}

// AIMessage builds a message produced by the model
func AIMessage(text string) ChatMessage {
	return ChatMessage{Origin: OriginAI, Text: text}
}

// IsAI reports whether the message came from the model
func (m ChatMessage) IsAI() bool {
	return m.Origin == OriginAI
}

// Completion is the result of one remote generation, with the tokens it consumed
type Completion struct {
	Text   string `json:"text"`
	Tokens int    `json:"tokens"`
}

// Turn is one answered question
type Turn struct {
	Human      ChatMessage `json:"human"`
	AI         ChatMessage `json:"ai"`
	Tokens     int         `json:"tokens"`
	TokenCount int         `json:"token_count"`
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	Message string `json:"message" form:"human_prompt" binding:"required"`
}

// SessionView is the read model of a chat session
type SessionView struct {
	ID         string        `json:"id"`
	State      string        `json:"state"`
	Document   string        `json:"document,omitempty"`
	History    []ChatMessage `json:"history"`
	TokenCount int           `json:"token_count"`
	Summary    string        `json:"summary"`
}

// Usage is a ledger row for the tokens of one answered question
type Usage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Tokens    int       `json:"tokens"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats represents system statistics
type Stats struct {
	TotalUploads int   `json:"total_uploads"`
	TotalChunks  int   `json:"total_chunks"`
	UploadBytes  int64 `json:"upload_bytes"`
	TotalChats   int   `json:"total_chats"`
	TotalTokens  int   `json:"total_tokens"`

	ActiveSessions int `json:"active_sessions"`
}
