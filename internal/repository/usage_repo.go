package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/liliang-cn/askpdf/internal/domain"
)

// UsageRepository records the tokens spent on each answered question
type UsageRepository struct {
	db *DB
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// Create records one answered question
func (r *UsageRepository) Create(usage *domain.Usage) error {
	if usage.ID == "" {
		usage.ID = uuid.New().String()
	}
	usage.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO usage (id, session_id, tokens, created_at)
		VALUES (?, ?, ?, ?)
	`, usage.ID, usage.SessionID, usage.Tokens, usage.CreatedAt)

	return err
}

// SessionTokens returns the tokens a session has spent
func (r *UsageRepository) SessionTokens(sessionID string) (int, error) {
	var tokens int
	err := r.db.QueryRow(`SELECT COALESCE(SUM(tokens), 0) FROM usage WHERE session_id = ?`, sessionID).Scan(&tokens)
	return tokens, err
}

// Totals returns the number of answered questions and the tokens spent on them
func (r *UsageRepository) Totals() (chats, tokens int, err error) {
	err = r.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(tokens), 0) FROM usage`).Scan(&chats, &tokens)
	return chats, tokens, err
}
