package service

import (
	"context"

	"github.com/liliang-cn/askpdf/internal/domain"
	"github.com/liliang-cn/askpdf/internal/repository"
	"github.com/liliang-cn/askpdf/internal/session"
)

// AdminService handles admin operations
type AdminService struct {
	uploadRepo *repository.UploadRepository
	usageRepo  *repository.UsageRepository
	sessions   *session.Store
}

// NewAdminService creates a new admin service
func NewAdminService(
	uploadRepo *repository.UploadRepository,
	usageRepo *repository.UsageRepository,
	sessions *session.Store,
) *AdminService {
	return &AdminService{
		uploadRepo: uploadRepo,
		usageRepo:  usageRepo,
		sessions:   sessions,
	}
}

// ListUploads returns the most recent uploads
func (s *AdminService) ListUploads(ctx context.Context, limit int) ([]*domain.Upload, error) {
	return s.uploadRepo.List(limit)
}

// GetStats aggregates the ledger
func (s *AdminService) GetStats(ctx context.Context) (*domain.Stats, error) {
	uploads, chunks, size, err := s.uploadRepo.Totals()
	if err != nil {
		return nil, err
	}

	chats, tokens, err := s.usageRepo.Totals()
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{
		TotalUploads: uploads,
		TotalChunks:  chunks,
		UploadBytes:  size,
		TotalChats:   chats,
		TotalTokens:  tokens,
	}
	if s.sessions != nil {
		stats.ActiveSessions = s.sessions.Len()
	}
	return stats, nil
}
