package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/liliang-cn/askpdf/internal/config"
	"github.com/liliang-cn/askpdf/internal/domain"
	"github.com/liliang-cn/askpdf/internal/embedding"
	"github.com/liliang-cn/askpdf/internal/pdftext"
	"github.com/liliang-cn/askpdf/internal/repository"
	"github.com/liliang-cn/askpdf/internal/session"
	"github.com/liliang-cn/askpdf/internal/textsplit"
	"go.uber.org/zap"
)

const pdfMIME = "application/pdf"

// IngestService turns uploaded PDFs into retrievable chunks
type IngestService struct {
	cfg        *config.Config
	loader     pdftext.Loader
	splitter   *textsplit.Splitter
	embedder   embedding.Embedder
	uploadRepo *repository.UploadRepository
	logger     *zap.Logger
}

// NewIngestService creates a new ingest service. uploadRepo may be nil, in which
// case uploads are not recorded.
func NewIngestService(
	cfg *config.Config,
	loader pdftext.Loader,
	uploadRepo *repository.UploadRepository,
	logger *zap.Logger,
) (*IngestService, error) {
	splitter, err := textsplit.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfig, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &IngestService{
		cfg:        cfg,
		loader:     loader,
		splitter:   splitter,
		embedder:   embedding.NewPlaceholder(cfg.RAG.EmbeddingDim),
		uploadRepo: uploadRepo,
		logger:     logger,
	}, nil
}

// Ingest saves the upload under its own name in the upload directory, extracts
// its pages and splits them into overlapping chunks.
func (s *IngestService) Ingest(ctx context.Context, sessionID, filename string, r io.Reader) (*domain.IngestResult, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." {
		return nil, fmt.Errorf("%w: missing file name", domain.ErrInvalidRequest)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %v", domain.ErrIO, err)
	}

	if mt := mimetype.Detect(data); !mt.Is(pdfMIME) {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrParse, name, mt.String())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := s.cfg.Storage.UploadDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create upload dir: %v", domain.ErrIO, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIO, err)
	}

	pages, err := s.loader.LoadPages(path)
	if err != nil {
		return nil, err
	}

	chunks := s.chunkPages(name, pages)

	upload := &domain.Upload{
		SessionID: sessionID,
		Filename:  name,
		Path:      path,
		Size:      int64(len(data)),
		Pages:     len(pages),
		Chunks:    len(chunks),
	}
	if s.uploadRepo != nil {
		if err := s.uploadRepo.Create(upload); err != nil {
			s.logger.Warn("failed to record upload", zap.String("path", path), zap.Error(err))
		}
	}

	s.logger.Info("document ingested",
		zap.String("session_id", sessionID),
		zap.String("file", name),
		zap.Int("pages", len(pages)),
		zap.Int("chunks", len(chunks)),
	)

	return &domain.IngestResult{Upload: upload, Chunks: chunks}, nil
}

func (s *IngestService) chunkPages(source string, pages []pdftext.Page) []domain.Chunk {
	var chunks []domain.Chunk
	for _, p := range pages {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}
		for _, w := range s.splitter.Split(text) {
			chunks = append(chunks, domain.Chunk{
				Text:   w.Text,
				Source: source,
				Page:   p.Number,
				Index:  len(chunks),
				Offset: w.Offset,
			})
		}
	}
	return chunks
}

// Attach ingests the upload, indexes its chunks and makes it the session's document.
func (s *IngestService) Attach(ctx context.Context, sess *session.Session, filename string, r io.Reader) (*domain.IngestResult, error) {
	result, err := s.Ingest(ctx, sess.ID, filename, r)
	if err != nil {
		return nil, err
	}

	retriever, err := NewRetriever(result.Chunks, s.embedder, s.cfg.RAG.TopK)
	if err != nil {
		return nil, err
	}

	if err := sess.AttachDocument(result.Upload.Filename, retriever); err != nil {
		return nil, err
	}
	return result, nil
}
