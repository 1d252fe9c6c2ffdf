package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/liliang-cn/askpdf/internal/domain"
)

// UploadRepository records files written to local storage
type UploadRepository struct {
	db *DB
}

// NewUploadRepository creates a new upload repository
func NewUploadRepository(db *DB) *UploadRepository {
	return &UploadRepository{db: db}
}

// Create records an upload
func (r *UploadRepository) Create(upload *domain.Upload) error {
	if upload.ID == "" {
		upload.ID = uuid.New().String()
	}
	upload.CreatedAt = time.Now()

	_, err := r.db.Exec(`
		INSERT INTO uploads (id, session_id, filename, path, size, pages, chunks, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, upload.ID, upload.SessionID, upload.Filename, upload.Path,
		upload.Size, upload.Pages, upload.Chunks, upload.CreatedAt)

	return err
}

// List retrieves uploads, newest first
func (r *UploadRepository) List(limit int) ([]*domain.Upload, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(`
		SELECT id, session_id, filename, path, size, pages, chunks, created_at
		FROM uploads ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []*domain.Upload
	for rows.Next() {
		u := &domain.Upload{}
		if err := rows.Scan(&u.ID, &u.SessionID, &u.Filename, &u.Path,
			&u.Size, &u.Pages, &u.Chunks, &u.CreatedAt); err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}

	return uploads, rows.Err()
}

// Totals returns the number of uploads, their chunks and bytes on disk
func (r *UploadRepository) Totals() (count, chunks int, bytes int64, err error) {
	err = r.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(chunks), 0), COALESCE(SUM(size), 0) FROM uploads
	`).Scan(&count, &chunks, &bytes)
	return count, chunks, bytes, err
}
