package domain

import "time"

// Chunk is an overlapping window of page text, the unit of retrieval
type Chunk struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Page   int    `json:"page"`
	Index  int    `json:"index"`
	Offset int    `json:"offset"`
}

// Upload is a ledger row for a file written to local storage
type Upload struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	Pages     int       `json:"pages"`
	Chunks    int       `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
}

// IngestResult is what the ingestor produced for one upload
type IngestResult struct {
	Upload *Upload `json:"upload"`
	Chunks []Chunk `json:"-"`
}
