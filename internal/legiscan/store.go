package legiscan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ezlaw/ezlaw/internal/db"
)

// Fetch statuses.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Fetch is one recorded call to GetDataset.
type Fetch struct {
	ID             string    `json:"id"`
	DatasetID      int       `json:"dataset_id"`
	SessionName    string    `json:"session_name,omitempty"`
	TotalFiles     int       `json:"total_files"`
	ProcessedFiles int       `json:"processed_files"`
	Status         string    `json:"status"`
	Error          string    `json:"error,omitempty"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// Store keeps the dataset fetch log.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts f. If f.ID is empty a UUID is generated.
func (s *Store) Record(ctx context.Context, f Fetch) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dataset_fetches (id, dataset_id, session_name, total_files, processed_files, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID, f.DatasetID, f.SessionName, f.TotalFiles, f.ProcessedFiles, f.Status, f.Error,
	)
	if err != nil {
		return fmt.Errorf("recording dataset fetch: %w", err)
	}
	return nil
}

// Recent returns up to limit fetches, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Fetch, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dataset_id, session_name, total_files, processed_files, status, error, fetched_at
		FROM dataset_fetches
		ORDER BY fetched_at DESC, rowid DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying dataset fetches: %w", err)
	}
	defer rows.Close()

	fetches := []Fetch{}
	for rows.Next() {
		var (
			f  Fetch
			ts string
		)
		if err := rows.Scan(&f.ID, &f.DatasetID, &f.SessionName, &f.TotalFiles, &f.ProcessedFiles, &f.Status, &f.Error, &ts); err != nil {
			return nil, fmt.Errorf("scanning dataset fetch: %w", err)
		}
		f.FetchedAt = parseTimestamp(ts)
		fetches = append(fetches, f)
	}
	return fetches, rows.Err()
}

func parseTimestamp(ts string) time.Time {
	if t, err := time.Parse(time.DateTime, ts); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t
	}
	return time.Time{}
}
