package legiscan

import (
	"context"
	"log"
)

// Service fetches datasets and records every attempt in the fetch log.
type Service struct {
	client *Client
	store  *Store
}

// NewService creates a Service. store may be nil to skip recording.
func NewService(client *Client, store *Store) *Service {
	return &Service{client: client, store: store}
}

// GetLaws fetches the configured dataset. Errors are *Error.
func (s *Service) GetLaws(ctx context.Context) (*Result, error) {
	res, err := s.client.GetDataset(ctx)
	s.record(ctx, res, err)
	return res, err
}

// History returns the most recent fetch attempts.
func (s *Service) History(ctx context.Context, limit int) ([]Fetch, error) {
	if s.store == nil {
		return []Fetch{}, nil
	}
	return s.store.Recent(ctx, limit)
}

func (s *Service) record(ctx context.Context, res *Result, fetchErr error) {
	if s.store == nil {
		return
	}
	f := Fetch{DatasetID: s.client.DatasetID(), Status: StatusOK}
	if fetchErr != nil {
		f.Status = StatusError
		f.Error = fetchErr.Error()
	} else {
		f.SessionName = res.DatasetInfo.SessionName.Str()
		f.TotalFiles = res.DatasetInfo.TotalFiles
		f.ProcessedFiles = res.DatasetInfo.ProcessedFiles
	}
	// The request context may already be done; the log entry should still land.
	if err := s.store.Record(context.WithoutCancel(ctx), f); err != nil {
		log.Printf("legiscan: %v", err)
	}
}
