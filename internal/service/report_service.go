package service

import (
	"context"
	"fmt"

	"github.com/tamarabusta/Aerolineas/internal/models"
)

// ReportStore is the read-only persistence contract of the reporting layer.
type ReportStore interface {
	ListFlights(ctx context.Context) ([]*models.Flight, error)
	GetFlight(ctx context.Context, id int64) (*models.Flight, error)
	FlightManifest(ctx context.Context, flightID int64) ([]models.ManifestRow, error)
	Summary(ctx context.Context) (*models.Summary, error)
}

type ReportService struct {
	store ReportStore
}

func NewReportService(store ReportStore) *ReportService {
	return &ReportService{store: store}
}

func (s *ReportService) ListFlights(ctx context.Context) ([]*models.Flight, error) {
	return s.store.ListFlights(ctx)
}

// GetManifest returns the flight's reservation rows as a stable, ordered
// sequence, ready for rendering or export.
func (s *ReportService) GetManifest(ctx context.Context, flightID int64) (*models.FlightManifest, error) {
	if flightID <= 0 {
		return nil, fmt.Errorf("%w: flight id must be positive", ErrInvalidInput)
	}

	flight, err := s.store.GetFlight(ctx, flightID)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.FlightManifest(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("flight manifest: %w", err)
	}

	return &models.FlightManifest{
		Flight: flight,
		Rows:   rows,
		Total:  len(rows),
	}, nil
}

func (s *ReportService) GetSummary(ctx context.Context) (*models.Summary, error) {
	summary, err := s.store.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return summary, nil
}
