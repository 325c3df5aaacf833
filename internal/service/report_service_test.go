package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tamarabusta/Aerolineas/internal/models"
	"github.com/tamarabusta/Aerolineas/internal/repository"
)

type mockReportStore struct {
	mock.Mock
}

func (m *mockReportStore) ListFlights(ctx context.Context) ([]*models.Flight, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*models.Flight)
	return list, args.Error(1)
}

func (m *mockReportStore) GetFlight(ctx context.Context, id int64) (*models.Flight, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(*models.Flight)
	return f, args.Error(1)
}

func (m *mockReportStore) FlightManifest(ctx context.Context, flightID int64) ([]models.ManifestRow, error) {
	args := m.Called(ctx, flightID)
	rows, _ := args.Get(0).([]models.ManifestRow)
	return rows, args.Error(1)
}

func (m *mockReportStore) Summary(ctx context.Context) (*models.Summary, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*models.Summary)
	return s, args.Error(1)
}

func TestGetManifest(t *testing.T) {
	store := new(mockReportStore)
	svc := NewReportService(store)

	flight := &models.Flight{ID: 1, Origin: "EZE", Destination: "COR"}
	rows := []models.ManifestRow{
		{PassengerName: "Ana", SeatNumber: "1A", ReservationCode: "AB12CD"},
		{PassengerName: "Juan", SeatNumber: "1B", ReservationCode: "ZZ99XX"},
	}

	store.On("GetFlight", mock.Anything, int64(1)).Return(flight, nil)
	store.On("FlightManifest", mock.Anything, int64(1)).Return(rows, nil)

	manifest, err := svc.GetManifest(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, flight, manifest.Flight)
	assert.Equal(t, 2, manifest.Total)
	assert.Equal(t, rows, manifest.Rows)
}

func TestGetManifest_UnknownFlight(t *testing.T) {
	store := new(mockReportStore)
	svc := NewReportService(store)

	store.On("GetFlight", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound)

	_, err := svc.GetManifest(context.Background(), 9)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetManifest_InvalidID(t *testing.T) {
	svc := NewReportService(new(mockReportStore))

	_, err := svc.GetManifest(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
