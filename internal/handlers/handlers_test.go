package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tamarabusta/Aerolineas/internal/cache"
	"github.com/tamarabusta/Aerolineas/internal/export"
	"github.com/tamarabusta/Aerolineas/internal/models"
	"github.com/tamarabusta/Aerolineas/internal/repository"
	"github.com/tamarabusta/Aerolineas/internal/service"
)

// --- mocks ---

type mockReservationService struct {
	mock.Mock
}

func (m *mockReservationService) CreateReservation(ctx context.Context, req *models.ReservationRequest) (*models.Booking, error) {
	args := m.Called(ctx, req)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *mockReservationService) GetBooking(ctx context.Context, reservationID int64) (*models.Booking, error) {
	args := m.Called(ctx, reservationID)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *mockReservationService) GetBookingByCode(ctx context.Context, code string) (*models.Booking, error) {
	args := m.Called(ctx, code)
	b, _ := args.Get(0).(*models.Booking)
	return b, args.Error(1)
}

func (m *mockReservationService) VoidTicket(ctx context.Context, ticketID int64) (*models.Ticket, error) {
	args := m.Called(ctx, ticketID)
	tk, _ := args.Get(0).(*models.Ticket)
	return tk, args.Error(1)
}

func (m *mockReservationService) TicketDocument(ctx context.Context, reservationID int64) (*export.TicketDocument, error) {
	args := m.Called(ctx, reservationID)
	d, _ := args.Get(0).(*export.TicketDocument)
	return d, args.Error(1)
}

type mockCatalogService struct {
	mock.Mock
}

func (m *mockCatalogService) CreateAircraft(ctx context.Context, req *models.AircraftRequest) (*models.Aircraft, error) {
	args := m.Called(ctx, req)
	a, _ := args.Get(0).(*models.Aircraft)
	return a, args.Error(1)
}

func (m *mockCatalogService) ListAircraft(ctx context.Context) ([]*models.Aircraft, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*models.Aircraft)
	return list, args.Error(1)
}

func (m *mockCatalogService) CreateFlight(ctx context.Context, req *models.FlightRequest) (*models.Flight, error) {
	args := m.Called(ctx, req)
	f, _ := args.Get(0).(*models.Flight)
	return f, args.Error(1)
}

func (m *mockCatalogService) UpdateFlightStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockCatalogService) CreatePassenger(ctx context.Context, req *models.PassengerRequest) (*models.Passenger, error) {
	args := m.Called(ctx, req)
	p, _ := args.Get(0).(*models.Passenger)
	return p, args.Error(1)
}

func (m *mockCatalogService) GetPassengerByDocument(ctx context.Context, document string) (*models.Passenger, error) {
	args := m.Called(ctx, document)
	p, _ := args.Get(0).(*models.Passenger)
	return p, args.Error(1)
}

func (m *mockCatalogService) CreateSeat(ctx context.Context, aircraftID int64, req *models.SeatRequest) (*models.Seat, error) {
	args := m.Called(ctx, aircraftID, req)
	s, _ := args.Get(0).(*models.Seat)
	return s, args.Error(1)
}

func (m *mockCatalogService) ListSeats(ctx context.Context, aircraftID int64, status string) ([]*models.Seat, error) {
	args := m.Called(ctx, aircraftID, status)
	list, _ := args.Get(0).([]*models.Seat)
	return list, args.Error(1)
}

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) ListFlights(ctx context.Context) ([]*models.Flight, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]*models.Flight)
	return list, args.Error(1)
}

func (m *mockReportService) GetManifest(ctx context.Context, flightID int64) (*models.FlightManifest, error) {
	args := m.Called(ctx, flightID)
	mf, _ := args.Get(0).(*models.FlightManifest)
	return mf, args.Error(1)
}

func (m *mockReportService) GetSummary(ctx context.Context) (*models.Summary, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).(*models.Summary)
	return s, args.Error(1)
}

// memoryCache is an in-process stand-in for the Redis cache.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	return b, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Del(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) Close() error { return nil }

type stubRenderer struct {
	content []byte
	ct      string
	err     error
}

func (r *stubRenderer) RenderTicket(context.Context, *export.TicketDocument) ([]byte, string, error) {
	return r.content, r.ct, r.err
}

func (r *stubRenderer) RenderManifest(context.Context, *models.FlightManifest) ([]byte, string, error) {
	return r.content, r.ct, r.err
}

// --- helpers ---

type testEnv struct {
	reservations *mockReservationService
	catalog      *mockCatalogService
	reports      *mockReportService
	router       *chi.Mux
}

func newTestEnv(t *testing.T, renderer export.DocumentRenderer, c *memoryCache) *testEnv {
	t.Helper()

	env := &testEnv{
		reservations: new(mockReservationService),
		catalog:      new(mockCatalogService),
		reports:      new(mockReportService),
	}

	// a typed nil pointer must not reach the cache.Cache interface
	var cc cache.Cache
	if c != nil {
		cc = c
	}

	r := chi.NewRouter()
	catalogHandler := NewCatalogHandler(env.catalog, cc)
	reservationHandler := NewReservationHandler(env.reservations, renderer)
	reportHandler := NewReportHandler(env.reports, cc, time.Minute, renderer)
	RegisterRoutes(r, catalogHandler, reservationHandler, reportHandler)

	env.router = r
	return env
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// --- reservations ---

func TestCreateReservation_HTTPStatusMapping(t *testing.T) {
	validBody := models.ReservationRequest{FlightID: 1, PassengerID: 2, SeatID: 3, Price: 100}

	booking := &models.Booking{
		Reservation: &models.Reservation{ID: 1, Code: "X7K9P2", Status: models.ReservationStatusPending},
		Ticket:      &models.Ticket{ID: 1, Barcode: "X7K9P2", Status: models.TicketStatusActive},
	}

	tests := []struct {
		name       string
		mockReturn *models.Booking
		mockError  error
		wantStatus int
	}{
		{"created", booking, nil, http.StatusCreated},
		{"invalid input", nil, service.ErrInvalidInput, http.StatusBadRequest},
		{"unknown flight", nil, repository.ErrNotFound, http.StatusNotFound},
		{"departed flight", nil, service.ErrStaleFlight, http.StatusUnprocessableEntity},
		{"duplicate booking", nil, service.ErrDuplicateBooking, http.StatusConflict},
		{"seat taken", nil, service.ErrSeatUnavailable, http.StatusConflict},
		{"code space exhausted", nil, service.ErrCodeExhausted, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil, nil)
			env.reservations.On("CreateReservation", mock.Anything, mock.AnythingOfType("*models.ReservationRequest")).
				Return(tt.mockReturn, tt.mockError)

			rec := doJSON(t, env.router, http.MethodPost, "/api/reservations", validBody)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				var got models.Booking
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
				assert.Equal(t, "X7K9P2", got.Reservation.Code)
				assert.Equal(t, "X7K9P2", got.Ticket.Barcode)
			}
			env.reservations.AssertExpectations(t)
		})
	}
}

func TestCreateReservation_BadJSON(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env.reservations.AssertNotCalled(t, "CreateReservation", mock.Anything, mock.Anything)
}

func TestGetReservation(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.reservations.On("GetBooking", mock.Anything, int64(5)).Return(&models.Booking{
		Reservation: &models.Reservation{ID: 5, Code: "AB12CD"},
		Ticket:      &models.Ticket{ID: 9},
	}, nil)

	rec := doJSON(t, env.router, http.MethodGet, "/api/reservations/5", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.router, http.MethodGet, "/api/reservations/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetReservationByCode_HTTP(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.reservations.On("GetBookingByCode", mock.Anything, "AB12CD").Return(&models.Booking{
		Reservation: &models.Reservation{ID: 5, Code: "AB12CD"},
		Ticket:      &models.Ticket{ID: 9, Barcode: "AB12CD"},
	}, nil)

	rec := doJSON(t, env.router, http.MethodGet, "/api/reservations/code/AB12CD", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var booking models.Booking
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&booking))
	assert.Equal(t, int64(5), booking.Reservation.ID)
}

func TestGetPassengerByDocument_HTTP(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.catalog.On("GetPassengerByDocument", mock.Anything, "30123456").
		Return(&models.Passenger{ID: 2, Document: "30123456"}, nil)

	rec := doJSON(t, env.router, http.MethodGet, "/api/passengers?document=30123456", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, env.router, http.MethodGet, "/api/passengers", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVoidTicket_HTTP(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.reservations.On("VoidTicket", mock.Anything, int64(7)).
		Return(&models.Ticket{ID: 7, Status: models.TicketStatusVoided}, nil)

	rec := doJSON(t, env.router, http.MethodPost, "/api/tickets/7/void", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var ticket models.Ticket
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ticket))
	assert.Equal(t, models.TicketStatusVoided, ticket.Status)
}

func TestGetReservationDocument(t *testing.T) {
	doc := &export.TicketDocument{CodePayload: "RESERVA: AB12CD"}

	t.Run("no renderer configured", func(t *testing.T) {
		env := newTestEnv(t, nil, nil)
		rec := doJSON(t, env.router, http.MethodGet, "/api/reservations/5/document", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("renderer failure", func(t *testing.T) {
		env := newTestEnv(t, &stubRenderer{err: errors.New("render failed")}, nil)
		env.reservations.On("TicketDocument", mock.Anything, int64(5)).Return(doc, nil)

		rec := doJSON(t, env.router, http.MethodGet, "/api/reservations/5/document", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("rendered", func(t *testing.T) {
		env := newTestEnv(t, &stubRenderer{content: []byte("%PDF-1.4"), ct: "application/pdf"}, nil)
		env.reservations.On("TicketDocument", mock.Anything, int64(5)).Return(doc, nil)

		rec := doJSON(t, env.router, http.MethodGet, "/api/reservations/5/document", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4", rec.Body.String())
	})
}

// --- catalog ---

func TestCreateAircraft_HTTP(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.catalog.On("CreateAircraft", mock.Anything, mock.AnythingOfType("*models.AircraftRequest")).
		Return(&models.Aircraft{ID: 1, Model: "Airbus A320"}, nil)

	rec := doJSON(t, env.router, http.MethodPost, "/api/aircraft",
		models.AircraftRequest{Model: "Airbus A320", Capacity: 150, Rows: 25, Columns: 6})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreatePassenger_DuplicateDocument(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.catalog.On("CreatePassenger", mock.Anything, mock.AnythingOfType("*models.PassengerRequest")).
		Return(nil, repository.ErrDuplicateDocument)

	rec := doJSON(t, env.router, http.MethodPost, "/api/passengers",
		models.PassengerRequest{Name: "Ana", Document: "30123456", Email: "ana@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListSeats_HTTP(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.catalog.On("ListSeats", mock.Anything, int64(1), "disponible").
		Return([]*models.Seat{{ID: 1, Number: "1A"}}, nil)

	rec := doJSON(t, env.router, http.MethodGet, "/api/aircraft/1/seats?status=disponible", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var seats []*models.Seat
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&seats))
	assert.Len(t, seats, 1)
}

// --- reports ---

func TestListFlights_CacheMissThenHit(t *testing.T) {
	c := newMemoryCache()
	env := newTestEnv(t, nil, c)

	env.reports.On("ListFlights", mock.Anything).
		Return([]*models.Flight{{ID: 1, Origin: "EZE", Destination: "COR"}}, nil).Once()

	rec := doJSON(t, env.router, http.MethodGet, "/api/flights", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

	rec = doJSON(t, env.router, http.MethodGet, "/api/flights", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	env.reports.AssertNumberOfCalls(t, "ListFlights", 1)
}

func TestGetSummary_HTTP(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.reports.On("GetSummary", mock.Anything).Return(&models.Summary{
		TotalFlights:      3,
		TotalReservations: 10,
		TotalRevenue:      1500.50,
	}, nil)

	rec := doJSON(t, env.router, http.MethodGet, "/api/reports/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var s models.Summary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&s))
	assert.Equal(t, int64(10), s.TotalReservations)
	assert.Equal(t, 1500.50, s.TotalRevenue)
}

func TestGetManifestCSV_HTTP(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.reports.On("GetManifest", mock.Anything, int64(1)).Return(&models.FlightManifest{
		Flight: &models.Flight{ID: 1, Origin: "EZE", Destination: "COR"},
		Rows: []models.ManifestRow{
			{PassengerName: "Ana Gómez", PassengerDocument: "30123456", SeatNumber: "12C", Price: 150.5, ReservationCode: "AB12CD"},
		},
		Total: 1,
	}, nil)

	rec := doJSON(t, env.router, http.MethodGet, "/api/reports/flights/1/csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "manifiesto_vuelo_1_EZE_COR.csv")

	body := rec.Body.String()
	assert.Contains(t, body, "Passenger,Document,Seat,Price,ReservationCode")
	assert.Contains(t, body, "Ana Gómez,30123456,12C,150.50,AB12CD")
}

func TestGetManifestPDF_HTTP(t *testing.T) {
	manifest := &models.FlightManifest{
		Flight: &models.Flight{ID: 1, Origin: "EZE", Destination: "COR"},
		Rows: []models.ManifestRow{
			{PassengerName: "Ana Gómez", SeatNumber: "12C", ReservationCode: "AB12CD"},
		},
		Total: 1,
	}

	t.Run("no renderer configured", func(t *testing.T) {
		env := newTestEnv(t, nil, nil)
		rec := doJSON(t, env.router, http.MethodGet, "/api/reports/flights/1/pdf", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		env.reports.AssertNotCalled(t, "GetManifest", mock.Anything, mock.Anything)
	})

	t.Run("renderer failure", func(t *testing.T) {
		env := newTestEnv(t, &stubRenderer{err: errors.New("render failed")}, nil)
		env.reports.On("GetManifest", mock.Anything, int64(1)).Return(manifest, nil)

		rec := doJSON(t, env.router, http.MethodGet, "/api/reports/flights/1/pdf", nil)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("rendered", func(t *testing.T) {
		env := newTestEnv(t, &stubRenderer{content: []byte("%PDF-1.4"), ct: "application/pdf"}, nil)
		env.reports.On("GetManifest", mock.Anything, int64(1)).Return(manifest, nil)

		rec := doJSON(t, env.router, http.MethodGet, "/api/reports/flights/1/pdf", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4", rec.Body.String())
	})
}

func TestGetManifest_NotFound(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	env.reports.On("GetManifest", mock.Anything, int64(9)).Return(nil, repository.ErrNotFound)

	rec := doJSON(t, env.router, http.MethodGet, "/api/reports/flights/9", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
