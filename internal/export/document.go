package export

import (
	"context"
	"fmt"

	"github.com/tamarabusta/Aerolineas/internal/models"
)

// TicketDocument is everything a rendered boarding document needs: the
// booking itself plus the flight, passenger and seat it refers to, and
// the text payload to encode as the scannable code.
type TicketDocument struct {
	Reservation *models.Reservation
	Ticket      *models.Ticket
	Flight      *models.Flight
	Passenger   *models.Passenger
	Seat        *models.Seat
	CodePayload string
}

// DocumentRenderer turns booking data into printable files (PDF or
// similar). Implementations are injected at wiring time; the core never
// depends on a concrete rendering backend.
type DocumentRenderer interface {
	RenderTicket(ctx context.Context, doc *TicketDocument) (content []byte, contentType string, err error)
	RenderManifest(ctx context.Context, manifest *models.FlightManifest) (content []byte, contentType string, err error)
}

// BarcodeGenerator renders the scannable image for a code payload.
type BarcodeGenerator interface {
	Generate(ctx context.Context, payload string) (png []byte, err error)
}

// CodePayload builds the text embedded in the ticket's scannable code.
// Scanners at the gate parse this line by line.
func CodePayload(res *models.Reservation, f *models.Flight, p *models.Passenger, seat *models.Seat) string {
	if res == nil || f == nil || p == nil || seat == nil {
		return ""
	}
	return fmt.Sprintf(
		"RESERVA: %s\nPASAJERO: %s\nDOCUMENTO: %s\nVUELO: %s-%s\nSALIDA: %s\nASIENTO: %s\nPRECIO: %.2f",
		res.Code,
		p.Name,
		p.Document,
		f.Origin,
		f.Destination,
		f.Departure.Format("2006-01-02 15:04"),
		seat.Number,
		res.Price,
	)
}
