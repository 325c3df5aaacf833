package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tamarabusta/Aerolineas/internal/models"
)

func TestCodePayload(t *testing.T) {
	res := &models.Reservation{Code: "AB12CD", Price: 150.5}
	flight := &models.Flight{
		Origin:      "EZE",
		Destination: "COR",
		Departure:   time.Date(2024, 7, 1, 8, 30, 0, 0, time.UTC),
	}
	passenger := &models.Passenger{Name: "Ana Gómez", Document: "30123456"}
	seat := &models.Seat{Number: "12C"}

	payload := CodePayload(res, flight, passenger, seat)

	assert.Contains(t, payload, "RESERVA: AB12CD")
	assert.Contains(t, payload, "PASAJERO: Ana Gómez")
	assert.Contains(t, payload, "DOCUMENTO: 30123456")
	assert.Contains(t, payload, "VUELO: EZE-COR")
	assert.Contains(t, payload, "SALIDA: 2024-07-01 08:30")
	assert.Contains(t, payload, "ASIENTO: 12C")
	assert.Contains(t, payload, "PRECIO: 150.50")
}

func TestCodePayload_MissingParts(t *testing.T) {
	assert.Empty(t, CodePayload(nil, nil, nil, nil))
}
