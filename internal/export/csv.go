package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/tamarabusta/Aerolineas/internal/models"
)

// ManifestCSVHeader is the fixed column order of the manifest export.
var ManifestCSVHeader = []string{"Passenger", "Document", "Seat", "Price", "ReservationCode"}

// WriteManifestCSV streams the manifest rows as CSV, one line per
// reservation, preserving the order they came in.
func WriteManifestCSV(w io.Writer, rows []models.ManifestRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ManifestCSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.PassengerName,
			r.PassengerDocument,
			r.SeatNumber,
			strconv.FormatFloat(r.Price, 'f', 2, 64),
			r.ReservationCode,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ManifestCSVFilename names the downloaded file after the flight route.
func ManifestCSVFilename(f *models.Flight) string {
	if f == nil {
		return "manifiesto.csv"
	}
	return fmt.Sprintf("manifiesto_vuelo_%d_%s_%s.csv", f.ID, f.Origin, f.Destination)
}
