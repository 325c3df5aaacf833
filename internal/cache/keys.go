package cache

import "fmt"

// GET /api/flights
func FlightListKey() string {
	return "vuelos:list"
}

// GET /api/reports/summary
func SummaryKey() string {
	return "reportes:resumen"
}

// GET /api/reports/flights/{flight_id}
func FlightManifestKey(flightID int64) string {
	return fmt.Sprintf("reportes:manifiesto:%d", flightID)
}
