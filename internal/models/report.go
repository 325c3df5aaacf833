package models

// ManifestRow is one reservation line of a per-flight passenger report.
type ManifestRow struct {
	PassengerName     string  `json:"passenger_name"`
	PassengerDocument string  `json:"passenger_document"`
	SeatNumber        string  `json:"seat_number"`
	Price             float64 `json:"price"`
	ReservationCode   string  `json:"reservation_code"`
}

type FlightManifest struct {
	Flight *Flight       `json:"flight"`
	Rows   []ManifestRow `json:"rows"`
	Total  int           `json:"total"`
}

// Summary is the operator dashboard aggregate across the whole system.
type Summary struct {
	TotalFlights      int64   `json:"total_flights"`
	TotalReservations int64   `json:"total_reservations"`
	TotalPassengers   int64   `json:"total_passengers"`
	SeatsOccupied     int64   `json:"seats_occupied"`
	SeatsAvailable    int64   `json:"seats_available"`
	TotalRevenue      float64 `json:"total_revenue"`
}
