package handlers

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, catalog *CatalogHandler, reservations *ReservationHandler, reports *ReportHandler) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/aircraft", func(r chi.Router) {
			r.Post("/", catalog.CreateAircraft)
			r.Get("/", catalog.ListAircraft)
			r.Post("/{aircraft_id}/seats", catalog.CreateSeat)
			r.Get("/{aircraft_id}/seats", catalog.ListSeats)
		})

		r.Route("/passengers", func(r chi.Router) {
			r.Post("/", catalog.CreatePassenger)
			r.Get("/", catalog.GetPassenger)
		})

		r.Route("/flights", func(r chi.Router) {
			r.Post("/", catalog.CreateFlight)
			r.Get("/", reports.ListFlights)
			r.Patch("/{flight_id}/status", catalog.UpdateFlightStatus)
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", reservations.CreateReservation)
			r.Get("/code/{code}", reservations.GetReservationByCode)
			r.Get("/{reservation_id}", reservations.GetReservation)
			r.Get("/{reservation_id}/document", reservations.GetReservationDocument)
		})

		r.Post("/tickets/{ticket_id}/void", reservations.VoidTicket)

		r.Route("/reports", func(r chi.Router) {
			r.Get("/summary", reports.GetSummary)
			r.Get("/flights/{flight_id}", reports.GetManifest)
			r.Get("/flights/{flight_id}/csv", reports.GetManifestCSV)
			r.Get("/flights/{flight_id}/pdf", reports.GetManifestPDF)
		})
	})
}
