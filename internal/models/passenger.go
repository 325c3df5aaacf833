package models

import "time"

const (
	DocumentTypeNationalID = "DNI"
	DocumentTypePassport   = "Pasaporte"
)

type Passenger struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"nombre"`
	Document     string    `json:"document" db:"documento"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"telefono"`
	BirthDate    time.Time `json:"birth_date" db:"fecha_nacimiento"`
	DocumentType string    `json:"document_type" db:"tipo_documento"`
}

type PassengerRequest struct {
	Name         string    `json:"name"`
	Document     string    `json:"document"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	BirthDate    time.Time `json:"birth_date"`
	DocumentType string    `json:"document_type"`
}
