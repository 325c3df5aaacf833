package models

type Aircraft struct {
	ID       int64  `json:"id" db:"id"`
	Model    string `json:"model" db:"modelo"`
	Capacity int    `json:"capacity" db:"capacidad"`
	Rows     int    `json:"rows" db:"filas"`
	Columns  int    `json:"columns" db:"columnas"`
}

type AircraftRequest struct {
	Model    string `json:"model"`
	Capacity int    `json:"capacity"`
	Rows     int    `json:"rows"`
	Columns  int    `json:"columns"`
}
