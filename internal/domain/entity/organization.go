package entity

import "time"

// Organization representa un tenant del sistema (un bar/local). Todo producto,
// inventario y transacción pertenece exactamente a una organización.
type Organization struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
