package entity

import "time"

// Category agrupa productos dentro de una organización (cervezas, cócteles, etc.).
type Category struct {
	ID             string
	OrganizationID string
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
