package entity

import "time"

// Tipos de cliente.
const (
	CustomerTypeWalkIn  = "walk_in"
	CustomerTypeRegular = "regular"
)

// Customer representa un cliente del mart.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Type      string // walk_in | regular
	CreatedAt time.Time
	UpdatedAt time.Time
}
