package entity

import "time"

// Client representa un cliente facturable; es dueño de sus órdenes y facturas.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	TaxID     string
	Currency  string // moneda por defecto (ISO 4217)
	CreatedAt time.Time
	UpdatedAt time.Time
}
