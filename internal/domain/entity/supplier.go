package entity

import "time"

// Supplier proveedor de ingredientes.
type Supplier struct {
	ID          string
	Name        string
	KRAPIN      string
	ContactName string
	Phone       string
	Email       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
