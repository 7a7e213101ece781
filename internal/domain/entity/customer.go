package entity

import "time"

// Customer representa un cliente que puede pedir factura con su PIN KRA.
type Customer struct {
	ID        string
	Name      string
	KRAPIN    string // opcional; si existe se envía como custTin
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
