package entity

import "time"

// Tipos de operación registrados en la bitácora KRA.
const (
	KRATxItem        = "item"
	KRATxStockIO     = "stock_io"
	KRATxStockMaster = "stock_master"
)

// KRATransaction bitácora genérica de envíos de artículos y stock.
type KRATransaction struct {
	ID          string
	Kind        string
	ReferenceID string // id del ingrediente, receta o ajuste
	Request     []byte // JSON enviado
	Response    []byte // JSON recibido (vacío si falló el transporte)
	ResultCode  string
	ResultMsg   string
	Status      string // success | failed
	CreatedAt   time.Time
}
