package entity

// TaxItem agrupa los códigos que la KRA exige para un artículo facturable.
// ItemCd queda vacío hasta que el artículo se registra con /saveItem.
type TaxItem struct {
	ItemCd    string // código de artículo asignado (ej. KE2NTU0000012)
	ItemClsCd string // código de clasificación de la KRA
	TaxType   string // A..E
	PkgUnitCd string
	QtyUnitCd string
}

// Registered indica si el artículo ya tiene código y clasificación KRA.
func (t TaxItem) Registered() bool {
	return t.ItemCd != "" && t.ItemClsCd != ""
}
