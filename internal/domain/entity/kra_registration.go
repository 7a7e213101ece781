package entity

import "time"

// Estados de una inicialización de dispositivo.
const (
	RegistrationSuccess = "success"
	RegistrationFailed  = "failed"
)

// KRARegistration resultado de selectInitOsdcInfo. La credencial vigente es la fila
// success más reciente.
type KRARegistration struct {
	ID           string
	TIN          string
	BhfID        string
	DeviceSerial string
	CmcKey       string // clave de comunicación (session key) para los headers
	SdcID        string
	MrcNo        string
	TaxpayerName string
	BranchName   string
	Status       string
	ResultCode   string
	ResultMsg    string
	CreatedAt    time.Time
}

// Credential datos que viajan como headers en cada llamada a la KRA.
type Credential struct {
	TIN    string
	BhfID  string
	CmcKey string
}

// Credential extrae la credencial de la inicialización.
func (r *KRARegistration) Credential() Credential {
	return Credential{TIN: r.TIN, BhfID: r.BhfID, CmcKey: r.CmcKey}
}
