package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInsufficientStock  = errors.New("stock insuficiente")

	// eTIMS
	ErrNotConfigured     = errors.New("dispositivo KRA no inicializado")
	ErrUnregisteredItem  = errors.New("artículo sin código KRA registrado")
	ErrUpstream          = errors.New("la KRA rechazó la solicitud")
	ErrUpstreamTransport = errors.New("no se pudo contactar a la KRA")
)
