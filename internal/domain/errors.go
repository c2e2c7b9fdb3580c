package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrSaleNotFound           = errors.New("venta no encontrada")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInvalidQuantity        = errors.New("cantidad de devolución fuera de rango")
	ErrIncompleteSelection    = errors.New("selección de devolución incompleta")
	ErrReturnExceedsRemainder = errors.New("la cantidad supera el remanente devolvible")
	ErrSubmissionFailed       = errors.New("el envío de la devolución falló")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrForbidden              = errors.New("acceso denegado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInsufficientStock      = errors.New("stock insuficiente")
)
