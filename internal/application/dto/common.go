package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrorResponse cuerpo de error para rechazos del validador de
// devoluciones: enumera todas las violaciones, no solo la primera.
type ValidationErrorResponse struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Violations []ViolationDTO `json:"violations"`
}

// ViolationDTO una violación de esquema (campo + regla incumplida).
type ViolationDTO struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}
