package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/hcsmart/surgimart-api/internal/application/dto"
	appreturns "github.com/hcsmart/surgimart-api/internal/application/returns"
	"github.com/hcsmart/surgimart-api/internal/domain"
	domret "github.com/hcsmart/surgimart-api/internal/domain/returns"
)

// ReturnHandler maneja las peticiones HTTP de devoluciones (protegido).
type ReturnHandler struct {
	create *appreturns.CreateReturnUseCase
	status *appreturns.UpdateReturnStatusUseCase
	query  *appreturns.QueryReturnUseCase
	pdf    *appreturns.PDFUseCase
}

// NewReturnHandler construye el handler.
func NewReturnHandler(
	create *appreturns.CreateReturnUseCase,
	status *appreturns.UpdateReturnStatusUseCase,
	query *appreturns.QueryReturnUseCase,
	pdf *appreturns.PDFUseCase,
) *ReturnHandler {
	return &ReturnHandler{create: create, status: status, query: query, pdf: pdf}
}

// Create godoc
// @Summary      Registrar una devolución sobre una venta
// @Description  Localiza la venta original por número de factura, valida las
//
//	líneas seleccionadas contra el remanente devolvible y registra
//	la devolución con restock e historial de inventario.
//
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "invoice_number, return_reason, items (line_index + return_quantity)"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ValidationErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.create.CreateReturn(c.Context(), userID, in)
	if err != nil {
		return h.mapCreateError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// mapCreateError traduce los errores del flujo de devolución a HTTP.
func (h *ReturnHandler) mapCreateError(c *fiber.Ctx, err error) error {
	var schemaErr *domret.SchemaViolationError
	if errors.As(err, &schemaErr) {
		violations := make([]dto.ViolationDTO, 0, len(schemaErr.Violations))
		for _, v := range schemaErr.Violations {
			violations = append(violations, dto.ViolationDTO{Field: v.Field, Rule: v.Rule, Message: v.Message})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			Code:       "SCHEMA_VIOLATION",
			Message:    "la devolución viola el esquema",
			Violations: violations,
		})
	}
	switch {
	case errors.Is(err, domain.ErrSaleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SALE_NOT_FOUND", Message: "venta no encontrada"})
	case errors.Is(err, domain.ErrReturnExceedsRemainder):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EXCEEDS_REMAINDER", Message: "la cantidad supera el remanente devolvible"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: "cantidad de devolución fuera de rango"})
	case errors.Is(err, domain.ErrIncompleteSelection):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INCOMPLETE_SELECTION", Message: "debe seleccionar al menos una línea"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// GetByID godoc
// @Summary      Obtener una devolución con sus líneas
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id} [get]
func (h *ReturnHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id requerido"})
	}
	resp, err := h.query.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "devolución no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar devoluciones
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | completed | cancelled"
// @Param        limit   query  int     false  "Máximo de filas (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.ReturnResponse
// @Router       /api/returns [get]
func (h *ReturnHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	status := c.Query("status")
	list, err := h.query.List(c.Context(), status, page)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "estado inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(list)
}

// Complete godoc
// @Summary      Marcar una devolución pendiente como completada
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/complete [post]
func (h *ReturnHandler) Complete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.status.Complete(c.Context(), id); err != nil {
		return h.mapStatusError(c, err)
	}
	return c.JSON(fiber.Map{"message": "devolución completada"})
}

// Cancel godoc
// @Summary      Cancelar una devolución pendiente
// @Description  Revierte el restock y el acumulado devuelto con entradas
//
//	compensatorias en el libro de inventario.
//
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/cancel [post]
func (h *ReturnHandler) Cancel(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	id := c.Params("id")
	if err := h.status.Cancel(c.Context(), userID, id); err != nil {
		return h.mapStatusError(c, err)
	}
	return c.JSON(fiber.Map{"message": "devolución cancelada"})
}

func (h *ReturnHandler) mapStatusError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "devolución no encontrada"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "TERMINAL_STATUS", Message: "la devolución ya está en un estado terminal"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

// CreditNotePDF godoc
// @Summary      Descargar la nota crédito de una devolución en PDF
// @Tags         returns
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la devolución"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/{id}/pdf [get]
func (h *ReturnHandler) CreditNotePDF(c *fiber.Ctx) error {
	id := c.Params("id")
	data, err := h.pdf.GenerateCreditNote(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "devolución no encontrada"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="nota-credito-`+id+`.pdf"`)
	return c.Send(data)
}
