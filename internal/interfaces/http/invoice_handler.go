package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/etims"
)

// InvoiceHandler ventas y notas crédito enviadas a la KRA.
type InvoiceHandler struct {
	uc  *etims.UseCase
	val *Validator
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *etims.UseCase, val *Validator) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, val: val}
}

// submissionFailure respuesta de un envío rechazado: el error y la factura tal como quedó (failed).
type submissionFailure struct {
	dto.ErrorResponse
	Invoice *dto.SalesInvoiceResponse `json:"invoice"`
}

// respond escribe el resultado de un envío. Si la KRA rechazó pero la factura quedó guardada,
// se devuelve 502 con la factura para que el operador pueda reintentar.
func (h *InvoiceHandler) respond(c *fiber.Ctx, status int, out *dto.SalesInvoiceResponse, err error) error {
	if err == nil {
		return c.Status(status).JSON(out)
	}
	if out != nil && etims.IsSubmissionFailure(err) {
		code, errCode := statusFor(err)
		return c.Status(code).JSON(submissionFailure{
			ErrorResponse: dto.ErrorResponse{Code: errCode, Message: err.Error()},
			Invoice:       out,
		})
	}
	return err
}

// SubmitSale godoc
// @Summary      Facturar un pedido ante la KRA
// @Tags         etims
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SubmitSaleRequest  true  "order_id, customer_pin (opcional)"
// @Success      201   {object}  dto.SalesInvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse  "datos inválidos o artículo sin código KRA"
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      412   {object}  dto.ErrorResponse  "dispositivo KRA no inicializado"
// @Failure      502   {object}  dto.ErrorResponse  "rechazo o falla de comunicación con la KRA"
// @Router       /api/etims/sales [post]
func (h *InvoiceHandler) SubmitSale(c *fiber.Ctx) error {
	var in dto.SubmitSaleRequest
	if err := h.val.bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.SubmitSale(c.UserContext(), GetUserID(c), in)
	return h.respond(c, fiber.StatusCreated, out, err)
}

// Retry godoc
// @Summary      Reintentar una factura failed
// @Description  Reenvía con el mismo número de factura. Solo desde estado failed.
// @Tags         etims
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.SalesInvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/etims/invoices/{id}/retry [post]
func (h *InvoiceHandler) Retry(c *fiber.Ctx) error {
	out, err := h.uc.Retry(c.UserContext(), GetUserID(c), c.Params("id"))
	return h.respond(c, fiber.StatusOK, out, err)
}

// SubmitRefund POST /api/etims/invoices/:id/refund
func (h *InvoiceHandler) SubmitRefund(c *fiber.Ctx) error {
	var in dto.SubmitRefundRequest
	if len(c.Body()) > 0 {
		if err := h.val.bindBody(c, &in); err != nil {
			return err
		}
	}
	out, err := h.uc.SubmitRefund(c.UserContext(), GetUserID(c), c.Params("id"), in)
	return h.respond(c, fiber.StatusCreated, out, err)
}

// List GET /api/etims/invoices?kind=sale&status=failed
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	var in dto.InvoiceListRequest
	if err := c.QueryParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "query inválida")
	}
	in.PageRequest = pageFrom(c)
	if err := h.val.Validate(&in); err != nil {
		return err
	}
	out, err := h.uc.ListInvoices(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID GET /api/etims/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoice(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Receipt GET /api/etims/invoices/:id/receipt.pdf
func (h *InvoiceHandler) Receipt(c *fiber.Ctx) error {
	pdf, err := h.uc.ReceiptPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="receipt-`+c.Params("id")+`.pdf"`)
	return c.Send(pdf)
}

// Transactions GET /api/etims/invoices/:id/transactions
func (h *InvoiceHandler) Transactions(c *fiber.Ctx) error {
	out, err := h.uc.ListTransactions(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
