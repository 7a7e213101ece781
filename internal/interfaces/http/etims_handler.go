package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/etims"
)

// EtimsHandler dispositivo OSCU, registro de artículos, movimientos de stock y catálogos KRA.
type EtimsHandler struct {
	uc  *etims.UseCase
	val *Validator
}

func NewEtimsHandler(uc *etims.UseCase, val *Validator) *EtimsHandler {
	return &EtimsHandler{uc: uc, val: val}
}

// InitializeDevice godoc
// @Summary      Inicializar el dispositivo OSCU
// @Description  Llama selectInitOsdcInfo y guarda la credencial (cmcKey). Campos vacíos usan la configuración.
// @Tags         etims
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.InitializeDeviceRequest  false  "tin, bhf_id, device_serial"
// @Success      201   {object}  dto.RegistrationResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/etims/device [post]
func (h *EtimsHandler) InitializeDevice(c *fiber.Ctx) error {
	var in dto.InitializeDeviceRequest
	if len(c.Body()) > 0 {
		if err := h.val.bindBody(c, &in); err != nil {
			return err
		}
	}
	out, err := h.uc.InitializeDevice(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Registrations GET /api/etims/device
func (h *EtimsHandler) Registrations(c *fiber.Ctx) error {
	out, err := h.uc.ListRegistrations(c.UserContext(), pageFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RegisterItem POST /api/etims/items
func (h *EtimsHandler) RegisterItem(c *fiber.Ctx) error {
	var in dto.RegisterItemRequest
	if err := h.val.bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RegisterItem(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ItemClassifications GET /api/etims/item-classes
func (h *EtimsHandler) ItemClassifications(c *fiber.Ctx) error {
	out, err := h.uc.ItemClassifications(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// LookupCustomer GET /api/etims/customers/:pin
func (h *EtimsHandler) LookupCustomer(c *fiber.Ctx) error {
	out, err := h.uc.LookupCustomer(c.UserContext(), c.Params("pin"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SubmitStockMovement POST /api/etims/stock/:adjustmentId
// Reenvía a la KRA un ajuste registrado sin envío o cuyo envío falló.
func (h *EtimsHandler) SubmitStockMovement(c *fiber.Ctx) error {
	out, err := h.uc.SubmitStockMovement(c.UserContext(), GetUserID(c), c.Params("adjustmentId"))
	if err != nil {
		if out != nil && etims.IsSubmissionFailure(err) {
			code, errCode := statusFor(err)
			return c.Status(code).JSON(fiber.Map{"code": errCode, "message": err.Error(), "adjustment": out})
		}
		return err
	}
	return c.JSON(out)
}

// Transactions GET /api/etims/transactions/:referenceId
func (h *EtimsHandler) Transactions(c *fiber.Ctx) error {
	out, err := h.uc.ListTransactions(c.UserContext(), c.Params("referenceId"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
