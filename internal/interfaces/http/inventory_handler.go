package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
	"github.com/jhoicas/Cafeteria-api/internal/application/inventory"
)

// InventoryHandler maneja ajustes de stock y sugerencias de compra.
type InventoryHandler struct {
	uc  *inventory.UseCase
	val *Validator
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase, val *Validator) *InventoryHandler {
	return &InventoryHandler{uc: uc, val: val}
}

// RegisterAdjustment godoc
// @Summary      Registrar ajuste de stock
// @Description  Actualiza el stock del ingrediente y, si submit_to_kra es true, informa el movimiento a la KRA.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "ingredient_id, sar_type_cd, quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.StockAdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) RegisterAdjustment(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := h.val.bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RegisterAdjustment(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAdjustments GET /api/inventory/adjustments?ingredient_id=
func (h *InventoryHandler) ListAdjustments(c *fiber.Ctx) error {
	out, err := h.uc.ListAdjustments(c.UserContext(), c.Query("ingredient_id"), pageFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Replenishment GET /api/inventory/replenishment
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.uc.ReplenishmentList(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}
