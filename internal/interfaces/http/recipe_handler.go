package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafeteria-api/internal/application/catalog"
	"github.com/jhoicas/Cafeteria-api/internal/application/dto"
)

// RecipeHandler menú (recetas con su escandallo de ingredientes).
type RecipeHandler struct {
	uc  *catalog.RecipeUseCase
	val *Validator
}

func NewRecipeHandler(uc *catalog.RecipeUseCase, val *Validator) *RecipeHandler {
	return &RecipeHandler{uc: uc, val: val}
}

// Create POST /api/recipes
func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	var in dto.RecipeRequest
	if err := h.val.bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/recipes?active=true
func (h *RecipeHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.QueryBool("active", false), pageFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetByID GET /api/recipes/:id
func (h *RecipeHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update PUT /api/recipes/:id
func (h *RecipeHandler) Update(c *fiber.Ctx) error {
	var in dto.RecipeRequest
	if err := h.val.bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
