package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ventas/internal/application/auth"
	"github.com/jhoicas/inventario-ventas/internal/application/dto"
	"github.com/jhoicas/inventario-ventas/internal/application/usecase"
)

// CategoryHandler categorías y subcategorías.
type CategoryHandler struct {
	gw *auth.Gateway
	uc *usecase.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(gw *auth.Gateway, uc *usecase.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{gw: gw, uc: uc}
}

// List godoc
// @Summary      Categorías con sus subcategorías
// @Tags         categories
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context())
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Nombre"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// Rename godoc
// @Summary      Renombrar categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID"
// @Param        body  body  dto.CategoryRequest  true  "Nombre"
// @Success      200   {object}  dto.SuccessResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Rename(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.Rename(c.Context(), c.Params("id"), in); err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

// Delete godoc
// @Summary      Eliminar categoría y sus subcategorías
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

// CreateSubcategory godoc
// @Summary      Crear subcategoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la categoría"
// @Param        body  body  dto.CategoryRequest  true  "Nombre"
// @Success      201   {object}  dto.SubcategoryResponse
// @Router       /api/categories/{id}/subcategories [post]
func (h *CategoryHandler) CreateSubcategory(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateSubcategory(c.Context(), c.Params("id"), in)
	if err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// RenameSubcategory godoc
// @Summary      Renombrar subcategoría
// @Tags         categories
// @Security     Bearer
// @Router       /api/subcategories/{id} [put]
func (h *CategoryHandler) RenameSubcategory(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.RenameSubcategory(c.Context(), c.Params("id"), in); err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, nil)
}

// DeleteSubcategory godoc
// @Summary      Eliminar subcategoría
// @Tags         categories
// @Security     Bearer
// @Router       /api/subcategories/{id} [delete]
func (h *CategoryHandler) DeleteSubcategory(c *fiber.Ctx) error {
	if err := h.uc.DeleteSubcategory(c.Context(), c.Params("id")); err != nil {
		return fail(c, h.gw, err)
	}
	return ok(c, fiber.StatusOK, nil)
}
