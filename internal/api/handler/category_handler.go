package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
)

// CategoryHandler serves the taxonomy management screen.
type CategoryHandler struct {
	taxonomy ports.TaxonomyService
}

func NewCategoryHandler(taxonomy ports.TaxonomyService) *CategoryHandler {
	return &CategoryHandler{taxonomy: taxonomy}
}

// List returns every category plus the picker options derived from them.
//
// @Summary      List categories
// @Tags         categories
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  categoryListResponse
// @Failure      503  {object}  map[string]string
// @Router       /v1/categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	cats, err := h.taxonomy.List(c.Request().Context())
	if err != nil {
		return err
	}

	data := make([]categoryResponse, 0, len(cats))
	for _, cat := range cats {
		data = append(data, toCategoryResponse(cat))
	}
	return c.JSON(http.StatusOK, categoryListResponse{Data: data, Choices: domain.BuildChoices(cats)})
}

// Create adds a category. sub_categories is comma-separated text.
//
// @Summary      Create category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  categoryResponse
// @Failure      422   {object}  map[string]string
// @Router       /v1/categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cat, err := h.taxonomy.Create(c.Request().Context(), req.MainCategory, req.SubCategories)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(*cat))
}

// Update replaces a category's name and subcategories.
//
// @Summary      Update category
// @Tags         categories
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Category ID"
// @Param        body  body      categoryRequest  true  "Category"
// @Success      200   {object}  categoryResponse
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cat, err := h.taxonomy.Update(c.Request().Context(), c.Param("id"), req.MainCategory, req.SubCategories)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(*cat))
}

// Delete removes a category. Deleting an unknown id succeeds.
//
// @Summary      Delete category
// @Tags         categories
// @Security     BearerAuth
// @Param        id   path  string  true  "Category ID"
// @Success      204
// @Failure      503  {object}  map[string]string
// @Router       /v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	if err := h.taxonomy.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
