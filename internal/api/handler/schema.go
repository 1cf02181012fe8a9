package handler

import (
	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/session"
)

// ── Auth ──────────────────────────────────────────────────────────────────────

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string           `json:"token,omitempty"`
	User  *domain.Identity `json:"user,omitempty"`
	// NeedsProfile is true for first-time users who must register a display name.
	NeedsProfile bool `json:"needs_profile"`
}

// ── Profile ───────────────────────────────────────────────────────────────────

type profileRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
}

// ── Taxonomy ──────────────────────────────────────────────────────────────────

// categoryRequest carries subcategories as the comma-separated form text.
type categoryRequest struct {
	MainCategory  string `json:"main_category"`
	SubCategories string `json:"sub_categories"`
}

type categoryResponse struct {
	domain.Category
	SubCategoriesText string `json:"sub_categories_text"`
}

type categoryListResponse struct {
	Data    []categoryResponse `json:"data"`
	Choices domain.Choices     `json:"choices"`
}

func toCategoryResponse(c domain.Category) categoryResponse {
	if c.SubCategories == nil {
		c.SubCategories = []string{}
	}
	return categoryResponse{Category: c, SubCategoriesText: c.SubCategoriesText()}
}

// ── History ───────────────────────────────────────────────────────────────────

type recordRequest struct {
	MainCategory string `json:"main_category" validate:"required"`
	SubCategory  string `json:"sub_category"  validate:"required"`
}

type historyResponse struct {
	Window session.WindowView `json:"window"`
	Prev   string             `json:"prev"`
	Next   string             `json:"next"`
	Days   []session.DayView  `json:"days"`
}

// ── Session ───────────────────────────────────────────────────────────────────

type choiceRequest struct {
	Name string `json:"name" validate:"required"`
}

type confirmResponse struct {
	Record *domain.CompletionRecord `json:"record"`
	View   session.View             `json:"view"`
}
