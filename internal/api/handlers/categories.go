package handlers

import (
	"net/http"

	"github.com/amine/notehub/internal/api/respond"
	"github.com/amine/notehub/internal/service"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (req categoryRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	category, err := h.categoryService.CreateCategory(r.Context(), req.Name)
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.GetAllCategories(r.Context())
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}
