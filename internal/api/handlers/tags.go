package handlers

import (
	"net/http"

	"github.com/amine/notehub/internal/api/respond"
	"github.com/amine/notehub/internal/service"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type TagHandler struct {
	tagService *service.TagService
}

func NewTagHandler(tagService *service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

type tagRequest struct {
	Name string `json:"name"`
}

func (req tagRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	)
}

func (h *TagHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	tag, err := h.tagService.CreateTag(r.Context(), req.Name)
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, tag)
}

func (h *TagHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.GetAllTags(r.Context())
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, tags)
}

func (h *TagHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid tag id")
		return
	}

	var req tagRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	tag, err := h.tagService.UpdateTag(r.Context(), id, req.Name)
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, tag)
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid tag id")
		return
	}

	if err := h.tagService.DeleteTag(r.Context(), id); err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Tag deleted successfully"})
}
