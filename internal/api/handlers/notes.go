package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/amine/notehub/internal/api/middleware"
	"github.com/amine/notehub/internal/api/respond"
	"github.com/amine/notehub/internal/domain"
	"github.com/amine/notehub/internal/repository"
	"github.com/amine/notehub/internal/service"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const (
	dueLookback    = time.Minute
	upcomingWindow = 5 * time.Minute
)

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input service.CreateNoteInput
	if !respond.Decode(w, r, &input) {
		return
	}
	err := validation.Errors{
		"name":    validation.Validate(input.Name, validation.Required),
		"content": validation.Validate(input.Content, validation.Required),
	}.Filter()
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	note, err := h.noteService.CreateNote(r.Context(), userID, input)
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, note)
}

// List serves both GET /api/notes and its /search alias.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter := repository.NoteFilter{
		UserID:    userID,
		Search:    r.URL.Query().Get("search"),
		SortBy:    r.URL.Query().Get("sortBy"),
		Order:     r.URL.Query().Get("order"),
		Lifecycle: r.URL.Query().Get("filter"),
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("page"); v != "" {
		filter.Page, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("fromDate"); v != "" {
		from, err := parseDate(v)
		if err != nil {
			respond.Error(w, r, http.StatusBadRequest, "invalid fromDate")
			return
		}
		filter.FromDate = &from
	}
	if v := r.URL.Query().Get("toDate"); v != "" {
		to, err := parseDate(v)
		if err != nil {
			respond.Error(w, r, http.StatusBadRequest, "invalid toDate")
			return
		}
		filter.ToDate = &to
	}

	page, err := h.noteService.GetUserNotes(r.Context(), filter)
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, page)
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	note, err := h.noteService.GetNoteByID(r.Context(), noteID, userID)
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	// Ownership check before any mutation; missing and foreign notes are
	// indistinguishable to the caller.
	if _, err := h.noteService.GetNoteByID(r.Context(), noteID, userID); err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	var input service.UpdateNoteInput
	if !respond.Decode(w, r, &input) {
		return
	}

	note, err := h.noteService.UpdateNote(r.Context(), noteID, input)
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, noteID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.noteService.DeleteNote(r.Context(), noteID, userID); err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"message": "Note deleted successfully"})
}

func (h *NoteHandler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setLifecycle(w, r, h.noteService.ArchiveNote)
}

func (h *NoteHandler) Trash(w http.ResponseWriter, r *http.Request) {
	h.setLifecycle(w, r, h.noteService.TrashNote)
}

func (h *NoteHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setLifecycle(w, r, h.noteService.RestoreNote)
}

// Reminders returns notes that fired within the past minute and notes due
// within the next five.
func (h *NoteHandler) Reminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	now := time.Now()

	due, err := h.noteService.FindDueReminders(r.Context(), userID, now.Add(-dueLookback), now)
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	upcoming, err := h.noteService.FindDueReminders(r.Context(), userID, now, now.Add(upcomingWindow))
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"due":      due,
		"upcoming": upcoming,
	})
}

func (h *NoteHandler) Count(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	count, err := h.noteService.CountNotes(r.Context(), userID, r.URL.Query().Get("filter"))
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *NoteHandler) setLifecycle(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id, userID uuid.UUID) (*domain.Note, error)) {
	userID, noteID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	note, err := op(r.Context(), noteID, userID)
	if err != nil {
		respond.ServiceError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, note)
}

func (h *NoteHandler) requestIDs(w http.ResponseWriter, r *http.Request) (userID, noteID uuid.UUID, ok bool) {
	userID, idOK := middleware.GetUserID(r.Context())
	if !idOK {
		respond.Error(w, r, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	noteID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, r, http.StatusBadRequest, "invalid note id")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, noteID, true
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
