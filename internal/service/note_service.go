package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/amine/notehub/internal/domain"
	"github.com/amine/notehub/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidPriority = errors.New("invalid priority")

type NoteService struct {
	noteRepo     repository.NoteRepository
	tagRepo      repository.TagRepository
	categoryRepo repository.CategoryRepository
}

func NewNoteService(noteRepo repository.NoteRepository, tagRepo repository.TagRepository, categoryRepo repository.CategoryRepository) *NoteService {
	return &NoteService{
		noteRepo:     noteRepo,
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
	}
}

// TagInput accepts either a bare string or a {"name": ...} object, the two
// shapes clients send for tags.
type TagInput struct {
	Name string
}

func (t *TagInput) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		t.Name = name
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("tag must be a string or an object with a name: %w", err)
	}
	t.Name = obj.Name
	return nil
}

func (t TagInput) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Name)
}

type CreateNoteInput struct {
	Name       string          `json:"name"`
	Content    string          `json:"content"`
	QuoteID    *string         `json:"quoteId"`
	CategoryID *uuid.UUID      `json:"categoryId"`
	Tags       []TagInput      `json:"tags"`
	Priority   domain.Priority `json:"priority"`
	ReminderAt *time.Time      `json:"reminderAt"`
}

type UpdateNoteInput struct {
	Name       *string          `json:"name"`
	Content    *string          `json:"content"`
	QuoteID    *string          `json:"quoteId"`
	CategoryID *uuid.UUID       `json:"categoryId"`
	Tags       []TagInput       `json:"tags"`
	Priority   *domain.Priority `json:"priority"`
	ReminderAt *time.Time       `json:"reminderAt"`
}

type NotesPage struct {
	Notes      []*domain.Note `json:"notes"`
	TotalPages int64          `json:"totalPages"`
}

func (s *NoteService) CreateNote(ctx context.Context, userID uuid.UUID, input CreateNoteInput) (*domain.Note, error) {
	category, err := s.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	note := &domain.Note{
		ID:         uuid.New(),
		Name:       input.Name,
		Content:    input.Content,
		QuoteID:    input.QuoteID,
		UserID:     userID,
		Tags:       tags,
		Priority:   priority,
		ReminderAt: input.ReminderAt,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if category != nil {
		note.CategoryID = &category.ID
		note.Category = category
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	return s.noteRepo.GetByID(ctx, note.ID)
}

// UpdateNote merges scalar fields over the stored note and fully replaces
// the tag set and category, mirroring create's resolution rules.
func (s *NoteService) UpdateNote(ctx context.Context, id uuid.UUID, input UpdateNoteInput) (*domain.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, err
	}

	category, err := s.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, input.Tags)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		note.Name = *input.Name
	}
	if input.Content != nil {
		note.Content = *input.Content
	}
	if input.QuoteID != nil {
		note.QuoteID = input.QuoteID
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, ErrInvalidPriority
		}
		note.Priority = *input.Priority
	}
	if input.ReminderAt != nil {
		note.ReminderAt = input.ReminderAt
	}

	note.Tags = tags
	note.Category = category
	note.CategoryID = nil
	if category != nil {
		note.CategoryID = &category.ID
	}
	note.UpdatedAt = time.Now()

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}

	return s.noteRepo.GetByID(ctx, id)
}

func (s *NoteService) DeleteNote(ctx context.Context, id, userID uuid.UUID) error {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNoteNotFound
		}
		return err
	}
	if note.UserID != userID {
		return domain.ErrNotNoteOwner
	}

	return s.noteRepo.Delete(ctx, note)
}

// GetNoteByID returns a note only to its owner. A missing note and a
// foreign note produce the same error so note ids cannot be probed.
func (s *NoteService) GetNoteByID(ctx context.Context, id, userID uuid.UUID) (*domain.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotNoteOwner
		}
		return nil, err
	}
	if note.UserID != userID {
		return nil, domain.ErrNotNoteOwner
	}
	return note, nil
}

func (s *NoteService) GetUserNotes(ctx context.Context, filter repository.NoteFilter) (*NotesPage, error) {
	filter.Normalize()

	notes, total, err := s.noteRepo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + int64(filter.Limit) - 1) / int64(filter.Limit)
	return &NotesPage{
		Notes:      notes,
		TotalPages: totalPages,
	}, nil
}

func (s *NoteService) CountNotes(ctx context.Context, userID uuid.UUID, lifecycle string) (int64, error) {
	return s.noteRepo.Count(ctx, userID, lifecycle)
}

func (s *NoteService) ArchiveNote(ctx context.Context, id, userID uuid.UUID) (*domain.Note, error) {
	return s.setLifecycle(ctx, id, userID, s.noteRepo.Archive)
}

func (s *NoteService) TrashNote(ctx context.Context, id, userID uuid.UUID) (*domain.Note, error) {
	return s.setLifecycle(ctx, id, userID, s.noteRepo.Trash)
}

func (s *NoteService) RestoreNote(ctx context.Context, id, userID uuid.UUID) (*domain.Note, error) {
	return s.setLifecycle(ctx, id, userID, s.noteRepo.Restore)
}

func (s *NoteService) setLifecycle(ctx context.Context, id, userID uuid.UUID, update func(context.Context, uuid.UUID) error) (*domain.Note, error) {
	note, err := s.noteRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, err
	}
	if note.UserID != userID {
		return nil, domain.ErrNotNoteOwner
	}

	if err := update(ctx, id); err != nil {
		return nil, err
	}

	return s.noteRepo.GetByID(ctx, id)
}

func (s *NoteService) FindDueReminders(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Note, error) {
	return s.noteRepo.FindDueReminders(ctx, userID, from, to)
}

func (s *NoteService) ClearReminder(ctx context.Context, id uuid.UUID) error {
	return s.noteRepo.ClearReminder(ctx, id)
}

func (s *NoteService) resolveCategory(ctx context.Context, id *uuid.UUID) (*domain.Category, error) {
	if id == nil {
		return nil, nil
	}
	category, err := s.categoryRepo.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCategory
		}
		return nil, err
	}
	return category, nil
}

// resolveTags maps tag inputs to canonical tag rows, deduplicating names
// and creating missing tags on first use.
func (s *NoteService) resolveTags(ctx context.Context, inputs []TagInput) ([]domain.Tag, error) {
	tags := make([]domain.Tag, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))

	for _, input := range inputs {
		if input.Name == "" || seen[input.Name] {
			continue
		}
		seen[input.Name] = true

		tag, err := s.tagRepo.FindOrCreate(ctx, input.Name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}

	return tags, nil
}
