package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/amine/notehub/internal/domain"
	"github.com/amine/notehub/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *noteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *noteRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	var note domain.Note
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Category").
		First(&note, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// Update persists the note's scalar fields and fully replaces its tag set
// with note.Tags.
func (r *noteRepository) Update(ctx context.Context, note *domain.Note) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(note).Association("Tags").Replace(note.Tags); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Save(note).Error
	})
}

func (r *noteRepository) Delete(ctx context.Context, note *domain.Note) error {
	return r.db.WithContext(ctx).Select("Tags").Delete(note).Error
}

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
}

func applyFilter(db *gorm.DB, f repository.NoteFilter) *gorm.DB {
	q := db.Where("user_id = ?", f.UserID)

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("(name ILIKE ? OR content ILIKE ?)", pattern, pattern)
	}
	if f.FromDate != nil {
		q = q.Where("created_at >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where("created_at <= ?", *f.ToDate)
	}

	return applyLifecycle(q, f.Lifecycle)
}

func applyLifecycle(q *gorm.DB, lifecycle string) *gorm.DB {
	switch lifecycle {
	case repository.FilterAll:
		return q
	case repository.FilterArchived:
		return q.Where("is_archived = ?", true)
	case repository.FilterTrashed:
		return q.Where("is_trashed = ?", true)
	default:
		// Active view: neither archived nor trashed.
		return q.Where("is_archived = ? AND is_trashed = ?", false, false)
	}
}

func (r *noteRepository) Search(ctx context.Context, filter repository.NoteFilter) ([]*domain.Note, int64, error) {
	filter.Normalize()

	var total int64
	err := applyFilter(r.db.WithContext(ctx).Model(&domain.Note{}), filter).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var notes []*domain.Note
	err = applyFilter(r.db.WithContext(ctx), filter).
		Preload("Tags").
		Preload("Category").
		Order(fmt.Sprintf("%s %s", sortColumns[filter.SortBy], filter.Order)).
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&notes).Error
	if err != nil {
		return nil, 0, err
	}

	return notes, total, nil
}

func (r *noteRepository) Count(ctx context.Context, userID uuid.UUID, lifecycle string) (int64, error) {
	var total int64
	q := r.db.WithContext(ctx).Model(&domain.Note{}).Where("user_id = ?", userID)
	err := applyLifecycle(q, lifecycle).Count(&total).Error
	return total, err
}

func (r *noteRepository) Archive(ctx context.Context, id uuid.UUID) error {
	return r.updateFlags(ctx, id, map[string]any{"is_archived": true})
}

func (r *noteRepository) Trash(ctx context.Context, id uuid.UUID) error {
	return r.updateFlags(ctx, id, map[string]any{"is_trashed": true})
}

func (r *noteRepository) Restore(ctx context.Context, id uuid.UUID) error {
	return r.updateFlags(ctx, id, map[string]any{"is_archived": false, "is_trashed": false})
}

func (r *noteRepository) updateFlags(ctx context.Context, id uuid.UUID, flags map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Note{}).
		Where("id = ?", id).
		Updates(flags)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindDueReminders returns notes with a reminder in the half-open window
// [from, to).
func (r *noteRepository) FindDueReminders(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Note, error) {
	var notes []*domain.Note
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("reminder_at >= ? AND reminder_at < ?", from, to).
		Order("reminder_at ASC").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// ClearReminder nulls the reminder timestamp so it cannot refire. Safe to
// call on a note whose reminder is already cleared.
func (r *noteRepository) ClearReminder(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Note{}).
		Where("id = ?", id).
		Update("reminder_at", nil).Error
}
