package repository

import (
	"context"
	"strings"
	"time"

	"github.com/amine/notehub/internal/domain"
	"github.com/google/uuid"
)

// Lifecycle filters for note listing.
const (
	FilterAll      = "all"
	FilterArchived = "archived"
	FilterTrashed  = "trashed"
)

const (
	DefaultLimit = 10
	DefaultSort  = "updatedAt"
)

// NoteFilter describes a notes listing query. The zero value plus a UserID
// is a valid filter: active notes, newest updated first, first page of 10.
type NoteFilter struct {
	UserID    uuid.UUID
	Search    string
	FromDate  *time.Time
	ToDate    *time.Time
	Limit     int
	Page      int
	SortBy    string
	Order     string
	Lifecycle string
}

// Normalize clamps pagination to sane values and resolves the sort
// allow-list. Unknown sort fields fall back to updatedAt, unknown order
// falls back to DESC, non-positive limit/page are clamped.
func (f *NoteFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	switch f.SortBy {
	case "createdAt", "updatedAt", "name":
	default:
		f.SortBy = DefaultSort
	}
	if strings.EqualFold(f.Order, "ASC") {
		f.Order = "ASC"
	} else {
		f.Order = "DESC"
	}
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetAll(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateRefreshTokenHash(ctx context.Context, id uuid.UUID, hash *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, note *domain.Note) error
	Search(ctx context.Context, filter NoteFilter) ([]*domain.Note, int64, error)
	Count(ctx context.Context, userID uuid.UUID, lifecycle string) (int64, error)
	Archive(ctx context.Context, id uuid.UUID) error
	Trash(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	FindDueReminders(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Note, error)
	ClearReminder(ctx context.Context, id uuid.UUID) error
}

type TagRepository interface {
	FindOrCreate(ctx context.Context, name string) (*domain.Tag, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Tag, error)
	GetAll(ctx context.Context) ([]*domain.Tag, error)
	Update(ctx context.Context, tag *domain.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRepository interface {
	FindOrCreate(ctx context.Context, name string) (*domain.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	GetAll(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User     UserRepository
	Note     NoteRepository
	Tag      TagRepository
	Category CategoryRepository
}
