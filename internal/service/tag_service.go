package service

import (
	"context"
	"errors"

	"github.com/amine/notehub/internal/domain"
	"github.com/amine/notehub/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TagService struct {
	tagRepo repository.TagRepository
}

func NewTagService(tagRepo repository.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// CreateTag is find-or-create: tagging is idempotent by name.
func (s *TagService) CreateTag(ctx context.Context, name string) (*domain.Tag, error) {
	return s.tagRepo.FindOrCreate(ctx, name)
}

func (s *TagService) GetAllTags(ctx context.Context) ([]*domain.Tag, error) {
	return s.tagRepo.GetAll(ctx)
}

func (s *TagService) UpdateTag(ctx context.Context, id uuid.UUID, name string) (*domain.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTagNotFound
		}
		return nil, err
	}

	tag.Name = name
	if err := s.tagRepo.Update(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	err := s.tagRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrTagNotFound
	}
	return err
}
