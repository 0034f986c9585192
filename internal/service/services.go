package service

import (
	"github.com/amine/notehub/internal/config"
	"github.com/amine/notehub/internal/repository"
)

type Services struct {
	Auth     *AuthService
	Note     *NoteService
	Tag      *TagService
	Category *CategoryService
	User     *UserService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:     NewAuthService(repos.User, cfg),
		Note:     NewNoteService(repos.Note, repos.Tag, repos.Category),
		Tag:      NewTagService(repos.Tag),
		Category: NewCategoryService(repos.Category),
		User:     NewUserService(repos.User),
	}
}
