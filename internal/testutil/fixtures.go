package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/amine/notehub/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	email     string
	firstName string
	lastName  string
	password  string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		email:     fmt.Sprintf("user_%s@example.com", uuid.New().String()[:8]),
		firstName: "Test",
		lastName:  "User",
		password:  "testpassword123",
	}
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithName sets first and last name
func (b *UserBuilder) WithName(first, last string) *UserBuilder {
	b.firstName = first
	b.lastName = last
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        b.email,
		FirstName:    b.firstName,
		LastName:     b.lastName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a user via the API and logs it in,
// returning the user and an access token.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	signupBody, _ := json.Marshal(map[string]string{
		"firstName": b.firstName,
		"lastName":  b.lastName,
		"email":     b.email,
		"password":  b.password,
	})

	resp, err := http.Post(ts.AuthURL("/signup"), "application/json", bytes.NewBuffer(signupBody))
	if err != nil {
		t.Fatalf("failed to sign up user: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected signup status code: %d", resp.StatusCode)
	}

	loginBody, _ := json.Marshal(map[string]string{
		"email":    b.email,
		"password": b.password,
	})

	resp, err = http.Post(ts.AuthURL("/login"), "application/json", bytes.NewBuffer(loginBody))
	if err != nil {
		t.Fatalf("failed to log in user: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:        userID,
		Email:     authResp.User.Email,
		FirstName: authResp.User.FirstName,
		LastName:  authResp.User.LastName,
	}

	return user, authResp.AccessToken
}

// NoteBuilder creates test notes with a builder pattern
type NoteBuilder struct {
	owner      *domain.User
	name       string
	content    string
	priority   domain.Priority
	isArchived bool
	isTrashed  bool
	reminderAt *time.Time
	createdAt  *time.Time
	tags       []domain.Tag
	category   *domain.Category
}

// NewNoteBuilder creates a new NoteBuilder with default values
func NewNoteBuilder() *NoteBuilder {
	return &NoteBuilder{
		name:     fmt.Sprintf("note_%s", uuid.New().String()[:8]),
		content:  "test content",
		priority: domain.PriorityMedium,
	}
}

// WithOwner sets the note owner
func (b *NoteBuilder) WithOwner(user *domain.User) *NoteBuilder {
	b.owner = user
	return b
}

// WithName sets the note name
func (b *NoteBuilder) WithName(name string) *NoteBuilder {
	b.name = name
	return b
}

// WithContent sets the note content
func (b *NoteBuilder) WithContent(content string) *NoteBuilder {
	b.content = content
	return b
}

// WithPriority sets the priority
func (b *NoteBuilder) WithPriority(p domain.Priority) *NoteBuilder {
	b.priority = p
	return b
}

// Archived marks the note archived
func (b *NoteBuilder) Archived() *NoteBuilder {
	b.isArchived = true
	return b
}

// Trashed marks the note trashed
func (b *NoteBuilder) Trashed() *NoteBuilder {
	b.isTrashed = true
	return b
}

// WithReminder sets the reminder timestamp
func (b *NoteBuilder) WithReminder(at time.Time) *NoteBuilder {
	b.reminderAt = &at
	return b
}

// WithCreatedAt overrides the creation timestamp
func (b *NoteBuilder) WithCreatedAt(at time.Time) *NoteBuilder {
	b.createdAt = &at
	return b
}

// WithTags attaches existing tag rows
func (b *NoteBuilder) WithTags(tags ...domain.Tag) *NoteBuilder {
	b.tags = tags
	return b
}

// WithCategory attaches an existing category
func (b *NoteBuilder) WithCategory(category *domain.Category) *NoteBuilder {
	b.category = category
	return b
}

// Build creates the note in the database
func (b *NoteBuilder) Build(t *testing.T, db *gorm.DB) *domain.Note {
	t.Helper()

	if b.owner == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.owner = user
	}

	now := time.Now()
	if b.createdAt != nil {
		now = *b.createdAt
	}

	note := &domain.Note{
		ID:         uuid.New(),
		Name:       b.name,
		Content:    b.content,
		UserID:     b.owner.ID,
		Priority:   b.priority,
		IsArchived: b.isArchived,
		IsTrashed:  b.isTrashed,
		ReminderAt: b.reminderAt,
		Tags:       b.tags,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if b.category != nil {
		note.CategoryID = &b.category.ID
	}

	if err := db.Create(note).Error; err != nil {
		t.Fatalf("failed to create note: %v", err)
	}

	return note
}

// SeedTag creates a tag row
func SeedTag(t *testing.T, db *gorm.DB, name string) *domain.Tag {
	t.Helper()

	tag := &domain.Tag{ID: uuid.New(), Name: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

// SeedCategory creates a category row
func SeedCategory(t *testing.T, db *gorm.DB, name string) *domain.Category {
	t.Helper()

	category := &domain.Category{ID: uuid.New(), Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create category: %v", err)
	}
	return category
}

// SeedNotes creates N notes for an owner
func SeedNotes(t *testing.T, db *gorm.DB, owner *domain.User, count int) []*domain.Note {
	t.Helper()

	notes := make([]*domain.Note, count)
	for i := 0; i < count; i++ {
		notes[i] = NewNoteBuilder().
			WithOwner(owner).
			WithName(fmt.Sprintf("note %02d", i)).
			Build(t, db)
	}
	return notes
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
