package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/amine/notehub/internal/config"
	"github.com/amine/notehub/internal/domain"
	"github.com/amine/notehub/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const passwordHashCost = 10

type AuthService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Profile   json.RawMessage
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// Signup hashes the password and persists a new user. The returned user
// carries the hash internally but it is never serialized (json:"-").
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), passwordHashCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if len(input.Profile) > 0 {
		user.Profile = []byte(input.Profile)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailExists
		}
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a fresh token pair. Unknown email
// and wrong password fail with the same error so callers cannot probe for
// registered accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// RefreshTokens exchanges a valid refresh token for a new pair and rotates
// the stored hash. A token that has already been rotated fails the hash
// comparison, so each refresh token value is single-use.
func (s *AuthService) RefreshTokens(ctx context.Context, userID uuid.UUID, refreshToken string) (*AuthResult, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccessDenied
		}
		return nil, err
	}
	if user.RefreshTokenHash == nil {
		return nil, domain.ErrAccessDenied
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.RefreshTokenHash), fingerprint(refreshToken)); err != nil {
		return nil, domain.ErrRefreshTokenInvalid
	}

	return s.issueTokens(ctx, user)
}

// Validate resolves token claims to a user, used by protected routes.
func (s *AuthService) Validate(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return user, nil
}

// Logout clears the stored refresh-token hash, invalidating the
// outstanding refresh token.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.UpdateRefreshTokenHash(ctx, userID, nil)
}

func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	now := time.Now()

	accessToken, err := s.signToken(user, s.cfg.JWTAccessSecret, now, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.signToken(user, s.cfg.JWTRefreshSecret, now, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	hashedRefresh, err := bcrypt.GenerateFromPassword(fingerprint(refreshToken), passwordHashCost)
	if err != nil {
		return nil, err
	}

	hash := string(hashedRefresh)
	if err := s.userRepo.UpdateRefreshTokenHash(ctx, user.ID, &hash); err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) signToken(user *domain.User, secret string, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAccessToken verifies an access token and returns the subject.
func (s *AuthService) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	return s.parseToken(tokenString, s.cfg.JWTAccessSecret)
}

// ParseRefreshToken verifies a refresh token's signature and expiry. The
// stored-hash comparison happens separately in RefreshTokens.
func (s *AuthService) ParseRefreshToken(tokenString string) (uuid.UUID, error) {
	return s.parseToken(tokenString, s.cfg.JWTRefreshSecret)
}

func (s *AuthService) parseToken(tokenString, secret string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, errors.New("invalid token")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	return uuid.Parse(sub)
}

// fingerprint condenses a token to a fixed length before bcrypt, which
// rejects inputs longer than 72 bytes. Signed tokens always exceed that.
func fingerprint(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(hex.EncodeToString(sum[:]))
}
