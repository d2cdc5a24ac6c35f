// Package auth реализует регистрацию и аутентификацию пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/content-paywall/internal/lib/jwt"
	"github.com/magabrotheeeer/content-paywall/internal/lib/password"
	"github.com/magabrotheeeer/content-paywall/internal/models"
)

// Repository определяет методы хранилища для работы с пользователями.
type Repository interface {
	// RegisterUser создает пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает пользователя по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// HasUser проверяет существование пользователя с таким именем или email.
	HasUser(ctx context.Context, username, email string) (bool, error)
}

// ErrUserExists возвращается при регистрации занятого имени или email.
var ErrUserExists = errors.New("user already exists")

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService реализует регистрацию и выдачу JWT-токенов.
type AuthService struct {
	repo  Repository
	maker jwt.Maker
}

// New создает новый экземпляр AuthService.
func New(repo Repository, maker jwt.Maker) *AuthService {
	return &AuthService{repo: repo, maker: maker}
}

// RegisterUser регистрирует нового пользователя с ролью user и возвращает его UID.
func (s *AuthService) RegisterUser(ctx context.Context, username, email, pass string) (string, error) {
	const op = "auth.RegisterUser"

	exists, err := s.repo.HasUser(ctx, username, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return "", fmt.Errorf("%s: %w", op, ErrUserExists)
	}

	hash, err := password.GetHash(pass)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	uid, err := s.repo.RegisterUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleUser,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// LoginUser проверяет пару логин/пароль и возвращает JWT-токен.
func (s *AuthService) LoginUser(ctx context.Context, username, pass string) (string, error) {
	const op = "auth.LoginUser"

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err := password.CompareHash(user.PasswordHash, pass); err != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.maker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ValidateToken разбирает JWT-токен и возвращает его claims.
func (s *AuthService) ValidateToken(token string) (*jwt.CustomClaims, error) {
	const op = "auth.ValidateToken"

	claims, err := s.maker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return claims, nil
}
