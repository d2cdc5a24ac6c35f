package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/content-paywall/internal/lib/jwt"
	"github.com/magabrotheeeer/content-paywall/internal/lib/password"
	"github.com/magabrotheeeer/content-paywall/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *RepoMock) HasUser(ctx context.Context, username, email string) (bool, error) {
	args := m.Called(ctx, username, email)
	return args.Bool(0), args.Error(1)
}

func newTestMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret", time.Hour)
}

func TestRegisterUser(t *testing.T) {
	t.Run("успешная регистрация с ролью user", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, newTestMaker())

		repo.On("HasUser", mock.Anything, "alice", "alice@example.com").Return(false, nil).Once()
		repo.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Username == "alice" &&
				u.Email == "alice@example.com" &&
				u.Role == models.RoleUser &&
				u.PasswordHash != "" &&
				u.PasswordHash != "secret123"
		})).Return("uid-1", nil).Once()

		uid, err := svc.RegisterUser(context.Background(), "alice", "alice@example.com", "secret123")
		assert.NoError(t, err)
		assert.Equal(t, "uid-1", uid)
		repo.AssertExpectations(t)
	})

	t.Run("занятое имя пользователя", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, newTestMaker())

		repo.On("HasUser", mock.Anything, "alice", "alice@example.com").Return(true, nil).Once()

		_, err := svc.RegisterUser(context.Background(), "alice", "alice@example.com", "secret123")
		assert.ErrorIs(t, err, ErrUserExists)
		repo.AssertNotCalled(t, "RegisterUser", mock.Anything, mock.Anything)
	})
}

func TestLoginUser(t *testing.T) {
	hash, err := password.GetHash("secret123")
	assert.NoError(t, err)

	user := &models.User{
		UID:          "uid-1",
		Username:     "alice",
		PasswordHash: hash,
		Role:         models.RoleUser,
	}

	t.Run("успешный вход возвращает валидный токен", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, newTestMaker())

		repo.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil).Once()

		token, err := svc.LoginUser(context.Background(), "alice", "secret123")
		assert.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, models.RoleUser, claims.Role)
		assert.Equal(t, "uid-1", claims.UserUID)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, newTestMaker())

		repo.On("GetUserByUsername", mock.Anything, "alice").Return(user, nil).Once()

		_, err := svc.LoginUser(context.Background(), "alice", "wrong-password")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("несуществующий пользователь", func(t *testing.T) {
		repo := new(RepoMock)
		svc := New(repo, newTestMaker())

		repo.On("GetUserByUsername", mock.Anything, "bob").Return(nil, errors.New("not found")).Once()

		_, err := svc.LoginUser(context.Background(), "bob", "secret123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestValidateToken_Invalid(t *testing.T) {
	svc := New(new(RepoMock), newTestMaker())

	_, err := svc.ValidateToken("not-a-token")
	assert.Error(t, err)

	otherMaker := jwt.NewJWTMaker("other-secret", time.Hour)
	token, err := otherMaker.GenerateToken("alice", models.RoleUser, "uid-1")
	assert.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
