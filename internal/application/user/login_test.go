package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookadmin/internal/domain/user"
	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
	"github.com/xiebiao/bookadmin/pkg/jwt"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, name, email, password string) (*user.User, error) {
	args := m.Called(ctx, name, email, password)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*user.User, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *mockUserService) ValidatePassword(hashedPassword, plainPassword string) error {
	return m.Called(hashedPassword, plainPassword).Error(0)
}

type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) SaveSession(ctx context.Context, userID uint, data map[string]interface{}, ttl time.Duration) error {
	return m.Called(ctx, userID, data, ttl).Error(0)
}

func (m *mockSessionStore) DeleteSession(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockSessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	return m.Called(ctx, token, ttl).Error(0)
}

func TestRegisterUseCase(t *testing.T) {
	svc := new(mockUserService)
	svc.On("Register", mock.Anything, "gopher", "g@example.com", "pass1234").
		Return(&user.User{ID: 1, Name: "gopher", Email: "g@example.com", Password: "hash"}, nil)

	info, err := NewRegisterUseCase(svc).Execute(context.Background(), RegisterRequest{
		Name: "gopher", Email: "g@example.com", Password: "pass1234",
	})
	require.NoError(t, err)
	assert.Equal(t, &UserInfo{ID: 1, Name: "gopher", Email: "g@example.com"}, info)
}

func TestLoginUseCase(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour, 24*time.Hour)

	t.Run("成功并保存会话", func(t *testing.T) {
		svc := new(mockUserService)
		store := new(mockSessionStore)
		svc.On("Login", mock.Anything, "g@example.com", "pass1234").
			Return(&user.User{ID: 7, Name: "gopher", Email: "g@example.com"}, nil)
		store.On("SaveSession", mock.Anything, uint(7), mock.Anything, 24*time.Hour).Return(nil)

		uc := NewLoginUseCase(svc, manager, store, 24*time.Hour, zap.NewNop())
		resp, err := uc.Execute(context.Background(), LoginRequest{Email: "g@example.com", Password: "pass1234", ClientIP: "10.0.0.1"})
		require.NoError(t, err)

		assert.Equal(t, uint(7), resp.User.ID)
		assert.Equal(t, int64(3600), resp.ExpiresIn)
		claims, err := manager.ParseToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "gopher", claims.Name)
		store.AssertExpectations(t)
	})

	t.Run("会话保存失败不影响登录", func(t *testing.T) {
		svc := new(mockUserService)
		store := new(mockSessionStore)
		svc.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(&user.User{ID: 7}, nil)
		store.On("SaveSession", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

		_, err := NewLoginUseCase(svc, manager, store, time.Hour, zap.NewNop()).
			Execute(context.Background(), LoginRequest{Email: "g@example.com", Password: "x"})
		assert.NoError(t, err)
	})

	t.Run("密码错误", func(t *testing.T) {
		svc := new(mockUserService)
		svc.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, apperrors.ErrInvalidPassword)

		_, err := NewLoginUseCase(svc, manager, new(mockSessionStore), time.Hour, zap.NewNop()).
			Execute(context.Background(), LoginRequest{Email: "g@example.com", Password: "bad"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})
}

func TestLogoutUseCase(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour, 24*time.Hour)
	pair, err := manager.GenerateToken(7, "g@example.com", "gopher")
	require.NoError(t, err)
	claims, err := manager.ParseToken(pair.AccessToken)
	require.NoError(t, err)

	store := new(mockSessionStore)
	store.On("DeleteSession", mock.Anything, uint(7)).Return(nil)
	store.On("AddToBlacklist", mock.Anything, pair.AccessToken, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 59*time.Minute && ttl <= time.Hour
	})).Return(nil)

	require.NoError(t, NewLogoutUseCase(manager, store).Execute(context.Background(), claims, pair.AccessToken))
	store.AssertExpectations(t)
}
