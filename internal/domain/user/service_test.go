package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	if args.Error(0) == nil {
		u.ID = 1
	}
	return args.Error(0)
}

func (m *mockRepo) FindByID(ctx context.Context, id uint) (*User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func (m *mockRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*User)
	return u, args.Error(1)
}

func newTestService(repo Repository) *service {
	return &service{repo: repo, cost: bcrypt.MinCost}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("注册成功，密码已加密", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

		u, err := newTestService(repo).Register(ctx, "张三", "zhangsan@example.com", "password123")
		require.NoError(t, err)
		assert.Equal(t, uint(1), u.ID)
		assert.NotEqual(t, "password123", u.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password123")))
		repo.AssertExpectations(t)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("Create", ctx, mock.Anything).Return(apperrors.ErrEmailDuplicate)

		_, err := newTestService(repo).Register(ctx, "张三", "dup@example.com", "password123")
		assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
	})

	t.Run("参数非法不访问仓储", func(t *testing.T) {
		repo := new(mockRepo)
		s := newTestService(repo)

		_, err := s.Register(ctx, "", "bad-email", "password123")
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.KindInvalidParam, appErr.Kind)
		assert.Contains(t, appErr.Fields, "name")
		assert.Contains(t, appErr.Fields, "email")

		_, err = s.Register(ctx, "张三", "a@example.com", "onlyletters")
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword)

		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &User{ID: 5, Name: "张三", Email: "zhangsan@example.com", Password: string(hashed)}

	repo := new(mockRepo)
	repo.On("FindByEmail", ctx, "zhangsan@example.com").Return(stored, nil)
	repo.On("FindByEmail", ctx, "nobody@example.com").Return(nil, apperrors.ErrUserNotFound)
	s := newTestService(repo)

	u, err := s.Login(ctx, "zhangsan@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, uint(5), u.ID)

	_, err = s.Login(ctx, "zhangsan@example.com", "wrong-pass1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	_, err = s.Login(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}
