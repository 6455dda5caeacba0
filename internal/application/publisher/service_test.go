package publisher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookadmin/internal/domain/publisher"
	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, p *publisher.Publisher) error {
	args := m.Called(ctx, p)
	if args.Error(0) == nil {
		p.ID = 3
	}
	return args.Error(0)
}

func (m *mockRepo) FindByID(ctx context.Context, id uint) (*publisher.Publisher, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*publisher.Publisher)
	return p, args.Error(1)
}

func TestService_Create(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(p *publisher.Publisher) bool { return p.Name == "O'Reilly" })).Return(nil)

	id, err := NewService(repo).Create(context.Background(), "O'Reilly")
	require.NoError(t, err)
	assert.Equal(t, uint(3), id)
}

func TestService_Create_Invalid(t *testing.T) {
	repo := new(mockRepo)
	_, err := NewService(repo).Create(context.Background(), "")

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "name", appErr.Field)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Get_NotFound(t *testing.T) {
	repo := new(mockRepo)
	repo.On("FindByID", mock.Anything, uint(9)).Return(nil, publisher.ErrPublisherNotFound)

	_, err := NewService(repo).Get(context.Background(), 9)
	assert.ErrorIs(t, err, publisher.ErrPublisherNotFound)
}
