package book

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookadmin/internal/domain/book"
	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
)

func TestQueryService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("缓存未命中时查库并回填", func(t *testing.T) {
		repo := new(mockRepo)
		cache := newMemCache()
		view := &book.View{ID: 1, Title: "Go"}
		repo.On("FindByID", mock.Anything, uint(1)).Return(view, nil).Once()

		svc := NewQueryService(repo, cache, zap.NewNop())

		got, ok, err := svc.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Same(t, view, got)

		// 第二次命中缓存，不再查库
		got, ok, err = svc.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Same(t, view, got)
		repo.AssertExpectations(t)
	})

	t.Run("不存在或已删除", func(t *testing.T) {
		repo := new(mockRepo)
		cache := newMemCache()
		repo.On("FindByID", mock.Anything, uint(2)).Return(nil, nil)

		got, ok, err := NewQueryService(repo, cache, zap.NewNop()).GetByID(ctx, 2)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, got)
		assert.Empty(t, cache.views, "不存在的记录不写缓存")
	})

	t.Run("ID为0", func(t *testing.T) {
		_, _, err := NewQueryService(new(mockRepo), newMemCache(), zap.NewNop()).GetByID(ctx, 0)
		assert.Equal(t, apperrors.KindInvalidParam, apperrors.KindOf(err))
	})

	t.Run("数据库错误", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("FindByID", mock.Anything, uint(3)).Return(nil, apperrors.Wrap(errors.New("timeout"), "查询图书失败"))

		_, ok, err := NewQueryService(repo, newMemCache(), zap.NewNop()).GetByID(ctx, 3)
		assert.False(t, ok)
		assert.Equal(t, apperrors.KindUnexpected, apperrors.KindOf(err))
	})
}

func TestQueryService_GetByID_DeletedWhileLoading(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	query := NewQueryService(f.repo, f.cache, zap.NewNop())

	stale := &book.View{ID: 7, Title: "Go"}
	f.repo.On("DeleteLogically", mock.Anything, uint(7)).Return(int64(1), nil).Once()
	// 查到旧行之后、回填之前，另一个请求完成删除
	f.repo.On("FindByID", mock.Anything, uint(7)).
		Run(func(mock.Arguments) {
			_, err := f.svc.SoftDelete(ctx, 7)
			require.NoError(t, err)
		}).
		Return(stale, nil).Once()
	f.repo.On("FindByID", mock.Anything, uint(7)).Return(nil, nil).Once()

	// 本次读取开始于删除之前，返回旧行
	got, ok, err := query.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Same(t, stale, got)

	_, cached := f.cache.Get(ctx, 7)
	assert.False(t, cached, "删除后不应回填旧数据")

	got, ok, err = query.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	f.repo.AssertExpectations(t)
}

func TestQueryService_GetByCondition_EmptyCountSkipsList(t *testing.T) {
	repo := new(mockRepo)
	cond := book.Condition{Author: "nobody", PageSize: 10, CurrentPage: 3}
	repo.On("CountByCondition", mock.Anything, cond).Return(int64(0), nil)

	page, err := NewQueryService(repo, newMemCache(), zap.NewNop()).GetByCondition(context.Background(), cond)
	require.NoError(t, err)

	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 0, page.CurrentPage)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, int64(0), page.TotalCount)
	assert.NotNil(t, page.Content)
	assert.Empty(t, page.Content)

	repo.AssertNotCalled(t, "ListByCondition", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestQueryService_GetByCondition_Paging(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		pageSize   int
		requested  int
		wantPage   int
		wantPages  int
		wantOffset int
	}{
		{"第二页", 5, 2, 2, 2, 3, 2},
		{"超出后回退到最后一页", 3, 10, 5, 1, 1, 0},
		{"恰好整除", 20, 5, 4, 4, 4, 15},
		{"超出多页", 21, 5, 100, 5, 5, 20},
		{"pageSize为MaxInt", 5, math.MaxInt, 1, 1, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			cond := book.Condition{PageSize: tt.pageSize, CurrentPage: tt.requested}
			views := []*book.View{{ID: 1}}
			repo.On("CountByCondition", mock.Anything, cond).Return(tt.total, nil)
			repo.On("ListByCondition", mock.Anything, cond, tt.pageSize, tt.wantOffset).Return(views, nil)

			page, err := NewQueryService(repo, newMemCache(), zap.NewNop()).GetByCondition(context.Background(), cond)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPage, page.CurrentPage)
			assert.Equal(t, tt.wantPages, page.TotalPages)
			assert.Equal(t, tt.total, page.TotalCount)
			assert.Equal(t, views, page.Content)
			repo.AssertExpectations(t)
		})
	}
}

func TestQueryService_GetByCondition_InvalidPaging(t *testing.T) {
	repo := new(mockRepo)
	svc := NewQueryService(repo, newMemCache(), zap.NewNop())

	_, err := svc.GetByCondition(context.Background(), book.Condition{PageSize: 0, CurrentPage: 1})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.KindInvalidParam, appErr.Kind)
	assert.Equal(t, "pageSize", appErr.Field)

	_, err = svc.GetByCondition(context.Background(), book.Condition{PageSize: 10, CurrentPage: 0})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "currentPage", appErr.Field)

	repo.AssertNotCalled(t, "CountByCondition", mock.Anything, mock.Anything)
}
