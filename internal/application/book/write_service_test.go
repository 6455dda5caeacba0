package book

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/bookadmin/internal/application/batch"
	"github.com/xiebiao/bookadmin/internal/domain/book"
	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
)

// passSession 直接执行fn，记录会话结果
type passSession struct {
	opened     int
	rolledBack bool
}

func (s *passSession) InBatch(ctx context.Context, fn func(ctx context.Context) error) error {
	s.opened++
	err := fn(ctx)
	s.rolledBack = err != nil
	return err
}

type fixture struct {
	repo    *mockRepo
	session *passSession
	cache   *memCache
	events  *recordingPublisher
	svc     *WriteService
}

func newFixture() *fixture {
	f := &fixture{
		repo:    new(mockRepo),
		session: &passSession{},
		cache:   newMemCache(),
		events:  &recordingPublisher{},
	}
	exec := batch.NewExecutor(f.session, nil, zap.NewNop())
	f.svc = NewWriteService(f.repo, exec, f.cache, f.events, zap.NewNop())
	return f
}

func validDraft(title string) *book.Draft {
	return &book.Draft{Title: title, TitleKana: title, Author: "Pike", PublisherID: 1, UserID: 1}
}

func TestWriteService_Create(t *testing.T) {
	t.Run("成功后发布事件", func(t *testing.T) {
		f := newFixture()
		d := validDraft("Go")
		f.repo.On("Save", mock.Anything, d).Return(uint(10), nil)

		id, err := f.svc.Create(context.Background(), d)
		require.NoError(t, err)
		assert.Equal(t, uint(10), id)

		require.Len(t, f.events.events, 1)
		assert.Equal(t, book.EventCreated, f.events.events[0].Type)
		assert.Equal(t, []uint{10}, f.events.events[0].BookIDs)
	})

	t.Run("校验失败不访问仓储", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Create(context.Background(), &book.Draft{Title: "", PublisherID: 1, UserID: 1})

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, apperrors.KindInvalidParam, appErr.Kind)
		assert.Contains(t, appErr.Fields, "title")
		assert.Contains(t, appErr.Fields, "author")
		f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("外键失败原样返回", func(t *testing.T) {
		f := newFixture()
		d := validDraft("Go")
		fk := apperrors.ForeignKeyViolation("publisherId", uint(1), errors.New("1452"))
		f.repo.On("Save", mock.Anything, d).Return(uint(0), fk)

		_, err := f.svc.Create(context.Background(), d)
		assert.Equal(t, apperrors.KindForeignKeyViolation, apperrors.KindOf(err))
		assert.Empty(t, f.events.events)
	})

	t.Run("事件发布失败不影响结果", func(t *testing.T) {
		f := newFixture()
		f.events.err = errors.New("mq down")
		d := validDraft("Go")
		f.repo.On("Save", mock.Anything, d).Return(uint(11), nil)

		id, err := f.svc.Create(context.Background(), d)
		require.NoError(t, err)
		assert.Equal(t, uint(11), id)
	})
}

func TestWriteService_CreateBatch(t *testing.T) {
	t.Run("全部成功", func(t *testing.T) {
		f := newFixture()
		a, b := validDraft("A"), validDraft("B")
		f.repo.On("Save", mock.Anything, a).Return(uint(1), nil)
		f.repo.On("Save", mock.Anything, b).Return(uint(2), nil)

		outcome, err := f.svc.CreateBatch(context.Background(), []*book.Draft{a, b})
		require.NoError(t, err)
		assert.Equal(t, batch.Outcome{Processed: 2, Applied: 2}, outcome)
		assert.Equal(t, 1, f.session.opened)

		require.Len(t, f.events.events, 1)
		assert.Equal(t, []uint{1, 2}, f.events.events[0].BookIDs)
	})

	t.Run("含无效记录时整体回滚", func(t *testing.T) {
		f := newFixture()
		valid := validDraft("A")
		invalid := &book.Draft{Title: "B"}
		f.repo.On("Save", mock.Anything, valid).Return(uint(1), nil)

		outcome, err := f.svc.CreateBatch(context.Background(), []*book.Draft{valid, invalid})
		assert.Equal(t, apperrors.KindBatchFailure, apperrors.KindOf(err))
		assert.Zero(t, outcome)
		assert.True(t, f.session.rolledBack)
		assert.Empty(t, f.events.events, "回滚后不发布事件")
		assert.Empty(t, f.cache.evicted)
	})

	t.Run("空列表", func(t *testing.T) {
		f := newFixture()
		outcome, err := f.svc.CreateBatch(context.Background(), nil)
		require.NoError(t, err)
		assert.Zero(t, outcome)
		assert.Zero(t, f.session.opened)
	})
}

func TestWriteService_Update(t *testing.T) {
	price := int64(1000)
	record := &book.Book{ID: 5, Title: "Go", TitleKana: "go", Author: "Pike", PublisherID: 1, UserID: 1, Price: &price}

	t.Run("成功后删除缓存", func(t *testing.T) {
		f := newFixture()
		f.cache.views[5] = &book.View{ID: 5, Title: "old"}
		f.repo.On("Update", mock.Anything, record).Return(int64(1), nil)

		affected, err := f.svc.Update(context.Background(), record)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)
		assert.NotContains(t, f.cache.views, uint(5))
		require.Len(t, f.events.events, 1)
		assert.Equal(t, book.EventUpdated, f.events.events[0].Type)
	})

	t.Run("已删除的记录返回0", func(t *testing.T) {
		f := newFixture()
		f.repo.On("Update", mock.Anything, record).Return(int64(0), nil)

		affected, err := f.svc.Update(context.Background(), record)
		require.NoError(t, err)
		assert.Zero(t, affected)
		assert.Empty(t, f.events.events)
	})

	t.Run("ID为0", func(t *testing.T) {
		f := newFixture()
		bad := *record
		bad.ID = 0
		_, err := f.svc.Update(context.Background(), &bad)

		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "id", appErr.Field)
	})
}

func TestWriteService_UpdateBatch(t *testing.T) {
	f := newFixture()
	r1 := &book.Book{ID: 1, Title: "A", TitleKana: "a", Author: "x", PublisherID: 1, UserID: 1}
	r2 := &book.Book{ID: 2, Title: "B", TitleKana: "b", Author: "y", PublisherID: 1, UserID: 1}
	f.repo.On("Update", mock.Anything, r1).Return(int64(1), nil)
	f.repo.On("Update", mock.Anything, r2).Return(int64(0), nil)

	outcome, err := f.svc.UpdateBatch(context.Background(), []*book.Book{r1, r2})
	require.NoError(t, err)
	assert.Equal(t, batch.Outcome{Processed: 2, Applied: 1}, outcome)
	assert.Equal(t, []uint{1}, f.cache.evicted, "只清理实际更新的记录")
}

func TestWriteService_SoftDelete(t *testing.T) {
	f := newFixture()
	f.repo.On("DeleteLogically", mock.Anything, uint(1)).Return(int64(1), nil).Once()
	f.repo.On("DeleteLogically", mock.Anything, uint(1)).Return(int64(0), nil).Once()

	affected, err := f.svc.SoftDelete(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// 再次删除：不是错误，受影响行数为0
	affected, err = f.svc.SoftDelete(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, affected)

	assert.Len(t, f.events.events, 1)
}

func TestWriteService_SoftDeleteBatch(t *testing.T) {
	t.Run("去重后一条语句", func(t *testing.T) {
		f := newFixture()
		f.repo.On("DeleteBatchLogically", mock.Anything, []uint{3, 1, 2}).Return(int64(2), nil)

		affected, err := f.svc.SoftDeleteBatch(context.Background(), []uint{3, 1, 3, 2, 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)
		assert.Equal(t, []uint{3, 1, 2}, f.cache.evicted)
		f.repo.AssertNumberOfCalls(t, "DeleteBatchLogically", 1)
	})

	t.Run("空列表", func(t *testing.T) {
		f := newFixture()
		affected, err := f.svc.SoftDeleteBatch(context.Background(), nil)
		require.NoError(t, err)
		assert.Zero(t, affected)
		f.repo.AssertNotCalled(t, "DeleteBatchLogically", mock.Anything, mock.Anything)
	})
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []uint{2, 1}, UniqueIDs([]uint{2, 1, 2, 1}))
	assert.Empty(t, UniqueIDs(nil))
}
