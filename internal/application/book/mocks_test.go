package book

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/xiebiao/bookadmin/internal/domain/book"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) FindByID(ctx context.Context, id uint) (*book.View, error) {
	args := m.Called(ctx, id)
	v, _ := args.Get(0).(*book.View)
	return v, args.Error(1)
}

func (m *mockRepo) ListByCondition(ctx context.Context, cond book.Condition, limit, offset int) ([]*book.View, error) {
	args := m.Called(ctx, cond, limit, offset)
	v, _ := args.Get(0).([]*book.View)
	return v, args.Error(1)
}

func (m *mockRepo) CountByCondition(ctx context.Context, cond book.Condition) (int64, error) {
	args := m.Called(ctx, cond)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) Save(ctx context.Context, draft *book.Draft) (uint, error) {
	args := m.Called(ctx, draft)
	return args.Get(0).(uint), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, b *book.Book) (int64, error) {
	args := m.Called(ctx, b)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) DeleteLogically(ctx context.Context, id uint) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockRepo) DeleteBatchLogically(ctx context.Context, ids []uint) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

// memCache 内存缓存，记录被删除的ID
// 被删除过的ID不再接受回填，与Redis实现的墓碑窗口一致（这里不过期）
type memCache struct {
	views      map[uint]*book.View
	evicted    []uint
	tombstones map[uint]struct{}
}

func newMemCache() *memCache {
	return &memCache{
		views:      make(map[uint]*book.View),
		tombstones: make(map[uint]struct{}),
	}
}

func (c *memCache) Get(_ context.Context, id uint) (*book.View, bool) {
	v, ok := c.views[id]
	return v, ok
}

func (c *memCache) Set(_ context.Context, v *book.View) {
	if _, ok := c.tombstones[v.ID]; ok {
		return
	}
	c.views[v.ID] = v
}

func (c *memCache) Evict(_ context.Context, ids ...uint) {
	for _, id := range ids {
		delete(c.views, id)
		c.tombstones[id] = struct{}{}
	}
	c.evicted = append(c.evicted, ids...)
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	events []book.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e book.Event) error {
	p.events = append(p.events, e)
	return p.err
}
