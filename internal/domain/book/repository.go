package book

import (
	"context"
	"time"
)

// Repository 图书仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 所有读操作都排除已逻辑删除的记录
// 3. 写操作返回受影响行数,0表示目标不存在或已删除(不是错误)
// 4. ctx中携带批量会话时,写操作加入该会话
type Repository interface {
	// FindByID 查询图书视图,不存在返回(nil, nil)
	FindByID(ctx context.Context, id uint) (*View, error)

	// ListByCondition 按条件查询一页,按id升序
	ListByCondition(ctx context.Context, cond Condition, limit, offset int) ([]*View, error)

	// CountByCondition 按相同条件统计总数
	CountByCondition(ctx context.Context, cond Condition) (int64, error)

	// Save 新建图书,返回ID
	// ID冲突返回DuplicateKey,出版社/用户不存在返回ForeignKeyViolation
	Save(ctx context.Context, draft *Draft) (uint, error)

	// Update 更新可变字段并刷新UpdatedAt,不会恢复已删除的记录
	Update(ctx context.Context, b *Book) (int64, error)

	// DeleteLogically 逻辑删除
	DeleteLogically(ctx context.Context, id uint) (int64, error)

	// DeleteBatchLogically 批量逻辑删除(一条语句)
	DeleteBatchLogically(ctx context.Context, ids []uint) (int64, error)
}

// Cache 图书视图缓存(旁路缓存)
// 缓存故障由实现方记录日志后忽略,调用方只感知命中与否
type Cache interface {
	Get(ctx context.Context, id uint) (*View, bool)
	Set(ctx context.Context, v *View)
	Evict(ctx context.Context, ids ...uint)
}

// 图书变更事件类型
const (
	EventCreated = "book.created"
	EventUpdated = "book.updated"
	EventDeleted = "book.deleted"
)

// Event 图书变更事件(提交成功后发布)
type Event struct {
	Type       string    `json:"type"`
	BookIDs    []uint    `json:"bookIds"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher 事件发布端口
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}
