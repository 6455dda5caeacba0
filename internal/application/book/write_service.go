package book

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookadmin/internal/application/batch"
	"github.com/xiebiao/bookadmin/internal/domain/book"
	"github.com/xiebiao/bookadmin/pkg/tracing"
)

// WriteService 图书写用例（单条与批量）
//
// 提交成功后才删除缓存、发布变更事件；
// 这两步失败只记录日志，不影响已提交的写入。
type WriteService struct {
	repo   book.Repository
	batch  *batch.Executor
	cache  book.Cache
	events book.EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

// NewWriteService 创建写服务
func NewWriteService(
	repo book.Repository,
	executor *batch.Executor,
	cache book.Cache,
	events book.EventPublisher,
	logger *zap.Logger,
) *WriteService {
	return &WriteService{
		repo:   repo,
		batch:  executor,
		cache:  cache,
		events: events,
		logger: logger.Named("book_write"),
		now:    time.Now,
	}
}

// Create 新建图书，返回ID
// 指定ID冲突返回DuplicateKey，出版社/用户不存在返回ForeignKeyViolation
func (s *WriteService) Create(ctx context.Context, draft *book.Draft) (_ uint, err error) {
	ctx, span := tracing.StartSpan(ctx, "book", "book.Create")
	defer func() { tracing.Finish(span, err) }()

	id, err := s.create(ctx, draft)
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int64("book.id", int64(id)))

	s.afterCommit(ctx, book.EventCreated, []uint{id})
	return id, nil
}

// CreateBatch 批量新建，任意一条失败整体回滚
func (s *WriteService) CreateBatch(ctx context.Context, drafts []*book.Draft) (_ batch.Outcome, err error) {
	ctx, span := tracing.StartSpan(ctx, "book", "book.CreateBatch")
	defer func() { tracing.Finish(span, err) }()

	ids := make([]uint, 0, len(drafts))
	outcome, err := batch.Run(ctx, s.batch, "create", drafts, func(ctx context.Context, d *book.Draft) (int64, error) {
		id, err := s.create(ctx, d)
		if err != nil {
			return 0, err
		}
		ids = append(ids, id)
		return 1, nil
	})
	if err != nil {
		return batch.Outcome{}, err
	}

	s.afterCommit(ctx, book.EventCreated, ids)
	return outcome, nil
}

// Update 更新可变字段，返回受影响行数
// 不存在或已删除的记录返回0（不会恢复已删除的记录）
func (s *WriteService) Update(ctx context.Context, b *book.Book) (_ int64, err error) {
	ctx, span := tracing.StartSpan(ctx, "book", "book.Update")
	span.SetAttributes(attribute.Int64("book.id", int64(b.ID)))
	defer func() { tracing.Finish(span, err) }()

	affected, err := s.update(ctx, b)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.afterCommit(ctx, book.EventUpdated, []uint{b.ID})
	}
	return affected, nil
}

// UpdateBatch 批量更新，任意一条失败整体回滚
// Outcome.Applied为实际更新的行数（不存在的记录计0）
func (s *WriteService) UpdateBatch(ctx context.Context, records []*book.Book) (_ batch.Outcome, err error) {
	ctx, span := tracing.StartSpan(ctx, "book", "book.UpdateBatch")
	defer func() { tracing.Finish(span, err) }()

	var ids []uint
	outcome, err := batch.Run(ctx, s.batch, "update", records, func(ctx context.Context, b *book.Book) (int64, error) {
		affected, err := s.update(ctx, b)
		if err == nil && affected > 0 {
			ids = append(ids, b.ID)
		}
		return affected, err
	})
	if err != nil {
		return batch.Outcome{}, err
	}

	if len(ids) > 0 {
		s.afterCommit(ctx, book.EventUpdated, ids)
	}
	return outcome, nil
}

// SoftDelete 逻辑删除，返回受影响行数（0或1）
// 不存在或已删除的ID返回0，不是错误
func (s *WriteService) SoftDelete(ctx context.Context, id uint) (_ int64, err error) {
	ctx, span := tracing.StartSpan(ctx, "book", "book.SoftDelete")
	span.SetAttributes(attribute.Int64("book.id", int64(id)))
	defer func() { tracing.Finish(span, err) }()

	affected, err := s.repo.DeleteLogically(ctx, id)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		s.afterCommit(ctx, book.EventDeleted, []uint{id})
	}
	return affected, nil
}

// SoftDeleteBatch 批量逻辑删除（去重后一条语句），返回受影响行数合计
func (s *WriteService) SoftDeleteBatch(ctx context.Context, ids []uint) (_ int64, err error) {
	ids = UniqueIDs(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	ctx, span := tracing.StartSpan(ctx, "book", "book.SoftDeleteBatch")
	span.SetAttributes(attribute.Int("book.ids", len(ids)))
	defer func() { tracing.Finish(span, err) }()

	affected, err := s.repo.DeleteBatchLogically(ctx, ids)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		// 无法区分哪些ID实际被删除，全部清理
		s.afterCommit(ctx, book.EventDeleted, ids)
	}
	return affected, nil
}

func (s *WriteService) create(ctx context.Context, draft *book.Draft) (uint, error) {
	if err := draft.Validate(); err != nil {
		return 0, err
	}
	return s.repo.Save(ctx, draft)
}

func (s *WriteService) update(ctx context.Context, b *book.Book) (int64, error) {
	if err := b.ValidateForUpdate(); err != nil {
		return 0, err
	}
	return s.repo.Update(ctx, b)
}

// afterCommit 删除缓存并发布事件
func (s *WriteService) afterCommit(ctx context.Context, eventType string, ids []uint) {
	s.cache.Evict(ctx, ids...)

	event := book.Event{Type: eventType, BookIDs: ids, OccurredAt: s.now()}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("发布图书事件失败",
			zap.String("type", eventType), zap.Uints("book_ids", ids), zap.Error(err))
	}
}

// UniqueIDs 按首次出现顺序去重
func UniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
