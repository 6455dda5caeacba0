// Package batch 批量写操作执行器
//
// 一次批量调用 = 一个写会话（一个事务 + 预编译语句复用）：
// 逐条执行，任意一条失败即整体回滚，成功时提交一次。
package batch

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
	"github.com/xiebiao/bookadmin/pkg/metrics"
	"github.com/xiebiao/bookadmin/pkg/tracing"
)

// Session 批量写会话
// fn返回nil时提交，返回error（或panic）时回滚，会话在所有路径上释放
type Session interface {
	InBatch(ctx context.Context, fn func(ctx context.Context) error) error
}

// Outcome 批量执行结果
type Outcome struct {
	Processed int   `json:"processed"` // 已执行条数
	Applied   int64 `json:"applied"`   // 受影响行数合计
}

// Executor 批量执行器
type Executor struct {
	session Session
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewExecutor(session Session, m *metrics.Metrics, logger *zap.Logger) *Executor {
	return &Executor{
		session: session,
		metrics: m,
		logger:  logger.Named("batch"),
	}
}

// Run 在一个写会话中依次对items执行op
//
// 失败时返回BatchFailure错误（cause只用于日志），不返回部分结果；
// items为空时直接返回零值结果，不开启会话。
//
//	outcome, err := batch.Run(ctx, exec, "create", drafts, func(ctx context.Context, d *book.Draft) (int64, error) {
//	    _, err := repo.Save(ctx, d)
//	    return 1, err
//	})
func Run[T any](ctx context.Context, e *Executor, operation string, items []T, op func(ctx context.Context, item T) (int64, error)) (outcome Outcome, err error) {
	if len(items) == 0 {
		return Outcome{}, nil
	}

	ctx, span := tracing.StartSpan(ctx, "batch", "batch."+operation)
	span.SetAttributes(attribute.String("batch.operation", operation), attribute.Int("batch.items", len(items)))
	start := time.Now()
	defer func() {
		e.metrics.ObserveBatch(operation, len(items), err == nil, time.Since(start))
		tracing.Finish(span, err)
	}()

	var result Outcome
	err = e.session.InBatch(ctx, func(ctx context.Context) error {
		for i, item := range items {
			affected, err := op(ctx, item)
			if err != nil {
				return fmt.Errorf("第%d条: %w", i+1, err)
			}
			result.Processed++
			result.Applied += affected
		}
		return nil
	})
	if err != nil {
		e.logger.Warn("批量操作已回滚",
			zap.String("operation", operation),
			zap.Int("items", len(items)),
			zap.Int("processed", result.Processed),
			zap.Error(err))
		return Outcome{}, apperrors.BatchFailed(err)
	}

	e.logger.Info("批量操作已提交",
		zap.String("operation", operation),
		zap.Int("items", result.Processed),
		zap.Int64("applied", result.Applied))
	return result, nil
}
