package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/bookadmin/internal/domain/book"
	"github.com/xiebiao/bookadmin/pkg/metrics"
)

// MessagePublisher 底层消息发布（*mq.Publisher实现）
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, message interface{}) error
}

// BookEventPublisher 把图书变更事件发布到Topic交换机
// routing_key即事件类型：book.created、book.updated、book.deleted
type BookEventPublisher struct {
	publisher MessagePublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

var _ book.EventPublisher = (*BookEventPublisher)(nil)

func NewBookEventPublisher(publisher MessagePublisher, m *metrics.Metrics, logger *zap.Logger) *BookEventPublisher {
	return &BookEventPublisher{
		publisher: publisher,
		metrics:   m,
		logger:    logger.Named("events"),
	}
}

// Publish 发布事件
func (p *BookEventPublisher) Publish(ctx context.Context, event book.Event) error {
	err := p.publisher.Publish(ctx, event.Type, event)
	p.metrics.MessagePublished(event.Type, err)
	if err != nil {
		return err
	}
	p.logger.Debug("图书事件已发布", zap.String("type", event.Type), zap.Uints("book_ids", event.BookIDs))
	return nil
}

// NopPublisher mq.enabled=false时使用
type NopPublisher struct{}

var _ book.EventPublisher = NopPublisher{}

func (NopPublisher) Publish(context.Context, book.Event) error { return nil }
