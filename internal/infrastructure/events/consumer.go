package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xiebiao/bookadmin/internal/domain/book"
)

// AuditHandler 消费图书变更事件：写审计日志并再次删除缓存
//
// API写操作提交后已经删过一次缓存，但Redis熔断期间那次删除会被跳过，
// 这里在事件到达时补删一次。
type AuditHandler struct {
	cache  book.Cache
	logger *zap.Logger
}

func NewAuditHandler(cache book.Cache, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{cache: cache, logger: logger.Named("audit")}
}

// Handle 作为mq.Consumer的handler使用
// 无法解析的消息只记录日志并确认，避免反复重新入队
func (h *AuditHandler) Handle(ctx context.Context, msg amqp.Delivery) error {
	event, err := DecodeBookEvent(msg.Body)
	if err != nil {
		h.logger.Error("丢弃无法解析的消息",
			zap.String("routing_key", msg.RoutingKey), zap.ByteString("body", msg.Body), zap.Error(err))
		return nil
	}

	if len(event.BookIDs) > 0 {
		h.cache.Evict(ctx, event.BookIDs...)
	}
	h.logger.Info("图书变更",
		zap.String("type", event.Type),
		zap.Uints("book_ids", event.BookIDs),
		zap.Time("occurred_at", event.OccurredAt))
	return nil
}

// DecodeBookEvent 解析消息体
func DecodeBookEvent(body []byte) (book.Event, error) {
	var event book.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return book.Event{}, fmt.Errorf("解析图书事件失败: %w", err)
	}
	switch event.Type {
	case book.EventCreated, book.EventUpdated, book.EventDeleted:
		return event, nil
	default:
		return book.Event{}, fmt.Errorf("未知的事件类型: %q", event.Type)
	}
}
