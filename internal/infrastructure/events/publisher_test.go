package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/xiebiao/bookadmin/internal/domain/book"
	"github.com/xiebiao/bookadmin/pkg/metrics"
)

type mockMessagePublisher struct {
	mock.Mock
}

func (m *mockMessagePublisher) Publish(ctx context.Context, routingKey string, message interface{}) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

func TestBookEventPublisher_Publish(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	ctx := context.Background()

	created := book.Event{Type: book.EventCreated, BookIDs: []uint{1}, OccurredAt: time.Now()}
	deleted := book.Event{Type: book.EventDeleted, BookIDs: []uint{2, 3}, OccurredAt: time.Now()}

	mq := new(mockMessagePublisher)
	mq.On("Publish", ctx, "book.created", created).Return(nil)
	mq.On("Publish", ctx, "book.deleted", deleted).Return(errors.New("channel closed"))

	p := NewBookEventPublisher(mq, m, zap.NewNop())

	assert.NoError(t, p.Publish(ctx, created))
	assert.EqualError(t, p.Publish(ctx, deleted), "channel closed")

	mq.AssertExpectations(t)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesPublishedTotal.WithLabelValues("book.created", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesPublishedTotal.WithLabelValues("book.deleted", "failure")))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), book.Event{Type: book.EventUpdated}))
}
