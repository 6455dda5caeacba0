// book-events 消费图书变更事件（审计日志 + 缓存补删）
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/bookadmin/internal/domain/book"
	"github.com/xiebiao/bookadmin/internal/infrastructure/config"
	"github.com/xiebiao/bookadmin/internal/infrastructure/events"
	"github.com/xiebiao/bookadmin/internal/infrastructure/logger"
	"github.com/xiebiao/bookadmin/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookadmin/pkg/mq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("消费者异常退出", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache book.Cache = redis.NopCache{}
	if cfg.Cache.Enabled {
		client, cleanup, err := redis.NewClient(cfg, zl)
		if err != nil {
			return err
		}
		defer cleanup()
		cache = redis.NewBookCache(client, cfg.Cache, nil, zl)
	}

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic,
		cfg.MQ.Queue, []string{"book.*"}, zl)
	if err != nil {
		return err
	}
	defer func() {
		if err := consumer.Close(); err != nil {
			zl.Warn("关闭消费者失败", zap.Error(err))
		}
	}()

	return consumer.Consume(ctx, events.NewAuditHandler(cache, zl).Handle)
}
