package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appuser "github.com/xiebiao/bookadmin/internal/application/user"
	"github.com/xiebiao/bookadmin/internal/domain/book"
	"github.com/xiebiao/bookadmin/internal/domain/user"
	"github.com/xiebiao/bookadmin/internal/infrastructure/config"
	"github.com/xiebiao/bookadmin/internal/infrastructure/events"
	"github.com/xiebiao/bookadmin/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookadmin/pkg/jwt"
	"github.com/xiebiao/bookadmin/pkg/metrics"
	"github.com/xiebiao/bookadmin/pkg/mq"
	"github.com/xiebiao/bookadmin/pkg/response"
)

// 自定义Provider：构造参数需要从Config中提取，Wire无法直接推导

// provideRegistry 独立的指标注册表（附带Go运行时与进程指标）
func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideMetrics(cfg *config.Config, reg *prometheus.Registry) *metrics.Metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	return metrics.New(reg)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideLoginUseCase Session有效期与Refresh Token一致
func provideLoginUseCase(
	cfg *config.Config,
	userService user.Service,
	jwtManager *jwt.Manager,
	sessionStore appuser.SessionStore,
	logger *zap.Logger,
) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(userService, jwtManager, sessionStore, cfg.JWT.RefreshTokenExpire, logger)
}

func provideResponder(cfg *config.Config, logger *zap.Logger) *response.Responder {
	return response.NewResponder(cfg.Messages, logger)
}

// provideBookCache cache.enabled=false时不访问Redis
func provideBookCache(cfg *config.Config, client *goredis.Client, m *metrics.Metrics, logger *zap.Logger) book.Cache {
	if !cfg.Cache.Enabled {
		return redis.NopCache{}
	}
	return redis.NewBookCache(client, cfg.Cache, m, logger)
}

// provideEventPublisher mq.enabled=false时事件直接丢弃
func provideEventPublisher(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (book.EventPublisher, func(), error) {
	if !cfg.MQ.Enabled {
		return events.NopPublisher{}, func() {}, nil
	}

	publisher, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("关闭MQ连接失败", zap.Error(err))
		}
	}
	return events.NewBookEventPublisher(publisher, m, logger), cleanup, nil
}
