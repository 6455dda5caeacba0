//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/bookadmin/internal/application/batch"
	appbook "github.com/xiebiao/bookadmin/internal/application/book"
	apppublisher "github.com/xiebiao/bookadmin/internal/application/publisher"
	appuser "github.com/xiebiao/bookadmin/internal/application/user"
	"github.com/xiebiao/bookadmin/internal/domain/user"
	"github.com/xiebiao/bookadmin/internal/infrastructure/config"
	"github.com/xiebiao/bookadmin/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookadmin/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookadmin/internal/interface/http/handler"
	"github.com/xiebiao/bookadmin/internal/interface/http/middleware"
	"github.com/xiebiao/bookadmin/internal/interface/http/router"
)

// infrastructureSet 数据库、Redis、指标、消息
var infrastructureSet = wire.NewSet(
	mysql.NewDB,
	redis.NewClient,
	wire.Bind(new(goredis.UniversalClient), new(*goredis.Client)),
	provideRegistry,
	wire.Bind(new(prometheus.Gatherer), new(*prometheus.Registry)),
	provideMetrics,
	provideBookCache,
	provideEventPublisher,
)

// repositorySet 仓储与事务
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewPublisherRepository,
	mysql.NewTxManager,
	wire.Bind(new(batch.Session), new(*mysql.TxManager)),
	redis.NewSessionStore,
	wire.Bind(new(appuser.SessionStore), new(*redis.SessionStore)),
	wire.Bind(new(middleware.TokenBlacklist), new(*redis.SessionStore)),
)

// applicationSet 领域服务与用例
var applicationSet = wire.NewSet(
	user.NewService,
	batch.NewExecutor,
	appbook.NewQueryService,
	appbook.NewWriteService,
	apppublisher.NewService,
	appuser.NewRegisterUseCase,
	provideLoginUseCase,
	appuser.NewLogoutUseCase,
	provideJWTManager,
)

// httpSet 处理器、中间件、路由
var httpSet = wire.NewSet(
	provideResponder,
	middleware.NewAuthMiddleware,
	handler.NewBookHandler,
	wire.Bind(new(handler.BookQuery), new(*appbook.QueryService)),
	wire.Bind(new(handler.BookWriter), new(*appbook.WriteService)),
	handler.NewUserHandler,
	handler.NewPublisherHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 组装整个应用
// cleanup按创建的逆序关闭MQ、Redis、数据库连接
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*gin.Engine, func(), error) {
	wire.Build(infrastructureSet, repositorySet, applicationSet, httpSet)
	return nil, nil, nil
}
