package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/bookadmin/internal/infrastructure/config"
	"github.com/xiebiao/bookadmin/internal/interface/http/handler"
	"github.com/xiebiao/bookadmin/internal/interface/http/middleware"
	"github.com/xiebiao/bookadmin/pkg/metrics"
	"github.com/xiebiao/bookadmin/pkg/response"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	Book      *handler.BookHandler
	User      *handler.UserHandler
	Publisher *handler.PublisherHandler
}

// New 创建Gin引擎并注册路由
//
// 中间件顺序：Recovery → 请求日志 → 追踪 → 指标 → 限流
func New(
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	resp *response.Responder,
	auth *middleware.AuthMiddleware,
	h Handlers,
) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.RequestLogger(logger))
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(cfg.Tracing.ServiceName))
	}
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(m))
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	r.GET("/ping", func(c *gin.Context) {
		resp.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})

	if cfg.Server.Mode != gin.ReleaseMode {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		v1.Use(middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware(resp))
	}

	users := v1.Group("/users")
	{
		users.POST("/register", h.User.Register)
		users.POST("/login", h.User.Login)
		users.POST("/logout", auth.RequireAuth(), h.User.Logout)
	}

	publishers := v1.Group("/publishers")
	{
		publishers.POST("", h.Publisher.CreatePublisher)
		publishers.GET("/:id", h.Publisher.GetPublisher)
	}

	books := v1.Group("/books")
	{
		books.GET("", h.Book.ListBooks)
		books.GET("/:id", h.Book.GetBook)

		books.POST("", auth.OptionalAuth(), h.Book.CreateBook)
		books.POST("/batch", auth.OptionalAuth(), h.Book.CreateBooks)

		books.PUT("/batch", h.Book.UpdateBooks)
		books.PUT("/:id", h.Book.UpdateBook)

		books.DELETE("/batch", h.Book.DeleteBooks)
		books.DELETE("/:id", h.Book.DeleteBook)
	}

	return r
}
