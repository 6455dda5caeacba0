package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xiebiao/bookadmin/internal/domain/book"
	"github.com/xiebiao/bookadmin/internal/infrastructure/config"
	"github.com/xiebiao/bookadmin/pkg/circuitbreaker"
	"github.com/xiebiao/bookadmin/pkg/metrics"
)

// 缓存查询结果（metrics标签）
const (
	cacheHit     = "hit"
	cacheMiss    = "miss"
	cacheError   = "error"
	cacheSkipped = "skipped"
)

// 默认回填保护窗口
const defaultEvictGuard = 5 * time.Second

// setIfNotEvicted 墓碑key存在时不写入
// KEYS[1]=视图key KEYS[2]=墓碑key ARGV[1]=值 ARGV[2]=TTL毫秒
var setIfNotEvicted = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return 1
`)

// BookCache 图书视图缓存（Cache-Aside）
//
// 写操作提交后删除缓存，下次读取时重新加载。
// 删除时同时写入墓碑key（有效期guard），墓碑存在期间Set不生效，
// 删除前已读出旧行的请求不会把旧数据写回缓存。
// Redis故障只记录日志并视为未命中；连续失败后熔断器打开，
// OpenTimeout内不再访问Redis。
type BookCache struct {
	client  redis.UniversalClient
	ttl     time.Duration
	guard   time.Duration
	breaker *circuitbreaker.CircuitBreaker
	metrics *metrics.Metrics
	logger  *zap.Logger
}

var _ book.Cache = (*BookCache)(nil)

// NewBookCache 创建图书视图缓存
func NewBookCache(client redis.UniversalClient, cfg config.CacheConfig, m *metrics.Metrics, logger *zap.Logger) *BookCache {
	logger = logger.Named("book_cache")

	breaker := circuitbreaker.NewCircuitBreaker("book-cache", circuitbreaker.Config{
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: circuitbreaker.ConsecutiveFailures(cfg.MaxFailures),
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			logger.Warn("缓存熔断器状态变化",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to))
			m.SetBreakerState(name, int(to))
		},
	})

	guard := cfg.EvictGuard
	if guard <= 0 {
		guard = defaultEvictGuard
	}

	return &BookCache{
		client:  client,
		ttl:     cfg.DetailTTL,
		guard:   guard,
		breaker: breaker,
		metrics: m,
		logger:  logger,
	}
}

// 同一本书的两个key用hash tag落在同一slot，Lua脚本在集群下可用
func viewKey(id uint) string {
	return fmt.Sprintf("book:view:{%d}", id)
}

func evictedKey(id uint) string {
	return fmt.Sprintf("book:evicted:{%d}", id)
}

// Get 读取缓存，任何故障都按未命中处理
func (c *BookCache) Get(ctx context.Context, id uint) (*book.View, bool) {
	var raw []byte
	err := c.breaker.Execute(func() error {
		var err error
		raw, err = c.client.Get(ctx, viewKey(id)).Bytes()
		return err
	})

	switch {
	case err == nil:
	case errors.Is(err, redis.Nil):
		c.metrics.CacheResult(cacheMiss)
		return nil, false
	case errors.Is(err, circuitbreaker.ErrOpenState):
		c.metrics.CacheResult(cacheSkipped)
		return nil, false
	default:
		c.metrics.CacheResult(cacheError)
		c.logger.Warn("读取缓存失败", zap.Uint("book_id", id), zap.Error(err))
		return nil, false
	}

	var v book.View
	if err := json.Unmarshal(raw, &v); err != nil {
		c.metrics.CacheResult(cacheError)
		c.logger.Warn("缓存内容无法解析，已忽略", zap.Uint("book_id", id), zap.Error(err))
		return nil, false
	}
	c.metrics.CacheResult(cacheHit)
	return &v, true
}

// Set 回填缓存，刚被删除（墓碑未过期）的图书跳过
func (c *BookCache) Set(ctx context.Context, v *book.View) {
	raw, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("缓存序列化失败", zap.Uint("book_id", v.ID), zap.Error(err))
		return
	}

	var written int
	err = c.breaker.Execute(func() error {
		var err error
		written, err = setIfNotEvicted.Run(ctx, c.client,
			[]string{viewKey(v.ID), evictedKey(v.ID)},
			raw, c.ttl.Milliseconds()).Int()
		return err
	})
	switch {
	case err == nil && written == 0:
		c.logger.Debug("图书刚被修改，跳过回填", zap.Uint("book_id", v.ID))
	case err != nil && !errors.Is(err, circuitbreaker.ErrOpenState):
		c.logger.Warn("写入缓存失败", zap.Uint("book_id", v.ID), zap.Error(err))
	}
}

// Evict 写入墓碑并删除缓存（一次pipeline往返）
func (c *BookCache) Evict(ctx context.Context, ids ...uint) {
	if len(ids) == 0 {
		return
	}

	err := c.breaker.Execute(func() error {
		_, err := c.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, id := range ids {
				pipe.Set(ctx, evictedKey(id), 1, c.guard)
				pipe.Del(ctx, viewKey(id))
			}
			return nil
		})
		return err
	})
	if err != nil {
		// 熔断期间删除失败，旧数据最多保留一个TTL
		c.logger.Warn("删除缓存失败", zap.Uints("book_ids", ids), zap.Error(err))
	}
}

// NopCache 缓存关闭时使用
type NopCache struct{}

var _ book.Cache = NopCache{}

func (NopCache) Get(context.Context, uint) (*book.View, bool) { return nil, false }
func (NopCache) Set(context.Context, *book.View)              {}
func (NopCache) Evict(context.Context, ...uint)               {}
