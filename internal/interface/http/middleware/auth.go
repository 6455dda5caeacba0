package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
	"github.com/xiebiao/bookadmin/pkg/jwt"
	"github.com/xiebiao/bookadmin/pkg/response"
)

// Context中的key
const (
	ctxUserID = "user_id"
	ctxClaims = "claims"
	ctxToken  = "token"
)

// TokenBlacklist Token黑名单（Redis SessionStore实现）
type TokenBlacklist interface {
	IsInBlacklist(ctx context.Context, token string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 从Header提取Token → 检查黑名单 → 验证签名和有效期 → 注入用户信息
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
	resp       *response.Responder
	logger     *zap.Logger
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenBlacklist, resp *response.Responder, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager: jwtManager,
		blacklist:  blacklist,
		resp:       resp,
		logger:     logger.Named("auth"),
	}
}

// RequireAuth 要求登录
//
//	users.POST("/logout", auth.RequireAuth(), userHandler.Logout)
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			m.resp.Error(c, apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := m.authenticate(c.Request.Context(), token)
		if err != nil {
			m.resp.Error(c, err)
			c.Abort()
			return
		}

		setIdentity(c, claims, token)
		c.Next()
	}
}

// OptionalAuth 可选登录
// 没有Token或Token无效时按匿名用户继续，有效时注入用户信息
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := m.authenticate(c.Request.Context(), token)
		if err != nil {
			m.logger.Debug("忽略无效Token", zap.Error(err))
			c.Next()
			return
		}

		setIdentity(c, claims, token)
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	revoked, err := m.blacklist.IsInBlacklist(ctx, token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrInvalidToken
	}
	return m.jwtManager.ParseToken(token)
}

// bearerToken 格式：Authorization: Bearer <token>
func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setIdentity(c *gin.Context, claims *jwt.Claims, token string) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxClaims, claims)
	c.Set(ctxToken, token)
}

// GetUserID 当前登录用户ID，未登录返回0
func GetUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

// GetClaims 当前登录用户的Claims，未登录返回nil
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(ctxClaims); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetToken 当前请求的Access Token
func GetToken(c *gin.Context) string {
	return c.GetString(ctxToken)
}
