package response

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/bookadmin/internal/infrastructure/config"
	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
)

// RequestIDKey 请求ID在gin.Context中的key（由请求日志中间件写入）
const RequestIDKey = "request_id"

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码（0表示成功），HTTP状态码由错误分类决定
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时为null
// 4. Errors是参数校验失败时的"字段→提示"映射
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// Responder 负责把结果和错误写成统一响应
// 文案在构造时注入，不依赖全局状态
type Responder struct {
	messages config.MessagesConfig
	logger   *zap.Logger
}

// NewResponder 创建Responder
func NewResponder(messages config.MessagesConfig, logger *zap.Logger) *Responder {
	return &Responder{messages: messages, logger: logger}
}

// Success 成功响应（200）
func (r *Responder) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

// Created 创建成功（201）
func (r *Responder) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "success", Data: data})
}

// NoContent 无响应体（204）
func (r *Responder) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	id, err := h.writeService.Create(ctx, draft)
//	if err != nil {
//	    h.resp.Error(c, err)
//	    return
//	}
func (r *Responder) Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	status := StatusOf(appErr.Kind)

	r.log(c, status, appErr)

	c.JSON(status, Response{
		Code:    appErr.Code,
		Message: r.message(appErr),
		Errors:  r.fieldMessages(appErr.Fields),
	})
}

// StatusOf 错误分类 → HTTP状态码
func StatusOf(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindInvalidParam:
		return http.StatusBadRequest
	case apperrors.KindDuplicateKey, apperrors.KindForeignKeyViolation:
		return http.StatusConflict
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		// BatchFailure与未预期错误
		return http.StatusInternalServerError
	}
}

func (r *Responder) message(appErr *apperrors.AppError) string {
	msg := appErr.Message
	if override, ok := r.messages.Codes[strconv.Itoa(appErr.Code)]; ok && override != "" {
		msg = override
	}

	// 参数错误：首个字段的提示优先使用配置文案
	if appErr.Kind == apperrors.KindInvalidParam && appErr.Field != "" {
		if override := r.fieldMessage(appErr.Field); override != "" {
			msg = override
		}
	}

	if appErr.Kind == apperrors.KindUnexpected && r.messages.ExposeCause && appErr.Err != nil {
		msg = msg + ": " + appErr.Err.Error()
	}
	return msg
}

func (r *Responder) fieldMessages(fields map[string]string) map[string]string {
	if len(fields) == 0 {
		return nil
	}
	out := make(map[string]string, len(fields))
	for field, msg := range fields {
		if override := r.fieldMessage(field); override != "" {
			msg = override
		}
		out[field] = msg
	}
	return out
}

// fieldMessage viper会把map的key转成小写
func (r *Responder) fieldMessage(field string) string {
	return r.messages.Fields[strings.ToLower(field)]
}

func (r *Responder) log(c *gin.Context, status int, appErr *apperrors.AppError) {
	if r.logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String(RequestIDKey, c.GetString(RequestIDKey)),
		zap.Int("status", status),
		zap.Int("code", appErr.Code),
		zap.Stringer("kind", appErr.Kind),
	}
	if appErr.Field != "" {
		fields = append(fields, zap.String("field", appErr.Field), zap.Any("value", appErr.Value))
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}

	if status >= http.StatusInternalServerError {
		r.logger.Error(appErr.Message, fields...)
		return
	}
	r.logger.Info(appErr.Message, fields...)
}
