package errors

import (
	"errors"
	"fmt"
)

// Kind 错误分类
// 设计说明：
// 1. 错误以带标签的变体表示（Kind + 附加字段），而不是类型层级
// 2. HTTP层只根据Kind决定状态码，不关心具体是哪个业务错误
type Kind int

const (
	KindUnexpected          Kind = iota // 未预期错误（兜底）
	KindNotFound                        // 资源不存在
	KindInvalidParam                    // 参数校验失败
	KindDuplicateKey                    // 主键/唯一键冲突
	KindForeignKeyViolation             // 外键引用的记录不存在
	KindBatchFailure                    // 批量操作失败（整体回滚）
	KindUnauthorized                    // 未登录或Token无效
	KindRateLimited                     // 请求过于频繁
)

// String 实现Stringer接口（方便日志输出）
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidParam:
		return "invalid_param"
	case KindDuplicateKey:
		return "duplicate_key"
	case KindForeignKeyViolation:
		return "foreign_key_violation"
	case KindBatchFailure:
		return "batch_failure"
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unexpected"
	}
}

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型（不要直接暴露HTTP状态码）
// 2. Message是用户友好的提示信息
// 3. Field/Value记录校验失败的字段与取值，Fields是字段→提示的映射
// 4. Err是内部错误，仅记录到日志
type AppError struct {
	Kind    Kind              `json:"-"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Field   string            `json:"field,omitempty"`
	Value   any               `json:"-"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Field != "" {
		if e.Err != nil {
			return fmt.Sprintf("[%d] %s (%s=%v): %v", e.Code, e.Message, e.Field, e.Value, e.Err)
		}
		return fmt.Sprintf("[%d] %s (%s=%v)", e.Code, e.Message, e.Field, e.Value)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 同Kind同Code视为同一错误（哨兵错误比较）
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// New 创建新的AppError
func New(kind Kind, code int, message string) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Kind:    KindUnexpected,
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return Wrap(err, fmt.Sprintf(format, args...))
}

// InvalidParam 单字段校验失败
func InvalidParam(field string, value any, message string) *AppError {
	return &AppError{
		Kind:    KindInvalidParam,
		Code:    ErrCodeInvalidParams,
		Message: message,
		Field:   field,
		Value:   value,
		Fields:  map[string]string{field: message},
	}
}

// DuplicateKey 唯一键冲突
func DuplicateKey(field string, value any, err error) *AppError {
	return &AppError{
		Kind:    KindDuplicateKey,
		Code:    ErrCodeDuplicateEntry,
		Message: "记录已存在",
		Field:   field,
		Value:   value,
		Err:     err,
	}
}

// ForeignKeyViolation 外键约束失败（引用的出版社/用户不存在）
func ForeignKeyViolation(field string, value any, err error) *AppError {
	return &AppError{
		Kind:    KindForeignKeyViolation,
		Code:    ErrCodeForeignKey,
		Message: "引用的记录不存在",
		Field:   field,
		Value:   value,
		Err:     err,
	}
}

// BatchFailed 批量操作失败
// 注意：不携带逐条失败明细，cause只用于日志
func BatchFailed(cause error) *AppError {
	return &AppError{
		Kind:    KindBatchFailure,
		Code:    ErrCodeBatchFailure,
		Message: "批量操作失败，已全部回滚",
		Err:     cause,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：
// - 4xxxx: 客户端错误（参数错误、业务规则校验失败）
// - 5xxxx: 服务端错误（数据库异常、外部服务调用失败）

const (
	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
	ErrCodeBatchFailure  = 50003 // 批量操作失败
	ErrCodeDeleteFailed  = 50004 // 删除未生效

	// 认证授权错误（40100-40199）
	ErrCodeUnauthorized    = 40100 // 未登录
	ErrCodeInvalidToken    = 40101 // Token无效
	ErrCodeTokenExpired    = 40102 // Token过期
	ErrCodeInvalidPassword = 40103 // 密码错误

	// 资源错误（40400-40499）
	ErrCodeNotFound          = 40400 // 资源不存在(通用)
	ErrCodeUserNotFound      = 40401 // 用户不存在
	ErrCodeBookNotFound      = 40402 // 图书不存在
	ErrCodePublisherNotFound = 40403 // 出版社不存在

	// 冲突错误（40900-40949）
	ErrCodeDuplicateEntry = 40901 // 重复记录(通用)
	ErrCodeEmailDuplicate = 40902 // 邮箱已存在
	ErrCodeForeignKey     = 40903 // 外键约束失败

	// 参数错误（40000-40099）
	ErrCodeInvalidParams = 40000 // 参数错误
	ErrCodeBindError     = 40001 // 参数绑定失败
	ErrCodeWeakPassword  = 40002 // 密码强度不足

	ErrCodeTooManyRequests = 42900 // 请求过于频繁
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal   = New(KindUnexpected, ErrCodeInternal, "系统内部错误")
	ErrRedisError = New(KindUnexpected, ErrCodeRedisError, "缓存服务错误")

	// 认证授权
	ErrUnauthorized    = New(KindUnauthorized, ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken    = New(KindUnauthorized, ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired    = New(KindUnauthorized, ErrCodeTokenExpired, "Token已过期")
	ErrInvalidPassword = New(KindUnauthorized, ErrCodeInvalidPassword, "邮箱或密码错误")

	// 资源不存在
	ErrUserNotFound = New(KindNotFound, ErrCodeUserNotFound, "用户不存在")

	// 冲突
	ErrEmailDuplicate = New(KindDuplicateKey, ErrCodeEmailDuplicate, "邮箱已被注册")

	// 限流
	ErrTooManyRequests = New(KindRateLimited, ErrCodeTooManyRequests, "请求过于频繁，请稍后再试")

	// 参数错误
	ErrBindError    = New(KindInvalidParam, ErrCodeBindError, "参数格式错误")
	ErrWeakPassword = &AppError{
		Kind:    KindInvalidParam,
		Code:    ErrCodeWeakPassword,
		Message: "密码需为8-20位且同时包含字母和数字",
		Field:   "password",
		Fields:  map[string]string{"password": "密码需为8-20位且同时包含字母和数字"},
	}
)

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// KindOf 提取错误分类（非AppError一律视为Unexpected）
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "系统内部错误")
}
