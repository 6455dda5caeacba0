package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
)

// bindError 把gin绑定错误转换为参数错误
// validator的字段错误逐个写入字段→提示映射，其他错误（JSON格式、类型不匹配）统一为ErrBindError
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &apperrors.AppError{
			Kind:    apperrors.KindInvalidParam,
			Code:    apperrors.ErrCodeBindError,
			Message: apperrors.ErrBindError.Message,
			Err:     err,
		}
	}

	v := apperrors.NewValidation()
	for _, fe := range verrs {
		v.Check(false, jsonName(fe.Field()), fe.Value(), fieldMessage(fe))
	}
	return v.Err()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "不能为空"
	case "email":
		return "邮箱格式不正确"
	case "min":
		return "长度不能小于" + fe.Param()
	case "max":
		return "长度不能超过" + fe.Param()
	default:
		return "格式不正确"
	}
}

// jsonName 结构体字段名 → 请求中的字段名（首字母小写）
func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

// pathID 解析路径中的:id
func pathID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.InvalidParam("id", raw, "ID必须为正整数")
	}
	return uint(id), nil
}
