package book

import (
	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在(或已删除)
	ErrBookNotFound = apperrors.New(apperrors.KindNotFound, apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrDeleteFailed 删除未生效(图书不存在或已删除)
	ErrDeleteFailed = apperrors.New(apperrors.KindUnexpected, apperrors.ErrCodeDeleteFailed, "删除失败，图书不存在或已删除")

	// ErrEmptyBatch 批量请求为空
	ErrEmptyBatch = apperrors.InvalidParam("items", 0, "批量操作至少包含一条记录")
)
