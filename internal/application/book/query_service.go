package book

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xiebiao/bookadmin/internal/domain/book"
	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
	"github.com/xiebiao/bookadmin/pkg/pagination"
	"github.com/xiebiao/bookadmin/pkg/tracing"
)

// QueryService 图书查询用例
type QueryService struct {
	repo   book.Repository
	cache  book.Cache
	logger *zap.Logger
}

// NewQueryService 创建查询服务
func NewQueryService(repo book.Repository, cache book.Cache, logger *zap.Logger) *QueryService {
	return &QueryService{
		repo:   repo,
		cache:  cache,
		logger: logger.Named("book_query"),
	}
}

// GetByID 查询单本图书
// 不存在或已删除时返回(nil, false, nil)
func (s *QueryService) GetByID(ctx context.Context, id uint) (_ *book.View, _ bool, err error) {
	if id == 0 {
		return nil, false, apperrors.InvalidParam("id", id, "图书ID必须大于0")
	}

	ctx, span := tracing.StartSpan(ctx, "book", "book.GetByID")
	span.SetAttributes(attribute.Int64("book.id", int64(id)))
	defer func() { tracing.Finish(span, err) }()

	if v, ok := s.cache.Get(ctx, id); ok {
		return v, true, nil
	}

	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if v == nil {
		return nil, false, nil
	}

	s.cache.Set(ctx, v)
	return v, true, nil
}

// GetByCondition 分页查询
//
// 先用相同条件统计总数：为0时直接返回空页（currentPage=0、totalPages=0），
// 不再发出列表查询；否则按实际页码（超出时回退到最后一页）查询一页。
func (s *QueryService) GetByCondition(ctx context.Context, cond book.Condition) (_ *pagination.Page[*book.View], err error) {
	if err := cond.Validate(); err != nil {
		return nil, err
	}

	ctx, span := tracing.StartSpan(ctx, "book", "book.GetByCondition")
	span.SetAttributes(
		attribute.Int("page.size", cond.PageSize),
		attribute.Int("page.requested", cond.CurrentPage),
	)
	defer func() { tracing.Finish(span, err) }()

	total, err := s.repo.CountByCondition(ctx, cond)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return pagination.Empty[*book.View](cond.PageSize), nil
	}

	actualPage, totalPages := pagination.Paginate(total, cond.PageSize, cond.CurrentPage)
	if actualPage != cond.CurrentPage {
		s.logger.Debug("页码超出范围，已回退到最后一页",
			zap.Int("requested", cond.CurrentPage), zap.Int("actual", actualPage))
	}

	views, err := s.repo.ListByCondition(ctx, cond, cond.PageSize, pagination.Offset(actualPage, cond.PageSize))
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []*book.View{}
	}

	return &pagination.Page[*book.View]{
		PageSize:    cond.PageSize,
		CurrentPage: actualPage,
		TotalCount:  total,
		TotalPages:  totalPages,
		Content:     views,
	}, nil
}
