package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/xiebiao/bookadmin/internal/application/batch"
	appbook "github.com/xiebiao/bookadmin/internal/application/book"
	"github.com/xiebiao/bookadmin/internal/domain/book"
	"github.com/xiebiao/bookadmin/internal/interface/http/dto"
	"github.com/xiebiao/bookadmin/internal/interface/http/middleware"
	"github.com/xiebiao/bookadmin/pkg/pagination"
	"github.com/xiebiao/bookadmin/pkg/response"
)

// BookQuery 图书查询用例（*appbook.QueryService实现）
type BookQuery interface {
	GetByID(ctx context.Context, id uint) (*book.View, bool, error)
	GetByCondition(ctx context.Context, cond book.Condition) (*pagination.Page[*book.View], error)
}

// BookWriter 图书写用例（*appbook.WriteService实现）
type BookWriter interface {
	Create(ctx context.Context, draft *book.Draft) (uint, error)
	CreateBatch(ctx context.Context, drafts []*book.Draft) (batch.Outcome, error)
	Update(ctx context.Context, b *book.Book) (int64, error)
	UpdateBatch(ctx context.Context, records []*book.Book) (batch.Outcome, error)
	SoftDelete(ctx context.Context, id uint) (int64, error)
	SoftDeleteBatch(ctx context.Context, ids []uint) (int64, error)
}

// BookHandler 图书HTTP处理器
// 只负责解析请求、调用应用层、写响应
type BookHandler struct {
	query  BookQuery
	writer BookWriter
	resp   *response.Responder
}

// NewBookHandler 创建图书处理器
func NewBookHandler(query BookQuery, writer BookWriter, resp *response.Responder) *BookHandler {
	return &BookHandler{query: query, writer: writer, resp: resp}
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "ID格式错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	view, found, err := h.query.GetByID(c.Request.Context(), id)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if !found {
		h.resp.Error(c, book.ErrBookNotFound)
		return
	}
	h.resp.Success(c, dto.ToBookResponse(view))
}

// ListBooks 分页查询
// @Summary      分页查询图书
// @Description  文本条件为区分大小写的子串匹配；页码超出时返回最后一页；无结果时currentPage与totalPages为0
// @Tags         图书
// @Produce      json
// @Param        title query string false "书名"
// @Param        titleKana query string false "书名读音"
// @Param        author query string false "作者"
// @Param        publisherId query int false "出版社ID"
// @Param        userId query int false "用户ID"
// @Param        pageSize query int true "每页数量"
// @Param        currentPage query int true "页码"
// @Success      200 {object} response.Response{data=pagination.Page[dto.BookResponse]}
// @Failure      400 {object} response.Response "分页参数错误"
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var q dto.ListBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.resp.Error(c, bindError(err))
		return
	}

	page, err := h.query.GetByCondition(c.Request.Context(), q.ToCondition())
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, pagination.Map(page, dto.ToBookResponse))
}

// CreateBook 新建图书
// @Summary      新建图书
// @Description  省略userId且已登录时，使用当前用户
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body dto.BookRequest true "图书信息"
// @Success      201 {object} response.Response{data=dto.IDResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "ID重复或出版社/用户不存在"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.Error(c, bindError(err))
		return
	}

	id, err := h.writer.Create(c.Request.Context(), h.draft(c, &req))
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Created(c, &dto.IDResponse{ID: id})
}

// CreateBooks 批量新建
// @Summary      批量新建图书
// @Description  任意一条失败则整体回滚
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body []dto.BookRequest true "图书列表"
// @Success      200 {object} response.Response{data=batch.Outcome}
// @Failure      400 {object} response.Response "请求为空或格式错误"
// @Failure      500 {object} response.Response "批量操作失败，已全部回滚"
// @Router       /api/v1/books/batch [post]
func (h *BookHandler) CreateBooks(c *gin.Context) {
	var reqs []dto.BookRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		h.resp.Error(c, bindError(err))
		return
	}
	if len(reqs) == 0 {
		h.resp.Error(c, book.ErrEmptyBatch)
		return
	}

	drafts := make([]*book.Draft, len(reqs))
	for i := range reqs {
		drafts[i] = h.draft(c, &reqs[i])
	}

	outcome, err := h.writer.CreateBatch(c.Request.Context(), drafts)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, outcome)
}

// UpdateBook 更新图书
// @Summary      更新图书
// @Description  已删除的图书不会被恢复
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        id path int true "图书ID"
// @Param        request body dto.BookRequest true "图书信息"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误"
// @Failure      404 {object} response.Response "图书不存在"
// @Failure      409 {object} response.Response "出版社/用户不存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	var req dto.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.Error(c, bindError(err))
		return
	}

	ctx := c.Request.Context()
	affected, err := h.writer.Update(ctx, req.ToBook(id))
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if affected == 0 {
		h.resp.Error(c, book.ErrBookNotFound)
		return
	}

	view, found, err := h.query.GetByID(ctx, id)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if !found {
		// 更新后被并发删除
		h.resp.Error(c, book.ErrBookNotFound)
		return
	}
	h.resp.Success(c, dto.ToBookResponse(view))
}

// UpdateBooks 批量更新
// @Summary      批量更新图书
// @Description  每条记录必须带id；任意一条失败则整体回滚；applied为实际更新的行数
// @Tags         图书
// @Accept       json
// @Produce      json
// @Param        request body []dto.BookRequest true "图书列表"
// @Success      200 {object} response.Response{data=batch.Outcome}
// @Failure      400 {object} response.Response "请求为空或格式错误"
// @Failure      500 {object} response.Response "批量操作失败，已全部回滚"
// @Router       /api/v1/books/batch [put]
func (h *BookHandler) UpdateBooks(c *gin.Context) {
	var reqs []dto.BookRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		h.resp.Error(c, bindError(err))
		return
	}
	if len(reqs) == 0 {
		h.resp.Error(c, book.ErrEmptyBatch)
		return
	}

	records := make([]*book.Book, len(reqs))
	for i := range reqs {
		records[i] = reqs[i].ToBook(reqs[i].ID)
	}

	outcome, err := h.writer.UpdateBatch(c.Request.Context(), records)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Success(c, outcome)
}

// DeleteBook 删除图书（逻辑删除）
// @Summary      删除图书
// @Tags         图书
// @Param        id path int true "图书ID"
// @Success      204 "删除成功"
// @Failure      400 {object} response.Response "ID格式错误"
// @Failure      500 {object} response.Response "图书不存在或已删除"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	affected, err := h.writer.SoftDelete(c.Request.Context(), id)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if affected == 0 {
		h.resp.Error(c, book.ErrDeleteFailed)
		return
	}
	h.resp.NoContent(c)
}

// DeleteBooks 批量删除（逻辑删除）
// @Summary      批量删除图书
// @Description  重复的ID只计一次；任意ID不存在或已删除时返回500（其余ID已删除）
// @Tags         图书
// @Accept       json
// @Param        request body dto.DeleteBooksRequest true "ID列表"
// @Success      204 "删除成功"
// @Failure      400 {object} response.Response "请求为空或格式错误"
// @Failure      500 {object} response.Response "部分图书不存在或已删除"
// @Router       /api/v1/books/batch [delete]
func (h *BookHandler) DeleteBooks(c *gin.Context) {
	var req dto.DeleteBooksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.Error(c, bindError(err))
		return
	}
	if len(req.IDs) == 0 {
		h.resp.Error(c, book.ErrEmptyBatch)
		return
	}

	affected, err := h.writer.SoftDeleteBatch(c.Request.Context(), req.IDs)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	if affected < int64(len(appbook.UniqueIDs(req.IDs))) {
		h.resp.Error(c, book.ErrDeleteFailed)
		return
	}
	h.resp.NoContent(c)
}

// draft 请求 → 草稿；省略userId时使用当前登录用户
func (h *BookHandler) draft(c *gin.Context, req *dto.BookRequest) *book.Draft {
	d := req.ToDraft()
	if d.UserID == 0 {
		d.UserID = middleware.GetUserID(c)
	}
	return d
}
