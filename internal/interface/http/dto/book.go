package dto

import (
	"time"

	"github.com/xiebiao/bookadmin/internal/domain/book"
)

// BookRequest 新建/更新图书请求
// 字段规则由领域层校验（返回字段→提示映射），这里只负责JSON绑定
type BookRequest struct {
	ID          uint   `json:"id,omitempty" example:"0"` // 新建时可指定ID，更新时以路径为准
	Title       string `json:"title" example:"Go语言实战"`
	TitleKana   string `json:"titleKana" example:"goyuyanshizhan"`
	Author      string `json:"author" example:"威廉·肯尼迪"`
	PublisherID uint   `json:"publisherId" example:"1"`
	UserID      uint   `json:"userId" example:"1"` // 省略时使用当前登录用户
	Price       *int64 `json:"price,omitempty" example:"5900"`
}

// ToDraft 转换为新建草稿
func (r *BookRequest) ToDraft() *book.Draft {
	return &book.Draft{
		ID:          r.ID,
		Title:       r.Title,
		TitleKana:   r.TitleKana,
		Author:      r.Author,
		PublisherID: r.PublisherID,
		UserID:      r.UserID,
		Price:       r.Price,
	}
}

// ToBook 转换为更新记录
func (r *BookRequest) ToBook(id uint) *book.Book {
	return &book.Book{
		ID:          id,
		Title:       r.Title,
		TitleKana:   r.TitleKana,
		Author:      r.Author,
		PublisherID: r.PublisherID,
		UserID:      r.UserID,
		Price:       r.Price,
	}
}

// DeleteBooksRequest 批量删除请求
type DeleteBooksRequest struct {
	IDs []uint `json:"ids" example:"1,2,3"`
}

// ListBooksQuery 分页查询参数
// 文本条件为区分大小写的子串匹配
type ListBooksQuery struct {
	Title       string `form:"title"`
	TitleKana   string `form:"titleKana"`
	Author      string `form:"author"`
	PublisherID *uint  `form:"publisherId"`
	UserID      *uint  `form:"userId"`
	PageSize    int    `form:"pageSize" example:"20"`
	CurrentPage int    `form:"currentPage" example:"1"`
}

// ToCondition 转换为查询条件
func (q *ListBooksQuery) ToCondition() book.Condition {
	return book.Condition{
		Title:       q.Title,
		TitleKana:   q.TitleKana,
		Author:      q.Author,
		PublisherID: q.PublisherID,
		UserID:      q.UserID,
		PageSize:    q.PageSize,
		CurrentPage: q.CurrentPage,
	}
}

// BookResponse 图书详情
// 出版社或用户不存在/已删除时对应字段为null
type BookResponse struct {
	ID            uint      `json:"id" example:"1"`
	Title         string    `json:"title" example:"Go语言实战"`
	TitleKana     string    `json:"titleKana" example:"goyuyanshizhan"`
	Author        string    `json:"author" example:"威廉·肯尼迪"`
	Price         *int64    `json:"price" example:"5900"`
	PublisherID   *uint     `json:"publisherId" example:"1"`
	PublisherName *string   `json:"publisherName" example:"人民邮电出版社"`
	UserID        *uint     `json:"userId" example:"1"`
	UserName      *string   `json:"userName" example:"gopher"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ToBookResponse 读模型 → 响应
func ToBookResponse(v *book.View) *BookResponse {
	return &BookResponse{
		ID:            v.ID,
		Title:         v.Title,
		TitleKana:     v.TitleKana,
		Author:        v.Author,
		Price:         v.Price,
		PublisherID:   v.PublisherID,
		PublisherName: v.PublisherName,
		UserID:        v.UserID,
		UserName:      v.UserName,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

// IDResponse 新建成功返回的ID
type IDResponse struct {
	ID uint `json:"id" example:"1"`
}
