package publisher

import (
	"context"
	"time"
	"unicode/utf8"

	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
)

// Publisher 出版社实体
// 图书通过publisher_id外键引用出版社
type Publisher struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ErrPublisherNotFound 出版社不存在(或已删除)
var ErrPublisherNotFound = apperrors.New(apperrors.KindNotFound, apperrors.ErrCodePublisherNotFound, "出版社不存在")

// Validate 名称1-100个字符
func (p *Publisher) Validate() error {
	v := apperrors.NewValidation()
	v.Check(p.Name != "", "name", p.Name, "出版社名称不能为空")
	v.Check(utf8.RuneCountInString(p.Name) <= 100, "name", p.Name, "出版社名称不能超过100个字符")
	return v.Err()
}

// Repository 出版社仓储接口
type Repository interface {
	// Create 创建出版社,回填ID
	Create(ctx context.Context, p *Publisher) error

	// FindByID 不存在或已删除返回ErrPublisherNotFound
	FindByID(ctx context.Context, id uint) (*Publisher, error)
}
