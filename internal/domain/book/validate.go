package book

import (
	"unicode/utf8"

	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
)

const (
	maxTitleLen  = 200
	maxAuthorLen = 100
)

// Validate 校验新建草稿
func (d *Draft) Validate() error {
	v := apperrors.NewValidation()
	checkFields(v, d.Title, d.TitleKana, d.Author, d.PublisherID, d.UserID, d.Price)
	return v.Err()
}

// ValidateForUpdate 校验更新记录(ID必填)
func (b *Book) ValidateForUpdate() error {
	v := apperrors.NewValidation()
	v.Check(b.ID > 0, "id", b.ID, "图书ID必须大于0")
	checkFields(v, b.Title, b.TitleKana, b.Author, b.PublisherID, b.UserID, b.Price)
	return v.Err()
}

// Validate 校验分页参数
// 不限制PageSize上限
func (c *Condition) Validate() error {
	v := apperrors.NewValidation()
	v.Check(c.PageSize >= 1, "pageSize", c.PageSize, "每页数量必须大于等于1")
	v.Check(c.CurrentPage >= 1, "currentPage", c.CurrentPage, "页码必须大于等于1")
	if c.PublisherID != nil {
		v.Check(*c.PublisherID > 0, "publisherId", *c.PublisherID, "出版社ID必须大于0")
	}
	if c.UserID != nil {
		v.Check(*c.UserID > 0, "userId", *c.UserID, "用户ID必须大于0")
	}
	return v.Err()
}

func checkFields(v *apperrors.Validation, title, titleKana, author string, publisherID, userID uint, price *int64) {
	v.Check(title != "", "title", title, "书名不能为空")
	v.Check(utf8.RuneCountInString(title) <= maxTitleLen, "title", title, "书名不能超过200个字符")
	v.Check(titleKana != "", "titleKana", titleKana, "书名读音不能为空")
	v.Check(utf8.RuneCountInString(titleKana) <= maxTitleLen, "titleKana", titleKana, "书名读音不能超过200个字符")
	v.Check(author != "", "author", author, "作者不能为空")
	v.Check(utf8.RuneCountInString(author) <= maxAuthorLen, "author", author, "作者不能超过100个字符")
	v.Check(publisherID > 0, "publisherId", publisherID, "出版社ID必须大于0")
	v.Check(userID > 0, "userId", userID, "用户ID必须大于0")
	if price != nil {
		v.Check(*price >= 0, "price", *price, "价格不能为负数")
	}
}
