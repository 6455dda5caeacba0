package book

import (
	"time"
)

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. 价格可为空(未定价),有值时必须>=0
// 2. PublisherID/UserID引用出版社与登记用户,由数据库外键保证存在
// 3. 删除只是逻辑删除(IsDeleted=true),已删除的记录对所有读操作不可见
type Book struct {
	ID          uint
	Title       string // 书名
	TitleKana   string // 书名读音
	Author      string // 作者
	PublisherID uint   // 出版社ID
	UserID      uint   // 登记用户ID
	Price       *int64 // 价格(nil表示未定价)
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Draft 新建图书的草稿
// ID为0时由数据库分配,非0时按指定ID插入(冲突返回DuplicateKey)
type Draft struct {
	ID          uint
	Title       string
	TitleKana   string
	Author      string
	PublisherID uint
	UserID      uint
	Price       *int64
}

// View 图书读模型(关联出版社名与用户名)
// 出版社或用户不存在/已删除时,对应字段为nil,不视为错误
type View struct {
	ID            uint
	Title         string
	TitleKana     string
	Author        string
	Price         *int64
	PublisherID   *uint
	PublisherName *string
	UserID        *uint
	UserName      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Condition 分页查询条件
// Title/TitleKana/Author为区分大小写的子串匹配,PublisherID/UserID为精确匹配
type Condition struct {
	Title       string
	TitleKana   string
	Author      string
	PublisherID *uint
	UserID      *uint
	PageSize    int
	CurrentPage int
}
