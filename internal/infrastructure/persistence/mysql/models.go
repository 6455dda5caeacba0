package mysql

import (
	"time"
)

// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain层实体不依赖GORM，Repository负责两者之间的转换
// 3. 逻辑删除统一使用is_deleted列（而不是gorm.DeletedAt），查询时显式过滤

// PublisherModel GORM出版社模型
type PublisherModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;comment:出版社名称"`
	IsDeleted bool      `gorm:"not null;default:false;comment:逻辑删除标记"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (PublisherModel) TableName() string {
	return "publishers"
}

// UserModel GORM用户模型
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:50;not null;comment:用户名"`
	Email     string    `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	IsDeleted bool      `gorm:"not null;default:false;comment:逻辑删除标记"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// BookModel GORM图书模型
// 设计说明:
// 1. 书名/读音/作者使用utf8mb4_bin排序规则，LIKE子串匹配区分大小写
// 2. publisher_id/user_id有外键约束（RESTRICT），引用不存在时MySQL返回1452
// 3. Publisher/User仅用于建外键，写入时Omit(clause.Associations)
type BookModel struct {
	ID          uint            `gorm:"primaryKey"`
	Title       string          `gorm:"type:varchar(200) COLLATE utf8mb4_bin;not null;comment:书名"`
	TitleKana   string          `gorm:"type:varchar(200) COLLATE utf8mb4_bin;not null;comment:书名读音"`
	Author      string          `gorm:"type:varchar(100) COLLATE utf8mb4_bin;not null;index;comment:作者"`
	PublisherID uint            `gorm:"index;not null;comment:出版社ID"`
	UserID      uint            `gorm:"index;not null;comment:登记用户ID"`
	Price       *int64          `gorm:"comment:价格"`
	IsDeleted   bool            `gorm:"index;not null;default:false;comment:逻辑删除标记"`
	CreatedAt   time.Time       `gorm:"comment:创建时间"`
	UpdatedAt   time.Time       `gorm:"comment:更新时间"`
	Publisher   *PublisherModel `gorm:"foreignKey:PublisherID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	User        *UserModel      `gorm:"foreignKey:UserID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}
