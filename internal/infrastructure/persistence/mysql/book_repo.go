package mysql

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookadmin/internal/domain/book"
	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
)

// viewColumns 图书视图的查询列
// 出版社/用户在LEFT JOIN条件中过滤已删除记录，不存在时对应列为NULL
const viewColumns = "b.id, b.title, b.title_kana, b.author, b.price, b.created_at, b.updated_at, " +
	"p.id AS publisher_id, p.name AS publisher_name, u.id AS user_id, u.name AS user_name"

// likeEscaper 转义LIKE通配符(MySQL默认转义符为反斜杠)
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 所有读操作显式过滤is_deleted = false
// 3. 写操作通过getDB加入ctx中的事务/批量会话
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// bookViewRow 视图查询结果
type bookViewRow struct {
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

// FindByID 查询图书视图,不存在或已删除返回(nil, nil)
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.View, error) {
	var rows []bookViewRow
	err := viewQuery(getDB(ctx, r.db)).
		Where("b.id = ?", id).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return toView(&rows[0]), nil
}

// ListByCondition 按条件分页查询
func (r *bookRepository) ListByCondition(ctx context.Context, cond book.Condition, limit, offset int) ([]*book.View, error) {
	var rows []bookViewRow
	if err := listQuery(getDB(ctx, r.db), cond, limit, offset).Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	views := make([]*book.View, 0, len(rows))
	for i := range rows {
		views = append(views, toView(&rows[i]))
	}
	return views, nil
}

// CountByCondition 统计总数(与列表查询相同的过滤条件)
func (r *bookRepository) CountByCondition(ctx context.Context, cond book.Condition) (int64, error) {
	var total int64
	if err := countQuery(getDB(ctx, r.db), cond).Count(&total).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计图书数量失败")
	}
	return total, nil
}

// Save 新建图书
// 学习要点:
// 1. ID非0时按指定ID插入,主键冲突(1062)转换为DuplicateKey
// 2. 出版社/用户不存在由外键约束(1452)发现,转换为ForeignKeyViolation
func (r *bookRepository) Save(ctx context.Context, d *book.Draft) (uint, error) {
	model := &BookModel{
		ID:          d.ID,
		Title:       d.Title,
		TitleKana:   d.TitleKana,
		Author:      d.Author,
		PublisherID: d.PublisherID,
		UserID:      d.UserID,
		Price:       d.Price,
	}

	if err := getDB(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return 0, classifyError(err, "创建图书失败", values{
			"id":          d.ID,
			"publisherId": d.PublisherID,
			"userId":      d.UserID,
		})
	}
	return model.ID, nil
}

// Update 更新可变字段
// WHERE条件带is_deleted = false,已删除的记录不会被恢复,受影响行数为0
func (r *bookRepository) Update(ctx context.Context, b *book.Book) (int64, error) {
	result := updateQuery(getDB(ctx, r.db), b.ID).Updates(map[string]interface{}{
		"title":        b.Title,
		"title_kana":   b.TitleKana,
		"author":       b.Author,
		"publisher_id": b.PublisherID,
		"user_id":      b.UserID,
		"price":        b.Price,
		"updated_at":   time.Now(),
	})
	if result.Error != nil {
		return 0, classifyError(result.Error, "更新图书失败", values{
			"id":          b.ID,
			"publisherId": b.PublisherID,
			"userId":      b.UserID,
		})
	}
	return result.RowsAffected, nil
}

// DeleteLogically 逻辑删除,目标不存在或已删除时返回0
func (r *bookRepository) DeleteLogically(ctx context.Context, id uint) (int64, error) {
	result := updateQuery(getDB(ctx, r.db), id).Updates(deletedColumns())
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "删除图书失败")
	}
	return result.RowsAffected, nil
}

// DeleteBatchLogically 批量逻辑删除(一条UPDATE ... WHERE id IN ?)
func (r *bookRepository) DeleteBatchLogically(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := getDB(ctx, r.db).Model(&BookModel{}).
		Where("id IN ?", ids).
		Where("is_deleted = ?", false).
		Updates(deletedColumns())
	if result.Error != nil {
		return 0, apperrors.Wrap(result.Error, "批量删除图书失败")
	}
	return result.RowsAffected, nil
}

// =========================================
// 查询构建(便于DryRun校验SQL)
// =========================================

// viewQuery 图书视图基础查询
func viewQuery(db *gorm.DB) *gorm.DB {
	return db.Table("books AS b").
		Select(viewColumns).
		Joins("LEFT JOIN publishers AS p ON p.id = b.publisher_id AND p.is_deleted = ?", false).
		Joins("LEFT JOIN users AS u ON u.id = b.user_id AND u.is_deleted = ?", false).
		Where("b.is_deleted = ?", false)
}

// listQuery 分页查询,按id升序保证翻页稳定
func listQuery(db *gorm.DB, cond book.Condition, limit, offset int) *gorm.DB {
	return applyCondition(viewQuery(db), cond).
		Order("b.id ASC").
		Limit(limit).
		Offset(offset)
}

// countQuery 统计查询,不需要关联表
func countQuery(db *gorm.DB, cond book.Condition) *gorm.DB {
	return applyCondition(db.Table("books AS b").Where("b.is_deleted = ?", false), cond)
}

// applyCondition 追加过滤条件
// 书名/读音/作者为子串匹配(列排序规则为utf8mb4_bin,区分大小写)
func applyCondition(q *gorm.DB, cond book.Condition) *gorm.DB {
	if cond.Title != "" {
		q = q.Where("b.title LIKE ?", containsPattern(cond.Title))
	}
	if cond.TitleKana != "" {
		q = q.Where("b.title_kana LIKE ?", containsPattern(cond.TitleKana))
	}
	if cond.Author != "" {
		q = q.Where("b.author LIKE ?", containsPattern(cond.Author))
	}
	if cond.PublisherID != nil {
		q = q.Where("b.publisher_id = ?", *cond.PublisherID)
	}
	if cond.UserID != nil {
		q = q.Where("b.user_id = ?", *cond.UserID)
	}
	return q
}

// updateQuery 只命中未删除的记录
func updateQuery(db *gorm.DB, id uint) *gorm.DB {
	return db.Model(&BookModel{}).
		Where("id = ?", id).
		Where("is_deleted = ?", false)
}

func deletedColumns() map[string]interface{} {
	return map[string]interface{}{
		"is_deleted": true,
		"updated_at": time.Now(),
	}
}

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// toView 查询结果 → 领域读模型
func toView(row *bookViewRow) *book.View {
	return &book.View{
		ID:            row.ID,
		Title:         row.Title,
		TitleKana:     row.TitleKana,
		Author:        row.Author,
		Price:         row.Price,
		PublisherID:   row.PublisherID,
		PublisherName: row.PublisherName,
		UserID:        row.UserID,
		UserName:      row.UserName,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
