package mysql

import (
	"errors"
	"regexp"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
)

// MySQL错误码
const (
	errDuplicateEntry  = 1062 // Duplicate entry 'xxx' for key 'yyy'
	errNoReferencedRow = 1452 // Cannot add or update a child row: a foreign key constraint fails
)

var (
	fkColumnPattern  = regexp.MustCompile("FOREIGN KEY \\(`([^`]+)`\\)")
	dupKeyPattern    = regexp.MustCompile(`for key '([^']+)'`)
	columnToAPIField = map[string]string{
		"publisher_id": "publisherId",
		"user_id":      "userId",
		"title_kana":   "titleKana",
	}
)

// values 写入时各API字段的取值，用于错误信息中回显
type values map[string]any

// classifyError 把数据库错误转换为业务错误
// 1. 1062 → DuplicateKey
// 2. 1452 → ForeignKeyViolation，从错误文本提取外键列
// 3. 其他 → Wrap(Unexpected)
func classifyError(err error, message string, vals values) error {
	if err == nil {
		return nil
	}

	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errDuplicateEntry:
			field := duplicateField(myErr.Message)
			return apperrors.DuplicateKey(field, vals[field], err)
		case errNoReferencedRow:
			field := foreignKeyField(myErr.Message)
			return apperrors.ForeignKeyViolation(field, vals[field], err)
		}
	}

	// 兼容检查:开启TranslateError或驱动包装后的错误
	if isDuplicateError(err) {
		field := duplicateField(err.Error())
		return apperrors.DuplicateKey(field, vals[field], err)
	}
	if isForeignKeyError(err) {
		field := foreignKeyField(err.Error())
		return apperrors.ForeignKeyViolation(field, vals[field], err)
	}

	return apperrors.Wrap(err, message)
}

// foreignKeyField 从1452错误文本提取外键列并转换为API字段名
// 例: ... CONSTRAINT `fk_books_publisher` FOREIGN KEY (`publisher_id`) REFERENCES `publishers` (`id`))
func foreignKeyField(msg string) string {
	m := fkColumnPattern.FindStringSubmatch(msg)
	if len(m) != 2 {
		return ""
	}
	return apiField(m[1])
}

// duplicateField 从1062错误文本提取冲突的索引
// 例: Duplicate entry '3' for key 'books.PRIMARY' / for key 'idx_users_email'
func duplicateField(msg string) string {
	m := dupKeyPattern.FindStringSubmatch(msg)
	if len(m) != 2 {
		return ""
	}
	key := m[1]
	if i := strings.LastIndex(key, "."); i >= 0 {
		key = key[i+1:]
	}
	switch {
	case strings.EqualFold(key, "PRIMARY"):
		return "id"
	case strings.Contains(key, "email"):
		return "email"
	default:
		return key
	}
}

func apiField(column string) string {
	if f, ok := columnToAPIField[column]; ok {
		return f
	}
	return column
}

// isDuplicateError 判断是否为唯一索引冲突错误
func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "Duplicate entry")
}

// isForeignKeyError 判断是否为外键约束错误
func isForeignKeyError(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(err.Error(), "foreign key constraint fails")
}
