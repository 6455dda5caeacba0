package mysql

import (
	"errors"
	"fmt"
	"testing"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	apperrors "github.com/xiebiao/bookadmin/pkg/errors"
)

func TestClassifyError(t *testing.T) {
	vals := values{"id": uint(3), "publisherId": uint(99), "userId": uint(1)}

	tests := []struct {
		name      string
		err       error
		wantKind  apperrors.Kind
		wantField string
		wantValue any
	}{
		{
			name: "出版社外键不存在",
			err: &mysqldrv.MySQLError{Number: 1452, Message: "Cannot add or update a child row: a foreign key constraint fails " +
				"(`bookadmin`.`books`, CONSTRAINT `fk_books_publisher` FOREIGN KEY (`publisher_id`) REFERENCES `publishers` (`id`))"},
			wantKind:  apperrors.KindForeignKeyViolation,
			wantField: "publisherId",
			wantValue: uint(99),
		},
		{
			name: "用户外键不存在(被包装)",
			err: fmt.Errorf("exec: %w", &mysqldrv.MySQLError{Number: 1452, Message: "a foreign key constraint fails " +
				"(`bookadmin`.`books`, CONSTRAINT `fk_books_user` FOREIGN KEY (`user_id`) REFERENCES `users` (`id`))"}),
			wantKind:  apperrors.KindForeignKeyViolation,
			wantField: "userId",
			wantValue: uint(1),
		},
		{
			name:      "主键冲突",
			err:       &mysqldrv.MySQLError{Number: 1062, Message: "Duplicate entry '3' for key 'books.PRIMARY'"},
			wantKind:  apperrors.KindDuplicateKey,
			wantField: "id",
			wantValue: uint(3),
		},
		{
			name:      "GORM翻译后的重复键",
			err:       gorm.ErrDuplicatedKey,
			wantKind:  apperrors.KindDuplicateKey,
			wantField: "",
		},
		{
			name:      "GORM翻译后的外键错误",
			err:       gorm.ErrForeignKeyViolated,
			wantKind:  apperrors.KindForeignKeyViolation,
			wantField: "",
		},
		{
			name:     "其他错误",
			err:      errors.New("connection reset by peer"),
			wantKind: apperrors.KindUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyError(tt.err, "创建图书失败", vals)
			appErr := apperrors.GetAppError(err)

			assert.Equal(t, tt.wantKind, appErr.Kind)
			assert.Equal(t, tt.wantField, appErr.Field)
			assert.Equal(t, tt.wantValue, appErr.Value)
			assert.ErrorIs(t, err, tt.err, "保留原始错误")
		})
	}

	assert.NoError(t, classifyError(nil, "x", nil))
}

func TestDuplicateField(t *testing.T) {
	assert.Equal(t, "id", duplicateField("Duplicate entry '1' for key 'PRIMARY'"))
	assert.Equal(t, "email", duplicateField("Duplicate entry 'a@b.c' for key 'users.idx_users_email'"))
	assert.Equal(t, "", duplicateField("something else"))
}
