package errors

// Validation 字段校验收集器
// 校验步骤直接写入"字段→提示"映射，同一字段只保留第一条失败信息
//
//	v := errors.NewValidation()
//	v.Check(title != "", "title", title, "书名不能为空")
//	if err := v.Err(); err != nil {
//	    return err
//	}
type Validation struct {
	fields     map[string]string
	firstField string
	firstValue any
}

// NewValidation 创建空的校验收集器
func NewValidation() *Validation {
	return &Validation{fields: make(map[string]string)}
}

// Check ok为false时记录字段错误
func (v *Validation) Check(ok bool, field string, value any, message string) {
	if ok {
		return
	}
	if _, exists := v.fields[field]; exists {
		return
	}
	if len(v.fields) == 0 {
		v.firstField = field
		v.firstValue = value
	}
	v.fields[field] = message
}

// Valid 没有任何字段错误
func (v *Validation) Valid() bool {
	return len(v.fields) == 0
}

// Err 汇总为InvalidParam错误，校验通过时返回nil
func (v *Validation) Err() error {
	if v.Valid() {
		return nil
	}
	fields := make(map[string]string, len(v.fields))
	for k, msg := range v.fields {
		fields[k] = msg
	}
	return &AppError{
		Kind:    KindInvalidParam,
		Code:    ErrCodeInvalidParams,
		Message: v.fields[v.firstField],
		Field:   v.firstField,
		Value:   v.firstValue,
		Fields:  fields,
	}
}
