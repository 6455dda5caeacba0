// Package pagination 分页计算与分页结果封装
package pagination

// Paginate 根据总记录数计算总页数与实际页码
//
// 规则：
//   - totalCount为0时返回(0, 0)，0表示"没有任何一页"，与最小有效页码1区分
//   - 否则totalPages = ceil(totalCount / pageSize)
//   - 请求页码超过总页数时静默回退到最后一页，不报错
//
// 调用方负责保证pageSize >= 1、requestedPage >= 1
func Paginate(totalCount int64, pageSize, requestedPage int) (actualPage, totalPages int) {
	if totalCount <= 0 {
		return 0, 0
	}

	// 不用(totalCount+size-1)/size，pageSize接近MaxInt时会溢出
	size := int64(pageSize)
	totalPages = int((totalCount-1)/size + 1)

	actualPage = requestedPage
	if actualPage > totalPages {
		actualPage = totalPages
	}
	return actualPage, totalPages
}

// Offset 计算SQL偏移量（actualPage从1开始）
func Offset(actualPage, pageSize int) int {
	if actualPage <= 1 {
		return 0
	}
	return (actualPage - 1) * pageSize
}

// Page 分页结果
type Page[T any] struct {
	PageSize    int   `json:"pageSize"`
	CurrentPage int   `json:"currentPage"` // 实际返回的页码（可能已回退）
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	Content     []T   `json:"content"`
}

// Empty 空结果页（currentPage和totalPages均为0）
func Empty[T any](pageSize int) *Page[T] {
	return &Page[T]{
		PageSize: pageSize,
		Content:  []T{},
	}
}

// Map 转换分页内容，分页元数据保持不变
//
//	resp := pagination.Map(page, dto.ToBookResponse)
func Map[T, R any](p *Page[T], fn func(T) R) *Page[R] {
	content := make([]R, 0, len(p.Content))
	for _, item := range p.Content {
		content = append(content, fn(item))
	}
	return &Page[R]{
		PageSize:    p.PageSize,
		CurrentPage: p.CurrentPage,
		TotalCount:  p.TotalCount,
		TotalPages:  p.TotalPages,
		Content:     content,
	}
}
