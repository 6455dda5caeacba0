//go:build integration

package integration

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookURL(id uint) string {
	return fmt.Sprintf("%s/books/%d", BaseURL, id)
}

// TestBookCRUD 新建 → 详情 → 更新 → 删除 → 不可见
func TestBookCRUD(t *testing.T) {
	userID, _ := RegisterTestUser(t, "crud")
	publisherID := CreateTestPublisher(t)
	title := Unique("Go语言实战")

	id := CreateTestBook(t, title, publisherID, userID)

	t.Run("详情包含出版社与用户名称", func(t *testing.T) {
		resp := Do(t, http.MethodGet, bookURL(id), nil, "")
		require.Equal(t, http.StatusOK, resp.Status)
		b := Decode[BookData](t, resp)
		assert.Equal(t, title, b.Title)
		require.NotNil(t, b.PublisherName)
		require.NotNil(t, b.UserName)
		assert.Equal(t, "crud", *b.UserName)
		assert.Nil(t, b.Price)
	})

	t.Run("更新返回最新视图", func(t *testing.T) {
		resp := Do(t, http.MethodPut, bookURL(id), map[string]interface{}{
			"title": title + "_v2", "titleKana": "kana", "author": "新作者",
			"publisherId": publisherID, "userId": userID, "price": 5900,
		}, "")
		require.Equal(t, http.StatusOK, resp.Status, resp.Message)
		b := Decode[BookData](t, resp)
		assert.Equal(t, title+"_v2", b.Title)
		require.NotNil(t, b.Price)
		assert.Equal(t, int64(5900), *b.Price)
	})

	t.Run("删除后不可见", func(t *testing.T) {
		require.Equal(t, http.StatusNoContent, Do(t, http.MethodDelete, bookURL(id), nil, "").Status)
		assert.Equal(t, http.StatusNotFound, Do(t, http.MethodGet, bookURL(id), nil, "").Status)
	})

	t.Run("重复删除返回500", func(t *testing.T) {
		resp := Do(t, http.MethodDelete, bookURL(id), nil, "")
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
		assert.Equal(t, 50004, resp.Code)
	})

	t.Run("更新已删除图书返回404", func(t *testing.T) {
		resp := Do(t, http.MethodPut, bookURL(id), map[string]interface{}{
			"title": "x", "titleKana": "x", "author": "x", "publisherId": publisherID, "userId": userID,
		}, "")
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})
}

func TestBookValidation(t *testing.T) {
	userID, _ := RegisterTestUser(t, "valid")
	publisherID := CreateTestPublisher(t)

	t.Run("必填字段为空返回400", func(t *testing.T) {
		resp := Do(t, http.MethodPost, BaseURL+"/books", map[string]interface{}{
			"publisherId": publisherID, "userId": userID,
		}, "")
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Contains(t, resp.Errors, "title")
	})

	t.Run("出版社不存在返回409", func(t *testing.T) {
		resp := Do(t, http.MethodPost, BaseURL+"/books", map[string]interface{}{
			"title": "t", "titleKana": "k", "author": "a", "publisherId": 999999999, "userId": userID,
		}, "")
		assert.Equal(t, http.StatusConflict, resp.Status)
	})

	t.Run("ID格式错误返回400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, Do(t, http.MethodGet, BaseURL+"/books/abc", nil, "").Status)
	})

	t.Run("省略userId时使用当前登录用户", func(t *testing.T) {
		uid, token := RegisterTestUser(t, "owner")
		resp := Do(t, http.MethodPost, BaseURL+"/books", map[string]interface{}{
			"title": Unique("owned"), "titleKana": "k", "author": "a", "publisherId": publisherID,
		}, token)
		require.Equal(t, http.StatusCreated, resp.Status, resp.Message)

		id := Decode[struct {
			ID uint `json:"id"`
		}](t, resp).ID
		b := Decode[BookData](t, Do(t, http.MethodGet, bookURL(id), nil, ""))
		require.NotNil(t, b.UserID)
		assert.Equal(t, uid, *b.UserID)
	})
}

func TestBookPagination(t *testing.T) {
	userID, _ := RegisterTestUser(t, "page")
	publisherID := CreateTestPublisher(t)
	marker := Unique("page")
	for i := 0; i < 5; i++ {
		CreateTestBook(t, fmt.Sprintf("%s-%d", marker, i), publisherID, userID)
	}

	list := func(pageSize, currentPage string) *Response {
		q := url.Values{"title": {marker}, "pageSize": {pageSize}, "currentPage": {currentPage}}
		return Do(t, http.MethodGet, BaseURL+"/books?"+q.Encode(), nil, "")
	}

	t.Run("最后一页", func(t *testing.T) {
		resp := list("2", "3")
		require.Equal(t, http.StatusOK, resp.Status)
		page := Decode[PageData](t, resp)
		assert.Equal(t, int64(5), page.TotalCount)
		assert.Equal(t, 3, page.TotalPages)
		assert.Equal(t, 3, page.CurrentPage)
		assert.Len(t, page.Content, 1)
	})

	t.Run("页码超出时回退到最后一页", func(t *testing.T) {
		page := Decode[PageData](t, list("2", "99"))
		assert.Equal(t, 3, page.CurrentPage)
		assert.Len(t, page.Content, 1)
	})

	t.Run("无结果", func(t *testing.T) {
		q := url.Values{"title": {Unique("none")}, "pageSize": {"10"}, "currentPage": {"1"}}
		page := Decode[PageData](t, Do(t, http.MethodGet, BaseURL+"/books?"+q.Encode(), nil, ""))
		assert.Zero(t, page.TotalPages)
		assert.Zero(t, page.CurrentPage)
		assert.Empty(t, page.Content)
	})

	t.Run("pageSize为0返回400", func(t *testing.T) {
		resp := list("0", "1")
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Contains(t, resp.Errors, "pageSize")
	})
}

func TestBookBatch(t *testing.T) {
	userID, _ := RegisterTestUser(t, "batch")
	publisherID := CreateTestPublisher(t)
	marker := Unique("batch")

	item := func(i int) map[string]interface{} {
		return map[string]interface{}{
			"title": fmt.Sprintf("%s-%d", marker, i), "titleKana": "k", "author": "a",
			"publisherId": publisherID, "userId": userID,
		}
	}
	count := func() int64 {
		q := url.Values{"title": {marker}, "pageSize": {"100"}, "currentPage": {"1"}}
		return Decode[PageData](t, Do(t, http.MethodGet, BaseURL+"/books?"+q.Encode(), nil, "")).TotalCount
	}

	t.Run("批量新建", func(t *testing.T) {
		resp := Do(t, http.MethodPost, BaseURL+"/books/batch", []interface{}{item(1), item(2), item(3)}, "")
		require.Equal(t, http.StatusOK, resp.Status, resp.Message)
		assert.Equal(t, Outcome{Processed: 3, Applied: 3}, Decode[Outcome](t, resp))
		assert.Equal(t, int64(3), count())
	})

	t.Run("任意一条失败整体回滚", func(t *testing.T) {
		bad := item(5)
		bad["publisherId"] = 999999999
		resp := Do(t, http.MethodPost, BaseURL+"/books/batch", []interface{}{item(4), bad}, "")
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
		assert.Equal(t, int64(3), count(), "第一条也应回滚")
	})

	t.Run("空列表返回400", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, Do(t, http.MethodPost, BaseURL+"/books/batch", []interface{}{}, "").Status)
	})

	t.Run("批量删除", func(t *testing.T) {
		q := url.Values{"title": {marker}, "pageSize": {"100"}, "currentPage": {"1"}}
		page := Decode[PageData](t, Do(t, http.MethodGet, BaseURL+"/books?"+q.Encode(), nil, ""))
		ids := make([]uint, 0, len(page.Content))
		for _, b := range page.Content {
			ids = append(ids, b.ID)
		}
		ids = append(ids, ids[0])

		resp := Do(t, http.MethodDelete, BaseURL+"/books/batch", map[string]interface{}{"ids": ids}, "")
		require.Equal(t, http.StatusNoContent, resp.Status, resp.Message)
		assert.Zero(t, count())

		resp = Do(t, http.MethodDelete, BaseURL+"/books/batch", map[string]interface{}{"ids": ids}, "")
		assert.Equal(t, http.StatusInternalServerError, resp.Status)
	})
}

func TestPublisher(t *testing.T) {
	id := CreateTestPublisher(t)

	resp := Do(t, http.MethodGet, fmt.Sprintf("%s/publishers/%d", BaseURL, id), nil, "")
	assert.Equal(t, http.StatusOK, resp.Status)

	resp = Do(t, http.MethodGet, BaseURL+"/publishers/999999999", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.Status)
}
