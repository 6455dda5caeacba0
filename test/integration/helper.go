//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 集成测试驱动一个已启动的服务（真实MySQL与Redis）
//
// 运行方式：
//
//	go run ./cmd/api &
//	go test -tags=integration -v ./test/integration/...
//
// BOOKADMIN_TEST_BASE_URL 可覆盖默认地址

// Timeout HTTP请求超时时间
const Timeout = 10 * time.Second

// BaseURL API基础URL
var BaseURL = func() string {
	if v := os.Getenv("BOOKADMIN_TEST_BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080/api/v1"
}()

var client = &http.Client{Timeout: Timeout}

// Response 统一响应结构
type Response struct {
	Status  int               `json:"-"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// BookData 图书详情
type BookData struct {
	ID            uint    `json:"id"`
	Title         string  `json:"title"`
	TitleKana     string  `json:"titleKana"`
	Author        string  `json:"author"`
	Price         *int64  `json:"price"`
	PublisherID   *uint   `json:"publisherId"`
	PublisherName *string `json:"publisherName"`
	UserID        *uint   `json:"userId"`
	UserName      *string `json:"userName"`
}

// PageData 分页结果
type PageData struct {
	PageSize    int        `json:"pageSize"`
	CurrentPage int        `json:"currentPage"`
	TotalCount  int64      `json:"totalCount"`
	TotalPages  int        `json:"totalPages"`
	Content     []BookData `json:"content"`
}

// Outcome 批量操作结果
type Outcome struct {
	Processed int   `json:"processed"`
	Applied   int64 `json:"applied"`
}

// Do 发送请求并解析统一响应；204时只返回状态码
func Do(t *testing.T, method, url string, data interface{}, token string) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	result := &Response{Status: resp.StatusCode}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, result), "解析JSON响应失败: %s", string(raw))
	}
	return result
}

// Decode 解析data字段
func Decode[T any](t *testing.T, resp *Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v), "解析data失败: %s", string(resp.Data))
	return v
}

var seq atomic.Int64

// Unique 生成唯一字符串（邮箱、书名等）
func Unique(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// RegisterTestUser 注册并登录，返回用户ID与Access Token
func RegisterTestUser(t *testing.T, name string) (uint, string) {
	t.Helper()
	email := Unique(name) + "@test.com"

	reg := Do(t, http.MethodPost, BaseURL+"/users/register",
		map[string]string{"name": name, "email": email, "password": "Test1234"}, "")
	require.Equal(t, http.StatusCreated, reg.Status, "注册失败: %s", reg.Message)
	user := Decode[struct {
		ID uint `json:"id"`
	}](t, reg)

	login := Do(t, http.MethodPost, BaseURL+"/users/login",
		map[string]string{"email": email, "password": "Test1234"}, "")
	require.Equal(t, http.StatusOK, login.Status, "登录失败: %s", login.Message)
	tokens := Decode[struct {
		AccessToken string `json:"accessToken"`
	}](t, login)

	return user.ID, tokens.AccessToken
}

// CreateTestPublisher 新建出版社并返回ID
func CreateTestPublisher(t *testing.T) uint {
	t.Helper()
	resp := Do(t, http.MethodPost, BaseURL+"/publishers", map[string]string{"name": Unique("pub")}, "")
	require.Equal(t, http.StatusCreated, resp.Status, "新建出版社失败: %s", resp.Message)
	return Decode[struct {
		ID uint `json:"id"`
	}](t, resp).ID
}

// CreateTestBook 新建图书并返回ID
func CreateTestBook(t *testing.T, title string, publisherID, userID uint) uint {
	t.Helper()
	resp := Do(t, http.MethodPost, BaseURL+"/books", map[string]interface{}{
		"title":       title,
		"titleKana":   "kana",
		"author":      "测试作者",
		"publisherId": publisherID,
		"userId":      userID,
	}, "")
	require.Equal(t, http.StatusCreated, resp.Status, "新建图书失败: %s", resp.Message)
	return Decode[struct {
		ID uint `json:"id"`
	}](t, resp).ID
}
