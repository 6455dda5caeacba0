//go:build integration

package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUserRegister 注册
func TestUserRegister(t *testing.T) {
	t.Run("正常注册", func(t *testing.T) {
		email := Unique("normal") + "@test.com"
		resp := Do(t, http.MethodPost, BaseURL+"/users/register",
			map[string]string{"name": "测试用户", "email": email, "password": "Test1234"}, "")

		require.Equal(t, http.StatusCreated, resp.Status, resp.Message)
		data := Decode[struct {
			ID    uint   `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
		}](t, resp)
		assert.NotZero(t, data.ID)
		assert.Equal(t, email, data.Email)
		assert.Equal(t, "测试用户", data.Name)
	})

	t.Run("重复邮箱返回409", func(t *testing.T) {
		email := Unique("dup") + "@test.com"
		req := map[string]string{"name": "u1", "email": email, "password": "Test1234"}
		require.Equal(t, http.StatusCreated, Do(t, http.MethodPost, BaseURL+"/users/register", req, "").Status)

		req["name"] = "u2"
		resp := Do(t, http.MethodPost, BaseURL+"/users/register", req, "")
		assert.Equal(t, http.StatusConflict, resp.Status)
		assert.Equal(t, 40902, resp.Code)
	})

	t.Run("密码强度不足返回400", func(t *testing.T) {
		resp := Do(t, http.MethodPost, BaseURL+"/users/register",
			map[string]string{"name": "weak", "email": Unique("weak") + "@test.com", "password": "abcdefgh"}, "")
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Contains(t, resp.Errors, "password")
	})

	t.Run("邮箱格式错误返回400", func(t *testing.T) {
		resp := Do(t, http.MethodPost, BaseURL+"/users/register",
			map[string]string{"name": "bad", "email": "not-an-email", "password": "Test1234"}, "")
		assert.Equal(t, http.StatusBadRequest, resp.Status)
		assert.Contains(t, resp.Errors, "email")
	})
}

// TestUserAuthFlow 登录 → 访问受保护接口 → 登出 → Token失效
func TestUserAuthFlow(t *testing.T) {
	_, token := RegisterTestUser(t, "flow")

	t.Run("密码错误返回401", func(t *testing.T) {
		resp := Do(t, http.MethodPost, BaseURL+"/users/login",
			map[string]string{"email": "nobody@test.com", "password": "Wrong1234"}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("无效Token返回401", func(t *testing.T) {
		resp := Do(t, http.MethodPost, BaseURL+"/users/logout", nil, "invalid")
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		resp := Do(t, http.MethodPost, BaseURL+"/users/logout", nil, token)
		require.Equal(t, http.StatusNoContent, resp.Status)

		resp = Do(t, http.MethodPost, BaseURL+"/users/logout", nil, token)
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})
}
