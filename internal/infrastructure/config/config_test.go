package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: test-secret
database:
  host: db.local
  port: 3306
  user: app
  password: pwd
  dbname: bookadmin
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Cache.DetailTTL)
	assert.Equal(t, uint32(5), cfg.Cache.MaxFailures)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.True(t, cfg.Messages.ExposeCause)
	assert.Equal(t,
		"app:pwd@tcp(db.local:3306)/bookadmin?charset=utf8mb4&parseTime=true&loc=Local&clientFoundRows=true",
		cfg.Database.DSN())
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: test-secret
database:
  password: from-file
`)
	t.Setenv("BOOKADMIN_DATABASE_PASSWORD", "from-env")
	t.Setenv("BOOKADMIN_SERVER_PORT", "9090")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadFrom_Messages(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: test-secret
messages:
  expose_cause: false
  codes:
    "40402": 找不到这本书
  fields:
    pageSize: 每页数量非法
`)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.False(t, cfg.Messages.ExposeCause)
	assert.Equal(t, "找不到这本书", cfg.Messages.Codes["40402"])
	// viper的key不区分大小写，统一转成小写
	assert.Equal(t, "每页数量非法", cfg.Messages.Fields["pagesize"])
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"端口越界", "jwt:\n  secret: s\nserver:\n  port: 70000\n"},
		{"缺少JWT密钥", "server:\n  port: 8080\n"},
		{"生产环境默认密钥", "jwt:\n  secret: your-secret-key-change-in-production\nserver:\n  mode: release\n"},
		{"启用MQ但未配置地址", "jwt:\n  secret: s\nmq:\n  enabled: true\n  url: \"\"\n"},
		{"限流参数非法", "jwt:\n  secret: s\nrate_limit:\n  enabled: true\n  rps: 0\n"},
		{"采样率越界", "jwt:\n  secret: s\ntracing:\n  sample_ratio: 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
