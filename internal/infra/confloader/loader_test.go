package confloader

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

type testConfig struct {
	Server struct {
		Redis struct {
			Addr        string        `koanf:"addr"`
			ReadBuffer  int           `koanf:"read_buffer"`
			IdleTimeout time.Duration `koanf:"idle_timeout"`
		} `koanf:"redis"`
	} `koanf:"server"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`

	internal string
	Skipped  string `koanf:"-"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l == nil {
		t.Fatal("NewLoader() returned nil")
	}
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}
	if DefaultEnvPrefix != "RESPKV_" {
		t.Errorf("DefaultEnvPrefix = %q", DefaultEnvPrefix)
	}
}

func TestNewLoader_WithOptions(t *testing.T) {
	l := NewLoader(
		WithEnvPrefix("TEST_"),
		WithConfigFile("/path/to/config.yaml"),
	)

	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.FilePath() != "/path/to/config.yaml" {
		t.Errorf("FilePath() = %q, want %q", l.FilePath(), "/path/to/config.yaml")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeConfig(t, `
server:
  redis:
    addr: "0.0.0.0:6380"
    read_buffer: 8192
log:
  level: debug
`)

	l := NewLoader()
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if addr := l.GetString("server.redis.addr"); addr != "0.0.0.0:6380" {
		t.Errorf("server.redis.addr = %q, want %q", addr, "0.0.0.0:6380")
	}
	if n := l.GetInt("server.redis.read_buffer"); n != 8192 {
		t.Errorf("server.redis.read_buffer = %d, want 8192", n)
	}
}

func TestLoader_LoadFile_NotFound(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
}

func TestLoader_LoadFile_Empty(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestLoader_LoadEnv_UnknownKeys(t *testing.T) {
	t.Setenv("MYAPP_SERVER_PORT", "9090")

	l := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	if port := l.GetString("server.port"); port != "9090" {
		t.Errorf("server.port = %q, want %q", port, "9090")
	}
}

func TestLoader_Load_EnvKeysWithUnderscores(t *testing.T) {
	t.Setenv("RESPKV_SERVER_REDIS_READ_BUFFER", "16384")
	t.Setenv("RESPKV_SERVER_REDIS_IDLE_TIMEOUT", "90s")
	t.Setenv("RESPKV_LOG_LEVEL", "warn")

	var cfg testConfig
	if err := NewLoader().Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Redis.ReadBuffer != 16384 {
		t.Errorf("ReadBuffer = %d, want 16384", cfg.Server.Redis.ReadBuffer)
	}
	if cfg.Server.Redis.IdleTimeout != 90*time.Second {
		t.Errorf("IdleTimeout = %v, want 90s", cfg.Server.Redis.IdleTimeout)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "warn")
	}
}

func TestLoader_LoadMap(t *testing.T) {
	l := NewLoader()

	data := map[string]any{
		"server.redis.addr": "localhost:3000",
		"debug":             true,
	}

	if err := l.LoadMap(data); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if addr := l.GetString("server.redis.addr"); addr != "localhost:3000" {
		t.Errorf("server.redis.addr = %q, want %q", addr, "localhost:3000")
	}
	if !l.GetBool("debug") {
		t.Error("debug should be true")
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, `
server:
  redis:
    addr: "from-file:6379"
    read_buffer: 1024
log:
  level: error
`)
	t.Setenv("RESPKV_SERVER_REDIS_ADDR", "from-env:6379")
	t.Setenv("RESPKV_LOG_LEVEL", "info")

	l := NewLoader(WithConfigFile(path))
	if err := l.LoadMap(map[string]any{"log.level": "debug"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	var cfg testConfig
	cfg.Server.Redis.IdleTimeout = time.Minute
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Redis.Addr != "from-env:6379" {
		t.Errorf("Addr = %q, want env to override file", cfg.Server.Redis.Addr)
	}
	if cfg.Server.Redis.ReadBuffer != 1024 {
		t.Errorf("ReadBuffer = %d, want file value 1024", cfg.Server.Redis.ReadBuffer)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want map to override env", cfg.Log.Level)
	}
	if cfg.Server.Redis.IdleTimeout != time.Minute {
		t.Errorf("IdleTimeout = %v, want untouched default 1m", cfg.Server.Redis.IdleTimeout)
	}
}

func TestLoader_Reload(t *testing.T) {
	path := writeConfig(t, "log:\n  level: info\n")

	l := NewLoader(WithConfigFile(path))
	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Fatalf("Log.Level = %q, want info", cfg.Log.Level)
	}

	if err := os.WriteFile(path, []byte("log:\n  level: debug\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var next testConfig
	if err := l.Reload(&next); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if next.Log.Level != "debug" {
		t.Errorf("Log.Level after reload = %q, want debug", next.Log.Level)
	}
}

func TestLoader_Load_BadFile(t *testing.T) {
	path := writeConfig(t, "server: [unclosed\n")

	var cfg testConfig
	if err := NewLoader(WithConfigFile(path)).Load(&cfg); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestLoader_IsLoaded(t *testing.T) {
	l := NewLoader()

	if l.IsLoaded() {
		t.Error("IsLoaded() should be false before Load()")
	}

	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !l.IsLoaded() {
		t.Error("IsLoaded() should be true after Load()")
	}
}

func TestLoader_AllAndKeys(t *testing.T) {
	l := NewLoader()
	if err := l.LoadMap(map[string]any{
		"key1": "value1",
		"key2": "value2",
	}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}

	if all := l.All(); len(all) < 2 {
		t.Errorf("All() returned %d keys, want at least 2", len(all))
	}
	if keys := l.Keys(); len(keys) < 2 {
		t.Errorf("Keys() returned %d keys, want at least 2", len(keys))
	}
	if v := l.Get("key1"); v != "value1" {
		t.Errorf("Get(key1) = %v, want value1", v)
	}
}

func TestStructKeys(t *testing.T) {
	got := structKeys(reflect.TypeOf(&testConfig{}), "")
	want := []string{
		"server.redis.addr",
		"server.redis.read_buffer",
		"server.redis.idle_timeout",
		"log.level",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("structKeys() = %v, want %v", got, want)
	}

	if keys := structKeys(reflect.TypeOf(42), ""); keys != nil {
		t.Errorf("structKeys(int) = %v, want nil", keys)
	}
}
