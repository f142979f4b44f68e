package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestApplyEnvOverrides(t *testing.T) {
	env := defaultEnv()
	vars := map[string]string{
		"APP_ADDR":                    ":9090",
		"ACCESS_TOKEN_EXPIRE_MINUTES": "30",
		"CORS_ALLOWED_ORIGINS":        "http://a.test, ,http://b.test",
		"DB_NAME":                     "other",
	}
	applyEnvOverrides(&env, func(k string) string { return vars[k] })

	if env.AppAddr != ":9090" {
		t.Fatalf("addr not overridden: %s", env.AppAddr)
	}
	if env.TokenTTL() != 30*time.Minute {
		t.Fatalf("ttl got %s", env.TokenTTL())
	}
	if len(env.CORSOrigins) != 2 || env.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", env.CORSOrigins)
	}
	if env.DB.Name != "other" || env.DB.Host != "127.0.0.1:3306" {
		t.Fatalf("unexpected db config %+v", env.DB)
	}
}

func TestLoadEnvFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	data := []byte("addr: \":7000\"\ntime_zone: Europe/Madrid\naccess_token_expire_minutes: 45\nsecret_key: s3cret\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	env, err := LoadEnv(path)
	if err != nil {
		t.Fatalf("LoadEnv error: %v", err)
	}
	if os.Getenv("APP_ADDR") == "" && env.AppAddr != ":7000" {
		t.Fatalf("addr got %s", env.AppAddr)
	}
	secret, err := env.Secret()
	if err != nil || (os.Getenv("SECRET_KEY") == "" && string(secret) != "s3cret") {
		t.Fatalf("secret got %q err %v", secret, err)
	}
}

func TestLoadEnvRejectsBadTTL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("access_token_expire_minutes: 0\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if os.Getenv("ACCESS_TOKEN_EXPIRE_MINUTES") != "" {
		t.Skip("ttl overridden by environment")
	}
	if _, err := LoadEnv(path); err == nil {
		t.Fatalf("expected validation error for ttl=0")
	}
}

func TestSecretFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "secret_key.txt")
	if err := os.WriteFile(path, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write secret: %v", err)
	}
	env := Env{SecretKey: "ignored", SecretKeyFile: path}
	secret, err := env.Secret()
	if err != nil {
		t.Fatalf("Secret error: %v", err)
	}
	if string(secret) != "from-file" {
		t.Fatalf("secret got %q", secret)
	}

	if _, err := (Env{}).Secret(); err == nil {
		t.Fatalf("expected error when no secret configured")
	}
}

func TestBuildDSN(t *testing.T) {
	c := DBConfig{Host: "db:3306", User: "u", Password: "p", Name: "bus"}
	want := "u:p@tcp(db:3306)/bus?parseTime=true&loc=UTC&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
	if got := c.BuildDSN(); got != want {
		t.Fatalf("dsn got %s", got)
	}
	c.DSN = "explicit"
	if c.BuildDSN() != "explicit" {
		t.Fatalf("explicit dsn ignored")
	}
}
