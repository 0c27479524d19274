package bootstrap

import (
	"strings"
	"testing"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		APIBaseURL: "https://api.example.com/api/v1",
		MongoURI:   "mongodb://localhost:27017",
		SessionKey: strings.Repeat("k", 32),
	}
}

func TestValidateConfig_AcceptsValid(t *testing.T) {
	coreCfg := &config.CoreConfig{Env: "dev"}
	if err := ValidateConfig(coreCfg, validAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ValidateConfig rejected a valid config: %v", err)
	}
}

func TestValidateConfig_RejectsBadAPIBaseURL(t *testing.T) {
	cases := []string{"", "not-a-url", "ftp://api.example.com", "/relative/path"}
	for _, raw := range cases {
		cfg := validAppConfig()
		cfg.APIBaseURL = raw
		if err := ValidateConfig(&config.CoreConfig{Env: "dev"}, cfg, zap.NewNop()); err == nil {
			t.Errorf("api_base_url %q accepted, want error", raw)
		}
	}
}

func TestValidateConfig_RejectsBadMongoURI(t *testing.T) {
	cfg := validAppConfig()
	cfg.MongoURI = "postgres://localhost:5432"
	if err := ValidateConfig(&config.CoreConfig{Env: "dev"}, cfg, zap.NewNop()); err == nil {
		t.Error("non-mongodb URI accepted, want error")
	}
}

func TestValidateConfig_RejectsDefaultSessionKeyInProd(t *testing.T) {
	cfg := validAppConfig()
	cfg.SessionKey = "dev-only-change-me-please-0123456789ABCDEF"

	if err := ValidateConfig(&config.CoreConfig{Env: "prod"}, cfg, zap.NewNop()); err == nil {
		t.Error("default session key accepted in prod, want error")
	}
	if err := ValidateConfig(&config.CoreConfig{Env: "dev"}, cfg, zap.NewNop()); err != nil {
		t.Errorf("default session key rejected in dev: %v", err)
	}
}
