package bootstrap

import (
	"testing"

	"go.uber.org/zap"
)

func TestValidateConfig_RejectsBadMongoURI(t *testing.T) {
	cfg := AppConfig{MongoURI: "postgres://nope"}
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Error("expected error for non-mongodb URI")
	}
}

func TestValidateConfig_RejectsHalfConfiguredOAuth(t *testing.T) {
	cfg := AppConfig{
		MongoURI:       "mongodb://localhost:27017",
		GoogleClientID: "client-id-without-secret",
	}
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err == nil {
		t.Error("expected error when only one OAuth credential is set")
	}

	cfg.GoogleClientSecret = "secret"
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err != nil {
		t.Errorf("fully configured OAuth should validate: %v", err)
	}

	cfg.GoogleClientID, cfg.GoogleClientSecret = "", ""
	if err := ValidateConfig(nil, cfg, zap.NewNop()); err != nil {
		t.Errorf("OAuth left unconfigured should validate: %v", err)
	}
}
