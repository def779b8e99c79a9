package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("FRONTEND_URL_2", "")

	cfg := Load()

	assert.Equal(t, "mongodb://localhost:27017/inkwell", cfg.MongoURI)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
}

func TestLoadAllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://inkwell.app, https://staging.inkwell.app ,")

	cfg := Load()
	assert.Equal(t, []string{"https://inkwell.app", "https://staging.inkwell.app"}, cfg.AllowedOrigins)
}

func TestLoadFrontendURLFallback(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("FRONTEND_URL", "https://inkwell.app")
	t.Setenv("FRONTEND_URL_2", "https://beta.inkwell.app")

	cfg := Load()
	assert.Equal(t, []string{"https://inkwell.app", "https://beta.inkwell.app"}, cfg.AllowedOrigins)
}

func TestIsProduction(t *testing.T) {
	t.Setenv("ENV", "Production")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
}
