package config

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DevelopmentDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, "ledger_db", cfg.Database.Name)
	assert.Equal(t, 5, cfg.Security.RateLimitPerSecond)
	assert.Equal(t, 10, cfg.Security.RateLimitBurst)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTokenDuration)

	// Without explicit keys an ephemeral pair is generated.
	assert.NotNil(t, cfg.JWT.PrivateKey)
	assert.NotNil(t, cfg.JWT.PublicKey)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "testing")
	t.Setenv("SERVER_PORT", "9191")
	t.Setenv("DB_MAX_CONNECTIONS", "50")
	t.Setenv("JWT_ACCESS_TOKEN_DURATION", "45m")
	t.Setenv("RATE_LIMIT_PER_SECOND", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9191", cfg.Server.Port)
	assert.Equal(t, 50, cfg.Database.MaxConnections)
	assert.Equal(t, 45*time.Minute, cfg.JWT.AccessTokenDuration)
	assert.Equal(t, 2, cfg.Security.RateLimitPerSecond)
	assert.True(t, cfg.IsTesting())
}

func TestLoad_ProductionRequiresKeys(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_PRIVATE_KEY", "")
	t.Setenv("JWT_PUBLIC_KEY", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_PRIVATE_KEY")
}

func TestLoad_KeysFromEnvironment(t *testing.T) {
	privateKey, _, err := GenerateRSAKeyPair()
	require.NoError(t, err)

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})
	publicDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})

	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_PRIVATE_KEY", base64.StdEncoding.EncodeToString(privatePEM))
	t.Setenv("JWT_PUBLIC_KEY", base64.StdEncoding.EncodeToString(publicPEM))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, privateKey.N, cfg.JWT.PrivateKey.N)
	assert.Equal(t, privateKey.PublicKey.E, cfg.JWT.PublicKey.E)
}

func TestLoad_RejectsGarbageKeys(t *testing.T) {
	t.Setenv("JWT_PRIVATE_KEY", base64.StdEncoding.EncodeToString([]byte("not a key")))
	t.Setenv("JWT_PUBLIC_KEY", base64.StdEncoding.EncodeToString([]byte("not a key")))

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "ledger",
		Password: "secret",
		Name:     "ledger_db",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=ledger password=secret dbname=ledger_db sslmode=require",
		cfg.DSN())
}

func TestCORSAllowOrigins_ParsesAndTrims(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGINS", "https://app.example.com , https://admin.example.com")

	origins := corsAllowOrigins(false)

	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, origins)
}

func TestEnvInt_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("DB_MAX_CONNECTIONS", "plenty")

	assert.Equal(t, 25, envInt("DB_MAX_CONNECTIONS", 25))
}

func TestEnvDuration_FallsBackOnGarbage(t *testing.T) {
	t.Setenv("SERVER_READ_TIMEOUT", "soonish")

	assert.Equal(t, 15*time.Second, envDuration("SERVER_READ_TIMEOUT", 15*time.Second))
}
