package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMemoryStorageSkipsDatabase(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("STORAGE", "Memory")

	cfg := Load()
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Empty(t, cfg.DBHost)
	assert.Equal(t, 15, cfg.AccessTTLMin)
	assert.Equal(t, "terraza_device", cfg.DeviceCookie)
	assert.Equal(t, 400*24*time.Hour, cfg.DeviceTTL)
}

func TestLoadMySQL(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("APP_PORT", "80")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "30")
	t.Setenv("STORAGE", "")
	t.Setenv("DB_USER", "terrace")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "terrace")
	t.Setenv("DEVICE_TTL", "720h")

	cfg := Load()
	assert.Equal(t, StorageMySQL, cfg.Storage)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Empty(t, cfg.DBPass)
	assert.Equal(t, 720*time.Hour, cfg.DeviceTTL)
}

func TestLoadBuildingConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("TERRACE_FLOORS", "")
		t.Setenv("TERRACE_APARTMENTS", "")
		b := LoadBuildingConfig()
		assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, b.Floors)
		assert.Equal(t, []string{"A", "B"}, b.Apartments)
		assert.Equal(t, "floors=1-6 apartments=A,B", b.String())
	})

	t.Run("custom", func(t *testing.T) {
		t.Setenv("TERRACE_FLOORS", "3")
		t.Setenv("TERRACE_APARTMENTS", "a, b ,c,")
		b := LoadBuildingConfig()
		assert.Equal(t, []int{1, 2, 3}, b.Floors)
		assert.Equal(t, []string{"A", "B", "C"}, b.Apartments)
	})

	t.Run("non positive floors", func(t *testing.T) {
		t.Setenv("TERRACE_FLOORS", "0")
		assert.Equal(t, []int{1}, LoadBuildingConfig().Floors)
	})

	t.Run("largest floor", func(t *testing.T) {
		t.Setenv("TERRACE_FLOORS", "255")
		b := LoadBuildingConfig()
		assert.Len(t, b.Floors, MaxFloor)
		assert.Equal(t, MaxFloor, b.Floors[len(b.Floors)-1])
	})
}

func TestBuildingConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BuildingConfig
		wantErr string
	}{
		{"valid", BuildingConfig{Floors: []int{1, 2}, Apartments: []string{"A", "Ñ"}}, ""},
		{"floor too high", BuildingConfig{Floors: []int{1, 256}, Apartments: []string{"A"}}, "floor 256"},
		{"floor zero", BuildingConfig{Floors: []int{0}, Apartments: []string{"A"}}, "floor 0"},
		{"long apartment", BuildingConfig{Floors: []int{1}, Apartments: []string{"AB"}}, `"AB" must be a single character`},
		{"empty apartment", BuildingConfig{Floors: []int{1}, Apartments: []string{""}}, "single character"},
		{"duplicate apartment", BuildingConfig{Floors: []int{1}, Apartments: []string{"A", "A"}}, "listed twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-4")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_ENABLED", "off")

	rl := LoadRateLimitConfig()
	assert.False(t, rl.Enabled)
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 1, rl.RefillTokens)
	assert.Equal(t, 10*time.Second, rl.TTL)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "bogus")
	c := LoadCacheConfig()
	require.True(t, c.Enabled)
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, c.Methods)
	assert.Equal(t, 30*time.Second, c.TTL)
	assert.Equal(t, "terrace:cache", c.Prefix)
}

func TestLoadQueueAndAdminConfig(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")
	t.Setenv("RABBITMQ_ENABLED", "true")
	q := LoadQueueConfig()
	assert.True(t, q.Enabled)
	assert.Equal(t, "amqp://u:p@broker:5672/", q.URL)

	t.Setenv("ADMIN_PASSWORD_HASH", "")
	assert.False(t, LoadAdminConfig().Enabled())
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abc")
	a := LoadAdminConfig()
	assert.True(t, a.Enabled())
	assert.Equal(t, "admin", a.Username)
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	assert.Equal(t, "cache:6380", LoadRedisConfig().Addr)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	assert.Equal(t, "redis:6379", LoadRedisConfig().Addr)

	t.Setenv("REDIS_ENABLED", "false")
	assert.Nil(t, NewRedisClient(LoadRedisConfig()))
}
