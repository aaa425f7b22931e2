package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                     "8080",
		Env:                      "production",
		DBDriver:                 "postgres",
		DBSSLMode:                "require",
		DBPassword:               "secure-password",
		JWTSecret:                "secure-secret-at-least-32-chars-long",
		DBConnMaxLifetimeMinutes: 1,
		RedisURL:                 "redis://localhost:6379",
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with empty SSL mode", "prod", "", true},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateProductionRules(t *testing.T) {
	t.Run("default secret rejected", func(t *testing.T) {
		c := validConfig()
		c.JWTSecret = defaultJWTSecret
		assert.Error(t, c.Validate())
	})

	t.Run("sqlite rejected", func(t *testing.T) {
		c := validConfig()
		c.DBDriver = "sqlite"
		assert.Error(t, c.Validate())
	})

	t.Run("unknown driver rejected everywhere", func(t *testing.T) {
		c := validConfig()
		c.Env = "development"
		c.DBDriver = "mysql"
		assert.Error(t, c.Validate())
	})

	t.Run("demo seeding rejected", func(t *testing.T) {
		c := validConfig()
		c.SeedDemoData = true
		assert.Error(t, c.Validate())
	})

	t.Run("negative retention rejected", func(t *testing.T) {
		c := validConfig()
		c.NotificationRetention = -time.Hour
		assert.Error(t, c.Validate())
	})
}

func TestLoadConfig_Defaults(t *testing.T) {
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")
	defer os.Unsetenv("DB_DRIVER")
	defer viper.Reset()

	os.Setenv("APP_ENV", "development")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")
	os.Setenv("DB_DRIVER", "SQLite")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "sqlite", c.DBDriver)
	assert.Equal(t, 72*time.Hour, c.NotificationRetention)
	assert.Equal(t, 72*time.Hour, c.SearchRetention)
	assert.Equal(t, "@every 1h", c.PruneSchedule)
	assert.False(t, c.SeedDemoData)
}
